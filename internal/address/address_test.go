package address

import "testing"

func fullAddress() Address {
	return Address{
		FirstName:   "Nour",
		LastName:    "Hassan",
		Phone:       "+201001234567",
		WhatsApp:    "+201001234567",
		Governorate: "Cairo",
		City:        "Nasr City",
		Area:        "7th District",
		Street:      "Abbas El Akkad",
		Building:    "12",
	}
}

func TestValidAllRequiredFilled(t *testing.T) {
	if !fullAddress().Valid() {
		t.Fatal("expected address with all required fields to be valid")
	}
}

func TestInvalidWhenRequiredFieldMissing(t *testing.T) {
	mutations := map[string]func(*Address){
		"first name":  func(a *Address) { a.FirstName = "" },
		"last name":   func(a *Address) { a.LastName = "" },
		"phone":       func(a *Address) { a.Phone = "" },
		"whatsapp":    func(a *Address) { a.WhatsApp = "" },
		"governorate": func(a *Address) { a.Governorate = "" },
		"city":        func(a *Address) { a.City = "" },
		"area":        func(a *Address) { a.Area = "" },
		"street":      func(a *Address) { a.Street = "" },
		"building":    func(a *Address) { a.Building = "" },
	}
	for name, mutate := range mutations {
		addr := fullAddress()
		mutate(&addr)
		if addr.Valid() {
			t.Errorf("address missing %s should be invalid", name)
		}
	}
}

func TestWhitespaceOnlyFieldIsInvalid(t *testing.T) {
	addr := fullAddress()
	addr.Street = "   "
	if addr.Valid() {
		t.Fatal("whitespace-only street should be invalid")
	}
}

func TestOptionalFieldsDoNotAffectValidity(t *testing.T) {
	addr := fullAddress()
	addr.Floor = ""
	addr.Apartment = ""
	addr.Landmark = ""
	addr.Notes = ""
	if !addr.Valid() {
		t.Fatal("optional fields must not be required")
	}
}

func TestString(t *testing.T) {
	addr := fullAddress()
	got := addr.String()
	want := "12, Abbas El Akkad, 7th District, Nasr City, Cairo"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
