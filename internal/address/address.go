package address

import "strings"

// Address is a delivery address collected from the customer.
type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	WhatsApp    string `json:"whatsapp"`
	Governorate string `json:"governorate"`
	City        string `json:"city"`
	Area        string `json:"area"`
	Street      string `json:"street"`
	Building    string `json:"building"`
	Floor       string `json:"floor,omitempty"`
	Apartment   string `json:"apartment,omitempty"`
	Landmark    string `json:"landmark,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Valid reports whether every required field is non-empty after trimming.
// Floor, apartment, landmark and notes are optional.
func (a Address) Valid() bool {
	required := []string{
		a.FirstName,
		a.LastName,
		a.Phone,
		a.WhatsApp,
		a.Governorate,
		a.City,
		a.Area,
		a.Street,
		a.Building,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// String renders a single-line summary suitable for logs and task payloads.
func (a Address) String() string {
	parts := []string{a.Building, a.Street, a.Area, a.City, a.Governorate}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, ", ")
}
