package account

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role discriminates which profile payload an account carries.
type Role string

const (
	RoleCustomer Role = "customer"
	RolePharmacy Role = "pharmacy"
	RoleDoctor   Role = "doctor"
	RoleVendor   Role = "vendor"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RolePharmacy, RoleDoctor, RoleVendor:
		return true
	}
	return false
}

// Status is the account lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// CustomerProfile is the profile payload for customer accounts.
type CustomerProfile struct {
	DateOfBirth       string   `json:"date_of_birth,omitempty"`
	Governorate       string   `json:"governorate,omitempty"`
	ChronicConditions []string `json:"chronic_conditions,omitempty"`
}

// PharmacyProfile is the profile payload for pharmacy accounts.
type PharmacyProfile struct {
	PharmacyName     string  `json:"pharmacy_name" validate:"required"`
	LicenseNumber    string  `json:"license_number" validate:"required"`
	Governorate      string  `json:"governorate" validate:"required"`
	DeliveryRadiusKM float64 `json:"delivery_radius_km" validate:"gte=0"`
}

// DoctorProfile is the profile payload for doctor accounts.
type DoctorProfile struct {
	LicenseNumber string `json:"license_number" validate:"required"`
	Specialty     string `json:"specialty" validate:"required"`
	ClinicAddress string `json:"clinic_address,omitempty"`
}

// VendorProfile is the profile payload for vendor accounts.
type VendorProfile struct {
	CompanyName       string   `json:"company_name" validate:"required"`
	TaxID             string   `json:"tax_id" validate:"required"`
	ProductCategories []string `json:"product_categories,omitempty"`
}

// Profile is a tagged union of the role-specific payloads. Exactly one
// member must be set and it must match the account's role.
type Profile struct {
	Customer *CustomerProfile `json:"customer,omitempty"`
	Pharmacy *PharmacyProfile `json:"pharmacy,omitempty"`
	Doctor   *DoctorProfile   `json:"doctor,omitempty"`
	Vendor   *VendorProfile   `json:"vendor,omitempty"`
}

// MatchesRole checks the union carries exactly the payload for role.
func (p Profile) MatchesRole(role Role) error {
	set := 0
	if p.Customer != nil {
		set++
	}
	if p.Pharmacy != nil {
		set++
	}
	if p.Doctor != nil {
		set++
	}
	if p.Vendor != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("profile must carry exactly one payload, got %d", set)
	}
	match := false
	switch role {
	case RoleCustomer:
		match = p.Customer != nil
	case RolePharmacy:
		match = p.Pharmacy != nil
	case RoleDoctor:
		match = p.Doctor != nil
	case RoleVendor:
		match = p.Vendor != nil
	}
	if !match {
		return fmt.Errorf("profile payload does not match role %s", role)
	}
	return nil
}

// Account is a platform account of any role.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// encodeProfile serializes only the payload matching the role so stale
// members never leak into storage.
func encodeProfile(role Role, p Profile) ([]byte, error) {
	trimmed := Profile{}
	switch role {
	case RoleCustomer:
		trimmed.Customer = p.Customer
	case RolePharmacy:
		trimmed.Pharmacy = p.Pharmacy
	case RoleDoctor:
		trimmed.Doctor = p.Doctor
	case RoleVendor:
		trimmed.Vendor = p.Vendor
	}
	return json.Marshal(trimmed)
}
