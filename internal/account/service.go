package account

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
)

// CreateInput is the payload for registering an account.
type CreateInput struct {
	Email   string  `json:"email" validate:"required,email"`
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	Phone   string  `json:"phone" validate:"required,min=8,max=20"`
	Role    string  `json:"role" validate:"required"`
	Profile Profile `json:"profile"`
}

// UpdateInput is the payload for editing an account. Role cannot change.
type UpdateInput struct {
	Email   string  `json:"email" validate:"required,email"`
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	Phone   string  `json:"phone" validate:"required,min=8,max=20"`
	Profile Profile `json:"profile"`
}

// ListResult bundles a page of accounts with the total match count.
type ListResult struct {
	Accounts []Account
	Total    int
}

// Service implements account CRUD with role-aware profile validation.
type Service struct {
	Q        Querier
	Validate *validator.Validate
}

// List returns accounts matching the filter.
func (s *Service) List(ctx context.Context, f Filter) (ListResult, error) {
	if f.Role != "" && !f.Role.Valid() {
		return ListResult{}, common.NewAppError("INVALID_ROLE", "unknown role filter", http.StatusBadRequest, nil)
	}
	accounts, total, err := s.Q.List(ctx, f)
	if err != nil {
		return ListResult{}, fmt.Errorf("list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []Account{}
	}
	return ListResult{Accounts: accounts, Total: total}, nil
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Account, error) {
	a, err := s.Q.Get(ctx, id)
	if err == ErrNotFound {
		return Account{}, common.NewAppError("ACCOUNT_NOT_FOUND", "account not found", http.StatusNotFound, err)
	}
	return a, err
}

// Create validates and registers a new account.
func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	if err := s.checkStruct(in); err != nil {
		return Account{}, err
	}
	role := Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if !role.Valid() {
		return Account{}, common.NewAppError("INVALID_ROLE", "role must be customer, pharmacy, doctor or vendor", http.StatusBadRequest, nil)
	}
	if err := s.checkProfile(role, in.Profile); err != nil {
		return Account{}, err
	}
	a := Account{
		ID:      uuid.New(),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Role:    role,
		Status:  StatusActive,
		Profile: in.Profile,
	}
	saved, err := s.Q.Insert(ctx, a)
	if err == ErrDuplicateEmail {
		return Account{}, common.NewAppError("EMAIL_TAKEN", "email is already registered", http.StatusConflict, err)
	}
	if err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}
	return saved, nil
}

// Update validates and edits an existing account.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Account, error) {
	if err := s.checkStruct(in); err != nil {
		return Account{}, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if err := s.checkProfile(existing.Role, in.Profile); err != nil {
		return Account{}, err
	}
	existing.Email = strings.ToLower(strings.TrimSpace(in.Email))
	existing.Name = strings.TrimSpace(in.Name)
	existing.Phone = strings.TrimSpace(in.Phone)
	existing.Profile = in.Profile

	saved, err := s.Q.Update(ctx, existing)
	if err == ErrDuplicateEmail {
		return Account{}, common.NewAppError("EMAIL_TAKEN", "email is already registered", http.StatusConflict, err)
	}
	if err == ErrNotFound {
		return Account{}, common.NewAppError("ACCOUNT_NOT_FOUND", "account not found", http.StatusNotFound, err)
	}
	if err != nil {
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	return saved, nil
}

// SetStatus activates or deactivates an account.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (Account, error) {
	if status != StatusActive && status != StatusInactive {
		return Account{}, common.NewAppError("INVALID_STATUS", "status must be active or inactive", http.StatusBadRequest, nil)
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if existing.Status == status {
		return existing, nil
	}
	existing.Status = status
	saved, err := s.Q.Update(ctx, existing)
	if err != nil {
		return Account{}, fmt.Errorf("set account status: %w", err)
	}
	return saved, nil
}

// Delete removes an account permanently.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.Q.Delete(ctx, id)
	if err == ErrNotFound {
		return common.NewAppError("ACCOUNT_NOT_FOUND", "account not found", http.StatusNotFound, err)
	}
	return err
}

func (s *Service) checkStruct(v any) error {
	if s.Validate == nil {
		return nil
	}
	if err := s.Validate.Struct(v); err != nil {
		return common.NewAppError("VALIDATION_FAILED", err.Error(), http.StatusBadRequest, err)
	}
	return nil
}

func (s *Service) checkProfile(role Role, p Profile) error {
	if err := p.MatchesRole(role); err != nil {
		return common.NewAppError("PROFILE_MISMATCH", err.Error(), http.StatusBadRequest, err)
	}
	if s.Validate == nil {
		return nil
	}
	var payload any
	switch role {
	case RoleCustomer:
		payload = p.Customer
	case RolePharmacy:
		payload = p.Pharmacy
	case RoleDoctor:
		payload = p.Doctor
	case RoleVendor:
		payload = p.Vendor
	}
	if payload == nil {
		return nil
	}
	if err := s.Validate.Struct(payload); err != nil {
		return common.NewAppError("VALIDATION_FAILED", err.Error(), http.StatusBadRequest, err)
	}
	return nil
}
