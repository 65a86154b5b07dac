package account

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
)

type fakeQuerier struct {
	accounts map[uuid.UUID]Account
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{accounts: map[uuid.UUID]Account{}}
}

func (f *fakeQuerier) List(_ context.Context, filter Filter) ([]Account, int, error) {
	var out []Account
	for _, a := range f.accounts {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (f *fakeQuerier) Get(_ context.Context, id uuid.UUID) (Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeQuerier) Insert(_ context.Context, a Account) (Account, error) {
	for _, existing := range f.accounts {
		if existing.Email == a.Email {
			return Account{}, ErrDuplicateEmail
		}
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.accounts[a.ID] = a
	return a, nil
}

func (f *fakeQuerier) Update(_ context.Context, a Account) (Account, error) {
	if _, ok := f.accounts[a.ID]; !ok {
		return Account{}, ErrNotFound
	}
	for id, existing := range f.accounts {
		if id != a.ID && existing.Email == a.Email {
			return Account{}, ErrDuplicateEmail
		}
	}
	f.accounts[a.ID] = a
	return a, nil
}

func (f *fakeQuerier) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(f.accounts, id)
	return nil
}

func newService() (*Service, *fakeQuerier) {
	q := newFakeQuerier()
	return &Service{Q: q, Validate: validator.New()}, q
}

func customerInput() CreateInput {
	return CreateInput{
		Email: "nour@example.com",
		Name:  "Nour Hassan",
		Phone: "+201001234567",
		Role:  "customer",
		Profile: Profile{
			Customer: &CustomerProfile{Governorate: "Cairo"},
		},
	}
}

func pharmacyInput() CreateInput {
	return CreateInput{
		Email: "elshefa@example.com",
		Name:  "El Shefa Pharmacy",
		Phone: "+20212345678",
		Role:  "pharmacy",
		Profile: Profile{
			Pharmacy: &PharmacyProfile{
				PharmacyName:     "El Shefa",
				LicenseNumber:    "PH-1234",
				Governorate:      "Giza",
				DeliveryRadiusKM: 10,
			},
		},
	}
}

func TestCreateCustomer(t *testing.T) {
	svc, _ := newService()
	a, err := svc.Create(context.Background(), customerInput())
	require.NoError(t, err)
	require.Equal(t, RoleCustomer, a.Role)
	require.Equal(t, StatusActive, a.Status)
	require.NotNil(t, a.Profile.Customer)
	require.Nil(t, a.Profile.Pharmacy)
}

func TestCreateRejectsProfileRoleMismatch(t *testing.T) {
	svc, _ := newService()
	in := customerInput()
	in.Profile = Profile{Pharmacy: &PharmacyProfile{PharmacyName: "X", LicenseNumber: "1", Governorate: "Cairo"}}

	_, err := svc.Create(context.Background(), in)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "PROFILE_MISMATCH", appErr.Code)
}

func TestCreateRejectsMultipleProfiles(t *testing.T) {
	svc, _ := newService()
	in := customerInput()
	in.Profile.Pharmacy = &PharmacyProfile{PharmacyName: "X", LicenseNumber: "1", Governorate: "Cairo"}

	_, err := svc.Create(context.Background(), in)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "PROFILE_MISMATCH", appErr.Code)
}

func TestCreateRejectsEmptyProfile(t *testing.T) {
	svc, _ := newService()
	in := customerInput()
	in.Profile = Profile{}

	_, err := svc.Create(context.Background(), in)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "PROFILE_MISMATCH", appErr.Code)
}

func TestCreateValidatesRolePayload(t *testing.T) {
	svc, _ := newService()
	in := pharmacyInput()
	in.Profile.Pharmacy.LicenseNumber = ""

	_, err := svc.Create(context.Background(), in)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "VALIDATION_FAILED", appErr.Code)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, customerInput())
	require.NoError(t, err)

	in := customerInput()
	in.Name = "Another Person"
	_, err = svc.Create(ctx, in)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "EMAIL_TAKEN", appErr.Code)
	require.Equal(t, 409, appErr.HTTPStatus)
}

func TestCreateNormalizesEmail(t *testing.T) {
	svc, _ := newService()
	in := customerInput()
	in.Email = "  Nour@Example.COM "

	a, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "nour@example.com", a.Email)
}

func TestUpdateKeepsRole(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, pharmacyInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{
		Email: "new@example.com",
		Name:  "El Shefa Pharmacy",
		Phone: "+20212345678",
		Profile: Profile{
			Pharmacy: &PharmacyProfile{
				PharmacyName:     "El Shefa",
				LicenseNumber:    "PH-9999",
				Governorate:      "Giza",
				DeliveryRadiusKM: 15,
			},
		},
	})
	require.NoError(t, err)
	require.Equal(t, RolePharmacy, updated.Role)
	require.Equal(t, "PH-9999", updated.Profile.Pharmacy.LicenseNumber)
}

func TestUpdateRejectsWrongRoleProfile(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, customerInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, UpdateInput{
		Email:   created.Email,
		Name:    created.Name,
		Phone:   created.Phone,
		Profile: Profile{Doctor: &DoctorProfile{LicenseNumber: "D-1", Specialty: "GP"}},
	})
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "PROFILE_MISMATCH", appErr.Code)
}

func TestSetStatus(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, customerInput())
	require.NoError(t, err)

	deactivated, err := svc.SetStatus(ctx, created.ID, StatusInactive)
	require.NoError(t, err)
	require.Equal(t, StatusInactive, deactivated.Status)

	reactivated, err := svc.SetStatus(ctx, created.ID, StatusActive)
	require.NoError(t, err)
	require.Equal(t, StatusActive, reactivated.Status)
}

func TestListFilterByRole(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, customerInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, pharmacyInput())
	require.NoError(t, err)

	result, err := svc.List(ctx, Filter{Role: RolePharmacy})
	require.NoError(t, err)
	require.Len(t, result.Accounts, 1)
	require.Equal(t, RolePharmacy, result.Accounts[0].Role)
}

func TestListRejectsUnknownRole(t *testing.T) {
	svc, _ := newService()
	_, err := svc.List(context.Background(), Filter{Role: "admin"})
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "INVALID_ROLE", appErr.Code)
}

func TestDelete(t *testing.T) {
	svc, q := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, customerInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.Empty(t, q.accounts)

	err = svc.Delete(ctx, created.ID)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, 404, appErr.HTTPStatus)
}
