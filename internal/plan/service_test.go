package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
	"github.com/dawaa-dev/backend-dawaa/internal/pricing"
)

type fakeQuerier struct {
	plans map[uuid.UUID]Plan
	order []uuid.UUID
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{plans: map[uuid.UUID]Plan{}}
}

func (f *fakeQuerier) ListActive(context.Context) ([]Plan, error) {
	var out []Plan
	for _, id := range f.order {
		if p := f.plans[id]; p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeQuerier) Get(_ context.Context, id uuid.UUID) (Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return Plan{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeQuerier) Insert(_ context.Context, p Plan) (Plan, error) {
	f.plans[p.ID] = p
	f.order = append(f.order, p.ID)
	return p, nil
}

func (f *fakeQuerier) Update(_ context.Context, p Plan) (Plan, error) {
	if _, ok := f.plans[p.ID]; !ok {
		return Plan{}, ErrNotFound
	}
	f.plans[p.ID] = p
	return p, nil
}

func newService() (*Service, *fakeQuerier) {
	q := newFakeQuerier()
	return &Service{Q: q, Validate: validator.New()}, q
}

func validInput() SaveInput {
	return SaveInput{
		Name:          "Basic",
		MinOrderValue: 0,
		MonthlyFee:    15,
		OrderDiscount: 20,
		Frequency:     "monthly",
		Position:      0,
	}
}

func TestCreateAndList(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	require.True(t, created.Active)

	plans, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Equal(t, "Basic", plans[0].Name)
}

func TestCreateRejectsBadFrequency(t *testing.T) {
	svc, _ := newService()
	in := validInput()
	in.Frequency = "fortnightly"

	_, err := svc.Create(context.Background(), in)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "INVALID_FREQUENCY", appErr.Code)
}

func TestCreateRejectsMissingName(t *testing.T) {
	svc, _ := newService()
	in := validInput()
	in.Name = ""

	_, err := svc.Create(context.Background(), in)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "VALIDATION_FAILED", appErr.Code)
	require.Equal(t, 400, appErr.HTTPStatus)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Update(context.Background(), uuid.New(), validInput())
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "PLAN_NOT_FOUND", appErr.Code)
}

func TestUpdateCanDeactivate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	inactive := false
	in.Active = &inactive
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	require.False(t, updated.Active)

	plans, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Empty(t, plans)
}

func TestPricingPlansPreserveOrder(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	for i, name := range []string{"Free", "Premium", "Plus"} {
		in := validInput()
		in.Name = name
		in.Position = i
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	plans, err := svc.PricingPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	require.Equal(t, "Free", plans[0].Name)
	require.Equal(t, "Premium", plans[1].Name)
	require.Equal(t, "Plus", plans[2].Name)
	require.IsType(t, pricing.Plan{}, plans[0])
}
