package plan

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
	"github.com/dawaa-dev/backend-dawaa/internal/pricing"
)

// SaveInput is the payload for creating or updating a plan.
type SaveInput struct {
	Name             string        `json:"name" validate:"required,min=2,max=100"`
	MinOrderValue    pricing.Money `json:"min_order_value" validate:"gte=0"`
	MonthlyFee       pricing.Money `json:"monthly_fee" validate:"gte=0"`
	MedicineDiscount pricing.Money `json:"medicine_discount" validate:"gte=0"`
	OrderDiscount    pricing.Money `json:"order_discount" validate:"gte=0"`
	Frequency        string        `json:"frequency" validate:"required"`
	Position         int           `json:"position" validate:"gte=0"`
	Active           *bool         `json:"active"`
}

// Service serves plan reads and admin writes.
type Service struct {
	Q        Querier
	Validate *validator.Validate
}

// ListActive returns all active plans in offer order.
func (s *Service) ListActive(ctx context.Context) ([]Plan, error) {
	plans, err := s.Q.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []Plan{}
	}
	return plans, nil
}

// PricingPlans returns the active plans converted for the pricing engine,
// preserving position order.
func (s *Service) PricingPlans(ctx context.Context) ([]pricing.Plan, error) {
	plans, err := s.Q.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]pricing.Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.PricingPlan())
	}
	return out, nil
}

// Get fetches one plan.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Plan, error) {
	p, err := s.Q.Get(ctx, id)
	if err == ErrNotFound {
		return Plan{}, common.NewAppError("PLAN_NOT_FOUND", "plan not found", http.StatusNotFound, err)
	}
	return p, err
}

// Create validates and persists a new plan.
func (s *Service) Create(ctx context.Context, in SaveInput) (Plan, error) {
	if err := s.check(in); err != nil {
		return Plan{}, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	p := Plan{
		ID:               uuid.New(),
		Name:             in.Name,
		MinOrderValue:    in.MinOrderValue,
		MonthlyFee:       in.MonthlyFee,
		MedicineDiscount: in.MedicineDiscount,
		OrderDiscount:    in.OrderDiscount,
		Frequency:        pricing.Frequency(in.Frequency),
		Position:         in.Position,
		Active:           active,
	}
	saved, err := s.Q.Insert(ctx, p)
	if err != nil {
		return Plan{}, fmt.Errorf("create plan: %w", err)
	}
	return saved, nil
}

// Update validates and persists changes to an existing plan.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in SaveInput) (Plan, error) {
	if err := s.check(in); err != nil {
		return Plan{}, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	existing.Name = in.Name
	existing.MinOrderValue = in.MinOrderValue
	existing.MonthlyFee = in.MonthlyFee
	existing.MedicineDiscount = in.MedicineDiscount
	existing.OrderDiscount = in.OrderDiscount
	existing.Frequency = pricing.Frequency(in.Frequency)
	existing.Position = in.Position
	if in.Active != nil {
		existing.Active = *in.Active
	}
	saved, err := s.Q.Update(ctx, existing)
	if err == ErrNotFound {
		return Plan{}, common.NewAppError("PLAN_NOT_FOUND", "plan not found", http.StatusNotFound, err)
	}
	if err != nil {
		return Plan{}, fmt.Errorf("update plan: %w", err)
	}
	return saved, nil
}

func (s *Service) check(in SaveInput) error {
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return common.NewAppError("VALIDATION_FAILED", err.Error(), http.StatusBadRequest, err)
		}
	}
	if !pricing.Frequency(in.Frequency).Valid() {
		return common.NewAppError("INVALID_FREQUENCY", "frequency must be weekly, biweekly, monthly or quarterly", http.StatusBadRequest, nil)
	}
	return nil
}
