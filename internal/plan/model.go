package plan

import (
	"time"

	"github.com/google/uuid"

	"github.com/dawaa-dev/backend-dawaa/internal/pricing"
)

// Plan is a subscription plan row. Position controls the order plans are
// offered in; the first plan whose minimum order value is met wins, so the
// ordering is part of the pricing behavior, not cosmetics.
type Plan struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	MinOrderValue    pricing.Money     `json:"min_order_value"`
	MonthlyFee       pricing.Money     `json:"monthly_fee"`
	MedicineDiscount pricing.Money     `json:"medicine_discount"`
	OrderDiscount    pricing.Money     `json:"order_discount"`
	Frequency        pricing.Frequency `json:"frequency"`
	Position         int               `json:"position"`
	Active           bool              `json:"active"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// PricingPlan converts the row into the pricing engine's plan shape.
func (p Plan) PricingPlan() pricing.Plan {
	return pricing.Plan{
		ID:               p.ID.String(),
		Name:             p.Name,
		MinOrderValue:    p.MinOrderValue,
		MonthlyFee:       p.MonthlyFee,
		MedicineDiscount: p.MedicineDiscount,
		OrderDiscount:    p.OrderDiscount,
		Frequency:        p.Frequency,
	}
}
