package subscription

import (
	"time"

	"github.com/google/uuid"

	"github.com/dawaa-dev/backend-dawaa/internal/address"
	"github.com/dawaa-dev/backend-dawaa/internal/pricing"
)

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// Subscription is a recurring delivery order.
type Subscription struct {
	ID                   uuid.UUID         `json:"id"`
	CustomerID           uuid.UUID         `json:"customer_id"`
	PlanID               *uuid.UUID        `json:"plan_id,omitempty"`
	Frequency            pricing.Frequency `json:"frequency"`
	Status               Status            `json:"status"`
	Subtotal             pricing.Money     `json:"subtotal"`
	OrderDiscount        pricing.Money     `json:"order_discount"`
	MonthlyFee           pricing.Money     `json:"monthly_fee"`
	Total                pricing.Money     `json:"total"`
	DeliveryAddress      address.Address   `json:"delivery_address"`
	DeliveryInstructions string            `json:"delivery_instructions,omitempty"`
	NextDeliveryAt       time.Time         `json:"next_delivery_at"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
	Items                []Item            `json:"items"`
}

// Item is one catalog line frozen into a subscription at creation time.
// Name and unit price are denormalized so later catalog edits do not
// rewrite history.
type Item struct {
	ID        uuid.UUID        `json:"id"`
	ItemID    uuid.UUID        `json:"item_id"`
	Name      string           `json:"name"`
	UnitType  pricing.UnitType `json:"unit_type"`
	UnitPrice pricing.Money    `json:"unit_price"`
	Quantity  int              `json:"quantity"`
}

// DeliveryInterval converts a frequency into the gap between deliveries.
func DeliveryInterval(f pricing.Frequency) time.Duration {
	switch f {
	case pricing.FrequencyWeekly:
		return 7 * 24 * time.Hour
	case pricing.FrequencyBiweekly:
		return 14 * 24 * time.Hour
	case pricing.FrequencyQuarterly:
		return 90 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}
