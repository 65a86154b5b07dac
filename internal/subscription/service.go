package subscription

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dawaa-dev/backend-dawaa/internal/address"
	"github.com/dawaa-dev/backend-dawaa/internal/common"
	"github.com/dawaa-dev/backend-dawaa/internal/obs"
	"github.com/dawaa-dev/backend-dawaa/internal/pricing"
)

// ItemResolver turns catalog ids into pricing items.
type ItemResolver interface {
	ResolveItems(ctx context.Context, ids []uuid.UUID) (map[string]pricing.Item, error)
}

// PlanSource provides the ordered list of plans the engine selects from.
type PlanSource interface {
	PricingPlans(ctx context.Context) ([]pricing.Plan, error)
}

// AddressCache remembers recently used delivery addresses.
type AddressCache interface {
	Remember(ctx context.Context, customerID string, addr address.Address) error
}

// TaskScheduler enqueues delivery reminder tasks. Implemented by the jobs
// package; kept as an interface here to avoid an import cycle.
type TaskScheduler interface {
	ScheduleDeliveryDue(ctx context.Context, subscriptionID uuid.UUID, at time.Time) error
}

// LineInput is one requested order line.
type LineInput struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	UnitType string `json:"unit_type,omitempty"`
}

// QuoteRequest prices a set of lines without persisting anything.
type QuoteRequest struct {
	Lines     []LineInput `json:"lines" validate:"required,min=1,dive"`
	PlanID    string      `json:"plan_id,omitempty"`
	Frequency string      `json:"frequency,omitempty"`
}

// CreateRequest creates a subscription.
type CreateRequest struct {
	CustomerID           string          `json:"customer_id" validate:"required,uuid"`
	Lines                []LineInput     `json:"lines" validate:"required,min=1,dive"`
	PlanID               string          `json:"plan_id,omitempty"`
	Frequency            string          `json:"frequency" validate:"required"`
	DeliveryAddress      address.Address `json:"delivery_address"`
	DeliveryInstructions string          `json:"delivery_instructions,omitempty"`
}

// QuoteResponse is the priced view of an order under construction.
// Monetary amounts are rounded to two decimals for presentation.
type QuoteResponse struct {
	Subtotal         pricing.Money  `json:"subtotal"`
	OrderDiscount    pricing.Money  `json:"order_discount"`
	MonthlyFee       pricing.Money  `json:"monthly_fee"`
	Total            pricing.Money  `json:"total"`
	Savings          pricing.Money  `json:"savings"`
	UnitCount        int            `json:"unit_count"`
	MedicineDiscount pricing.Money  `json:"medicine_discount"`
	SelectedPlan     *pricing.Plan  `json:"selected_plan,omitempty"`
	Lines            []pricing.Line `json:"lines"`
}

// Service implements order building and subscription lifecycle.
type Service struct {
	Q         Querier
	Items     ItemResolver
	Plans     PlanSource
	Addresses AddressCache
	Scheduler TaskScheduler
	Metrics   *obs.SubscriptionMetrics
	Validate  *validator.Validate
	Logger    zerolog.Logger
}

// BuildLines resolves requested lines against the catalog and assembles
// them through the engine's line operations, so duplicates collapse and
// unit types only stick on medicines.
func (s *Service) BuildLines(ctx context.Context, inputs []LineInput) ([]pricing.Line, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		id, err := uuid.Parse(in.ItemID)
		if err != nil {
			return nil, common.NewAppError("INVALID_ITEM_ID", fmt.Sprintf("item id %q is not a UUID", in.ItemID), http.StatusBadRequest, err)
		}
		ids = append(ids, id)
	}
	resolved, err := s.Items.ResolveItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	var lines []pricing.Line
	for i, in := range inputs {
		item := resolved[ids[i].String()]
		lines = pricing.AddItem(lines, item)
		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = pricing.SetQuantity(lines, item.ID, qty)
		if in.UnitType != "" {
			lines = pricing.SetUnitType(lines, item.ID, pricing.UnitType(in.UnitType))
		}
	}
	return lines, nil
}

// Quote prices the requested lines and reports the selected plan.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return QuoteResponse{}, err
	}
	lines, err := s.BuildLines(ctx, req.Lines)
	if err != nil {
		return QuoteResponse{}, err
	}
	selected, err := s.resolvePlan(ctx, req.PlanID, lines)
	if err != nil {
		return QuoteResponse{}, err
	}
	if s.Metrics != nil {
		s.Metrics.Quotes.Inc()
	}
	return buildQuoteResponse(lines, selected), nil
}

// Create validates the request, prices the order and persists the
// subscription with its lines.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Subscription, error) {
	if err := s.checkStruct(req); err != nil {
		return Subscription{}, err
	}
	frequency := pricing.Frequency(req.Frequency)
	if !frequency.Valid() {
		return Subscription{}, common.NewAppError("INVALID_FREQUENCY", "frequency must be weekly, biweekly, monthly or quarterly", http.StatusBadRequest, nil)
	}
	if !req.DeliveryAddress.Valid() {
		return Subscription{}, common.NewAppError("INVALID_ADDRESS", "delivery address is incomplete", http.StatusBadRequest, nil)
	}

	lines, err := s.BuildLines(ctx, req.Lines)
	if err != nil {
		return Subscription{}, err
	}
	if len(lines) == 0 {
		return Subscription{}, common.NewAppError("EMPTY_ORDER", "at least one line is required", http.StatusBadRequest, nil)
	}
	selected, err := s.resolvePlan(ctx, req.PlanID, lines)
	if err != nil {
		return Subscription{}, err
	}
	quote := pricing.Compute(lines, selected)

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return Subscription{}, common.NewAppError("INVALID_CUSTOMER_ID", "customer id must be a UUID", http.StatusBadRequest, err)
	}

	sub := Subscription{
		ID:                   uuid.New(),
		CustomerID:           customerID,
		Frequency:            frequency,
		Status:               StatusActive,
		Subtotal:             quote.Subtotal,
		OrderDiscount:        quote.OrderDiscount,
		MonthlyFee:           quote.MonthlyFee,
		Total:                quote.Total,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryInstructions: req.DeliveryInstructions,
		NextDeliveryAt:       time.Now().Add(DeliveryInterval(frequency)),
	}
	if selected != nil {
		planID, err := uuid.Parse(selected.ID)
		if err == nil {
			sub.PlanID = &planID
		}
	}
	for _, ln := range lines {
		itemID, err := uuid.Parse(ln.Item.ID)
		if err != nil {
			return Subscription{}, common.NewAppError("INVALID_ITEM_ID", "catalog item id must be a UUID", http.StatusBadRequest, err)
		}
		sub.Items = append(sub.Items, Item{
			ID:        uuid.New(),
			ItemID:    itemID,
			Name:      ln.Item.Name,
			UnitType:  ln.UnitType,
			UnitPrice: pricing.UnitPrice(ln.Item, ln.UnitType),
			Quantity:  ln.Quantity,
		})
	}

	saved, err := s.Q.CreateWithItems(ctx, sub)
	if err != nil {
		return Subscription{}, fmt.Errorf("create subscription: %w", err)
	}

	if s.Addresses != nil {
		if err := s.Addresses.Remember(ctx, saved.CustomerID.String(), saved.DeliveryAddress); err != nil {
			s.Logger.Warn().Err(err).Str("subscription_id", saved.ID.String()).Msg("address cache write failed")
		}
	}
	if s.Scheduler != nil {
		if err := s.Scheduler.ScheduleDeliveryDue(ctx, saved.ID, saved.NextDeliveryAt); err != nil {
			s.Logger.Error().Err(err).Str("subscription_id", saved.ID.String()).Msg("delivery reminder enqueue failed")
		}
	}
	if s.Metrics != nil {
		s.Metrics.Created.Inc()
	}
	return saved, nil
}

// List returns all subscriptions of a customer, newest first.
func (s *Service) List(ctx context.Context, customerID uuid.UUID) ([]Subscription, error) {
	subs, err := s.Q.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []Subscription{}
	}
	return subs, nil
}

// Get fetches one subscription.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Subscription, error) {
	sub, err := s.Q.Get(ctx, id)
	if err == ErrNotFound {
		return Subscription{}, common.NewAppError("SUBSCRIPTION_NOT_FOUND", "subscription not found", http.StatusNotFound, err)
	}
	return sub, err
}

// Cancel moves an active or paused subscription to cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (Subscription, error) {
	sub, err := s.transition(ctx, id, StatusCancelled, StatusActive, StatusPaused)
	if err != nil {
		return Subscription{}, err
	}
	if s.Metrics != nil {
		s.Metrics.Cancelled.Inc()
	}
	return sub, nil
}

// Pause suspends an active subscription.
func (s *Service) Pause(ctx context.Context, id uuid.UUID) (Subscription, error) {
	return s.transition(ctx, id, StatusPaused, StatusActive)
}

// Resume reactivates a paused subscription and pushes the next delivery
// a full interval out from now.
func (s *Service) Resume(ctx context.Context, id uuid.UUID) (Subscription, error) {
	sub, err := s.transition(ctx, id, StatusActive, StatusPaused)
	if err != nil {
		return Subscription{}, err
	}
	next := time.Now().Add(DeliveryInterval(sub.Frequency))
	if err := s.Q.UpdateNextDelivery(ctx, id, next); err != nil {
		return Subscription{}, fmt.Errorf("resume subscription: %w", err)
	}
	sub.NextDeliveryAt = next
	if s.Scheduler != nil {
		if err := s.Scheduler.ScheduleDeliveryDue(ctx, sub.ID, next); err != nil {
			s.Logger.Error().Err(err).Str("subscription_id", sub.ID.String()).Msg("delivery reminder enqueue failed")
		}
	}
	return sub, nil
}

// AdvanceDelivery moves an active subscription's next delivery one
// interval forward and schedules the following reminder. Called by the
// worker when a delivery-due task fires.
func (s *Service) AdvanceDelivery(ctx context.Context, id uuid.UUID) error {
	sub, err := s.Q.Get(ctx, id)
	if err == ErrNotFound {
		// subscription deleted or cancelled out from under the task
		return nil
	}
	if err != nil {
		return err
	}
	if sub.Status != StatusActive {
		return nil
	}
	next := sub.NextDeliveryAt.Add(DeliveryInterval(sub.Frequency))
	if err := s.Q.UpdateNextDelivery(ctx, id, next); err != nil {
		return fmt.Errorf("advance delivery: %w", err)
	}
	if s.Scheduler != nil {
		if err := s.Scheduler.ScheduleDeliveryDue(ctx, id, next); err != nil {
			return fmt.Errorf("reschedule delivery reminder: %w", err)
		}
	}
	return nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status, from ...Status) (Subscription, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return Subscription{}, err
	}
	allowed := false
	for _, f := range from {
		if sub.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return Subscription{}, common.NewAppError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("cannot move subscription from %s to %s", sub.Status, to), http.StatusConflict, nil)
	}
	updated, err := s.Q.UpdateStatus(ctx, id, to)
	if err == ErrNotFound {
		return Subscription{}, common.NewAppError("SUBSCRIPTION_NOT_FOUND", "subscription not found", http.StatusNotFound, err)
	}
	if err != nil {
		return Subscription{}, fmt.Errorf("update status: %w", err)
	}
	updated.Items = sub.Items
	return updated, nil
}

func (s *Service) resolvePlan(ctx context.Context, planID string, lines []pricing.Line) (*pricing.Plan, error) {
	plans, err := s.Plans.PricingPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("load plans: %w", err)
	}
	var current *pricing.Plan
	if planID != "" {
		for i := range plans {
			if plans[i].ID == planID {
				current = &plans[i]
				break
			}
		}
		if current == nil {
			return nil, common.NewAppError("PLAN_NOT_FOUND", "requested plan does not exist or is inactive", http.StatusUnprocessableEntity, nil)
		}
	}
	return pricing.SelectPlan(plans, pricing.Subtotal(lines), current), nil
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

func buildQuoteResponse(lines []pricing.Line, plan *pricing.Plan) QuoteResponse {
	q := pricing.Compute(lines, plan)
	return QuoteResponse{
		Subtotal:         pricing.Round2(q.Subtotal),
		OrderDiscount:    pricing.Round2(q.OrderDiscount),
		MonthlyFee:       pricing.Round2(q.MonthlyFee),
		Total:            pricing.Round2(q.Total),
		Savings:          pricing.Round2(q.Savings),
		UnitCount:        q.UnitCount,
		MedicineDiscount: pricing.Round2(q.MedicineDiscount),
		SelectedPlan:     plan,
		Lines:            lines,
	}
}
