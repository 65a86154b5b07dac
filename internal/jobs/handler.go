package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/dawaa-dev/backend-dawaa/internal/subscription"
)

// Handler processes background tasks in the worker.
type Handler struct {
	Subs   *subscription.Service
	Logger zerolog.Logger
}

// Register attaches all task handlers to the mux.
func (h Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeDeliveryDue, h.HandleDeliveryDue)
}

// HandleDeliveryDue advances the subscription's delivery schedule when a
// reminder fires. Missing or inactive subscriptions complete the task
// without error so it is not retried.
func (h Handler) HandleDeliveryDue(ctx context.Context, t *asynq.Task) error {
	var payload DeliveryDuePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode delivery-due payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := h.Subs.AdvanceDelivery(ctx, payload.SubscriptionID); err != nil {
		h.Logger.Error().Err(err).
			Str("subscription_id", payload.SubscriptionID.String()).
			Msg("delivery-due handling failed")
		return err
	}
	h.Logger.Info().
		Str("subscription_id", payload.SubscriptionID.String()).
		Msg("delivery schedule advanced")
	return nil
}
