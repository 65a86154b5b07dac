package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeDeliveryDue is the task type fired when a subscription delivery
// comes due.
const TypeDeliveryDue = "subscription:delivery-due"

// DeliveryDuePayload identifies the subscription a delivery task belongs to.
type DeliveryDuePayload struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
}

// NewDeliveryDueTask builds the asynq task for a delivery reminder.
func NewDeliveryDueTask(subscriptionID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(DeliveryDuePayload{SubscriptionID: subscriptionID})
	if err != nil {
		return nil, fmt.Errorf("marshal delivery-due payload: %w", err)
	}
	return asynq.NewTask(TypeDeliveryDue, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}
