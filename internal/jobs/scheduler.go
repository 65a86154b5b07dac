package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Scheduler enqueues delivery reminder tasks through asynq. It satisfies
// the subscription service's TaskScheduler interface.
type Scheduler struct {
	Client *asynq.Client
	Logger zerolog.Logger
}

// ScheduleDeliveryDue enqueues a delivery-due task to fire at the given time.
func (s Scheduler) ScheduleDeliveryDue(ctx context.Context, subscriptionID uuid.UUID, at time.Time) error {
	task, err := NewDeliveryDueTask(subscriptionID)
	if err != nil {
		return err
	}
	info, err := s.Client.EnqueueContext(ctx, task, asynq.ProcessAt(at))
	if err != nil {
		return fmt.Errorf("enqueue delivery-due: %w", err)
	}
	s.Logger.Debug().
		Str("task_id", info.ID).
		Str("subscription_id", subscriptionID.String()).
		Time("process_at", at).
		Msg("delivery reminder scheduled")
	return nil
}
