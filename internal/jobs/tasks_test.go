package jobs

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewDeliveryDueTask(t *testing.T) {
	id := uuid.New()
	task, err := NewDeliveryDueTask(id)
	require.NoError(t, err)
	require.Equal(t, TypeDeliveryDue, task.Type())

	var payload DeliveryDuePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, id, payload.SubscriptionID)
}
