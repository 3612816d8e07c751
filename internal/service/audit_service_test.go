package service

import (
	"context"
	"testing"
	"time"

	"support-chat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_PersistsDomainEvents(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uow := newFakeUow(store)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	consumer := NewAuditService(pubSub, "TEST_EVENTS", uow, nopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	bus := NewEventBus(pubSub, "TEST_EVENTS", nil, nopLogger{})
	require.NoError(t, bus.Publish(ctx, events.NewChangeEvent(events.TypeUserRegistered, "actor-1", nil, map[string]interface{}{
		"username": "alice",
	})))

	require.Eventually(t, func() bool {
		return len(store.audits) == 1
	}, 2*time.Second, 10*time.Millisecond)

	entry := store.audits[0]
	assert.Equal(t, "users", entry.TableName)
	assert.Equal(t, events.TypeUserRegistered, entry.Action)
	assert.Equal(t, "actor-1", entry.UserId)
	assert.Equal(t, "alice", entry.NewValue["username"])
	assert.Nil(t, entry.OldValue)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestAuditService_IgnoresUnknownEventTypes(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uow := newFakeUow(store)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	consumer := NewAuditService(pubSub, "TEST_EVENTS", uow, nopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	bus := NewEventBus(pubSub, "TEST_EVENTS", nil, nopLogger{})
	require.NoError(t, bus.Publish(ctx, events.BaseEvent{
		Type:       "SOMETHING_ELSE",
		Data:       map[string]interface{}{"actor_id": "x"},
		OccurredAt: time.Now(),
	}))
	require.NoError(t, bus.Publish(ctx, events.NewChangeEvent(events.TypeSessionEnded, "actor-2", nil, nil)))

	// Only the known event lands in the audit log.
	require.Eventually(t, func() bool {
		return len(store.audits) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "chat_sessions", store.audits[0].TableName)
}
