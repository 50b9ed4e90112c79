package http

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vn.io.arda/contos/internal/domain"
)

func TestHub_EmitReachesRegisteredUserOnly(t *testing.T) {
	hub := NewHub(4)
	alice, bob := uuid.New(), uuid.New()
	c := hub.Register(alice)
	defer hub.Unregister(c)

	n := &domain.Notification{ID: uuid.New(), UserID: alice, Title: "Nova curtida"}
	hub.Emit(alice, n)
	hub.Emit(bob, &domain.Notification{ID: uuid.New(), UserID: bob})

	require.Len(t, c.Send(), 1)
	frame := string(<-c.Send())
	assert.True(t, strings.HasPrefix(frame, "data: "))
	assert.True(t, strings.HasSuffix(frame, "\n\n"))

	var got domain.Notification
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(frame, "data: "), "\n\n")), &got))
	assert.Equal(t, n.ID, got.ID)
}

func TestHub_SecondSubscriptionReplacesFirst(t *testing.T) {
	hub := NewHub(4)
	user := uuid.New()

	first := hub.Register(user)
	second := hub.Register(user)

	select {
	case <-first.Done():
	default:
		t.Fatal("first stream should be closed")
	}
	assert.Equal(t, 1, hub.ConnectedCount())

	hub.Emit(user, &domain.Notification{ID: uuid.New()})
	assert.Len(t, first.Send(), 0)
	assert.Len(t, second.Send(), 1)

	// The replaced stream unregistering must not evict the live one.
	hub.Unregister(first)
	assert.Equal(t, 1, hub.ConnectedCount())

	hub.Unregister(second)
	assert.Equal(t, 0, hub.ConnectedCount())
}

func TestHub_EmitNeverBlocks(t *testing.T) {
	hub := NewHub(1)
	user := uuid.New()
	c := hub.Register(user)

	for i := 0; i < 5; i++ {
		hub.Emit(user, &domain.Notification{ID: uuid.New()})
	}
	assert.Len(t, c.Send(), 1)

	hub.Emit(uuid.New(), &domain.Notification{ID: uuid.New()})
}
