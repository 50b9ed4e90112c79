package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestWindowLimiter_RefusesEleventhWithinWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := NewWindowLimiter(10, time.Minute)
	l.now = clock.now

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(context.Background())
		require.NoError(t, err)
		require.True(t, ok, "call %d", i+1)
		clock.t = clock.t.Add(time.Second)
	}

	ok, _ := l.Allow(context.Background())
	assert.False(t, ok)

	clock.t = time.Unix(1_700_000_000, 0).Add(time.Minute - time.Millisecond)
	ok, _ = l.Allow(context.Background())
	assert.False(t, ok)

	// The earliest stamp ages out once it is a full window old.
	clock.t = time.Unix(1_700_000_000, 0).Add(time.Minute)
	ok, _ = l.Allow(context.Background())
	assert.True(t, ok)

	ok, _ = l.Allow(context.Background())
	assert.False(t, ok)
}

func TestWindowLimiter_RefusedCallsAreNotRecorded(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := NewWindowLimiter(1, time.Minute)
	l.now = clock.now

	ok, _ := l.Allow(context.Background())
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		clock.t = clock.t.Add(10 * time.Second)
		ok, _ = l.Allow(context.Background())
		require.False(t, ok)
	}

	clock.t = time.Unix(1_700_000_000, 0).Add(61 * time.Second)
	ok, _ = l.Allow(context.Background())
	assert.True(t, ok)
}
