package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBurstAndRefill(t *testing.T) {
	l := New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("ip", 2, 1))
	assert.True(t, l.Allow("ip", 2, 1))
	assert.False(t, l.Allow("ip", 2, 1))
	assert.True(t, l.Allow("other", 2, 1), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("ip", 2, 1))
	assert.False(t, l.Allow("ip", 2, 1))
}

func TestLimiterSweep(t *testing.T) {
	l := New()
	now := time.Now()
	l.now = func() time.Time { return now }

	l.Allow("a", 1, 1)
	now = now.Add(time.Hour)
	l.Allow("b", 1, 1)

	assert.Equal(t, 1, l.Sweep(time.Minute))
	assert.True(t, l.Allow("a", 1, 0), "swept key starts with a full bucket")
}
