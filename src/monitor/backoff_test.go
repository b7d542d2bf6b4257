package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconnectBudget_DelayDoubles(t *testing.T) {
	budget := NewReconnectBudget(5, 100*time.Millisecond)

	expected := []time.Duration{
		200 * time.Millisecond,  // attempt 1
		400 * time.Millisecond,  // attempt 2
		800 * time.Millisecond,  // attempt 3
		1600 * time.Millisecond, // attempt 4
		3200 * time.Millisecond, // attempt 5
	}

	for i, want := range expected {
		next, delay, ok := budget.Next()
		require.True(t, ok, "attempt %d should be allowed", i+1)
		assert.Equal(t, want, delay)
		assert.Equal(t, i+1, next.Attempts)
		budget = next
	}

	_, _, ok := budget.Next()
	assert.False(t, ok, "budget should be exhausted after max attempts")
	assert.True(t, budget.Exhausted())
}

func TestReconnectBudget_ExhaustedImmediatelyWhenMaxZero(t *testing.T) {
	budget := NewReconnectBudget(0, time.Second)

	next, delay, ok := budget.Next()
	assert.False(t, ok)
	assert.Zero(t, delay)
	assert.Equal(t, 0, next.Attempts)
}

func TestReconnectBudget_NextDoesNotMutateReceiver(t *testing.T) {
	budget := NewReconnectBudget(3, time.Second)

	next, _, ok := budget.Next()
	require.True(t, ok)
	assert.Equal(t, 0, budget.Attempts, "original value must stay untouched")
	assert.Equal(t, 1, next.Attempts)
}

func TestReconnectBudget_ResetRestoresFullBudget(t *testing.T) {
	budget := NewReconnectBudget(2, 50*time.Millisecond)

	var ok bool
	for {
		var next ReconnectBudget
		next, _, ok = budget.Next()
		if !ok {
			break
		}
		budget = next
	}
	require.True(t, budget.Exhausted())

	budget = budget.Reset()
	assert.Equal(t, 0, budget.Attempts)
	assert.False(t, budget.Exhausted())

	_, delay, ok := budget.Next()
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, delay, "first delay after reset doubles the base again")
}
