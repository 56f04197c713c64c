package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnMonitor_WithinBudget(t *testing.T) {
	tm := NewTurnMonitor(3)

	for i := 1; i <= 3; i++ {
		err := tm.CheckAndIncrement()
		assert.NoError(t, err)
		assert.Equal(t, i, tm.Count())
	}

	assert.Equal(t, 0, tm.Remaining())
}

func TestTurnMonitor_ExceededIncrementStands(t *testing.T) {
	tm := NewTurnMonitor(1)

	require.NoError(t, tm.CheckAndIncrement())

	err := tm.CheckAndIncrement()
	require.Error(t, err)

	var budgetErr *TurnBudgetExceededError
	require.True(t, errors.As(err, &budgetErr))
	assert.Equal(t, 1, budgetErr.Max)

	// The failing attempt is still counted.
	assert.Equal(t, 2, tm.Count())
	assert.Equal(t, 0, tm.Remaining())

	// Subsequent attempts keep failing and keep counting.
	assert.Error(t, tm.CheckAndIncrement())
	assert.Equal(t, 3, tm.Count())
}

func TestTurnMonitor_ConcurrentExactlyRemainingSucceed(t *testing.T) {
	const (
		budget   = 5
		attempts = 20
	)

	tm := NewTurnMonitor(budget)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failed    int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tm.CheckAndIncrement()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
			} else {
				succeeded++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, budget, succeeded)
	assert.Equal(t, attempts-budget, failed)
	// Every attempt is counted, including the failing ones.
	assert.Equal(t, attempts, tm.Count())
}

func TestTurnMonitor_Accessors(t *testing.T) {
	tm := NewTurnMonitor(4)
	assert.Equal(t, 4, tm.Max())
	assert.Equal(t, 4, tm.Remaining())
	assert.Equal(t, 0, tm.Count())

	require.NoError(t, tm.CheckAndIncrement())
	assert.Equal(t, 3, tm.Remaining())
}
