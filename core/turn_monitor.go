package core

import "sync"

// TurnMonitor enforces a maximum number of model invocations for one
// top-level run. A single instance is shared by reference across every agent
// reachable in the call tree so that a deep chain of agents calling agents
// cannot collectively exceed the budget, even though no single agent sees the
// whole tree's invocation count.
//
// An absent (nil) monitor means the run is unbounded; TurnMonitor itself
// always carries a positive maximum.
type TurnMonitor struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewTurnMonitor creates a monitor allowing at most max model invocations.
// max must be positive; unbounded runs are expressed by not using a monitor
// at all.
func NewTurnMonitor(max int) *TurnMonitor {
	return &TurnMonitor{max: max}
}

// CheckAndIncrement atomically spends one turn. If the post-increment count
// exceeds the maximum it returns a *TurnBudgetExceededError; the increment
// stands either way, so the failing attempt is still counted. Safe for
// concurrent use by multiple in-flight branches of the same run.
func (tm *TurnMonitor) CheckAndIncrement() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.count++
	if tm.count > tm.max {
		return &TurnBudgetExceededError{Max: tm.max}
	}

	return nil
}

// Count returns the number of invocation attempts so far, including any
// attempt that tripped the limit.
func (tm *TurnMonitor) Count() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	return tm.count
}

// Max returns the configured maximum number of invocations.
func (tm *TurnMonitor) Max() int { return tm.max }

// Remaining returns how many invocations are left before the limit trips.
// Never negative.
func (tm *TurnMonitor) Remaining() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.count >= tm.max {
		return 0
	}

	return tm.max - tm.count
}
