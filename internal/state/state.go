// Package state holds process-wide mutable settings shared by the menu and the job runner.
package state

import (
	"errors"
	"fmt"
	"sync"

	"mediadl/internal/domain/consts"
)

// ErrThreadsOutOfRange is returned when a thread count falls outside the allowed bounds.
var ErrThreadsOutOfRange = errors.New("thread count out of range")

// --- Thread Setting --------------------------------------------------------------------------

// ThreadSetting is the number of concurrent downloads used for new job batches.
type ThreadSetting struct {
	mu sync.RWMutex
	n  int
}

// NewThreadSetting returns a setting initialised to n, or to the default if n is invalid.
func NewThreadSetting(n int) *ThreadSetting {
	if ValidateThreads(n) != nil {
		n = consts.DefaultThreads
	}
	return &ThreadSetting{n: n}
}

// Get returns the current thread count.
func (t *ThreadSetting) Get() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.n
}

// Set changes the thread count. Values outside the bounds are rejected and the prior value kept.
func (t *ThreadSetting) Set(n int) error {
	if err := ValidateThreads(n); err != nil {
		return err
	}
	t.mu.Lock()
	t.n = n
	t.mu.Unlock()
	return nil
}

// ValidateThreads checks n against the allowed range.
func ValidateThreads(n int) error {
	if n < consts.MinThreads || n > consts.MaxThreads {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrThreadsOutOfRange, n, consts.MinThreads, consts.MaxThreads)
	}
	return nil
}
