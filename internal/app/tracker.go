// internal/app/tracker.go
package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Tracker owns the poll state for the lifetime of the process.
// Cycles are run one at a time by the scheduler; the mutex only protects Snapshot readers.
type Tracker struct {
	poller *Poller
	logger *logrus.Entry

	mu    sync.RWMutex
	state PollState
}

// NewTracker starts watching from the given moment. The state is not persisted,
// so after a restart polling resumes from "now".
func NewTracker(p *Poller, start time.Time, logger *logrus.Entry) *Tracker {
	return &Tracker{
		poller: p,
		logger: logger,
		state:  PollState{Watermark: start},
	}
}

// RunCycle runs one poll iteration and stores the resulting state.
func (t *Tracker) RunCycle(ctx context.Context) {
	current := t.Snapshot()
	next := t.poller.Cycle(ctx, current)

	t.mu.Lock()
	t.state = next
	t.mu.Unlock()

	t.logger.WithFields(logrus.Fields{
		"watermark":     next.Watermark.Unix(),
		"error_pending": next.LastErrorMessage != "",
	}).Debug("Poll cycle finished")
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() PollState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}
