// Package refresh coalesces recommendation regeneration so rapid
// subscription edits produce one run per user instead of racing duplicates.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/observability/metrics"
)

// Runner executes one full regeneration for a user.
type Runner interface {
	Run(ctx context.Context, userID snowflake.ID) error
}

// Debouncer arms one timer per user. A trigger during the window supersedes
// the armed timer with a fresh one; duplicate runs never queue or overlap.
// This is a correctness requirement: concurrent runs race on recommendation
// upserts.
type Debouncer struct {
	log    *zap.Logger
	runner Runner
	cfg    Config

	mu      sync.Mutex
	pending map[snowflake.ID]*pendingRun
	closed  bool

	wg sync.WaitGroup
}

// pendingRun carries the armed timer and the generation it was armed for.
// A re-trigger bumps the generation, so a fire that raced past its timer
// but lost the lock to the re-trigger sees a stale generation and bails.
type pendingRun struct {
	timer *time.Timer
	gen   uint64
}

// NewDebouncer constructs a debouncer over the given runner.
func NewDebouncer(cfg Config, log *zap.Logger, runner Runner) *Debouncer {
	return &Debouncer{
		log:     log.Named("recommendation.refresh"),
		runner:  runner,
		cfg:     cfg.withDefaults(),
		pending: make(map[snowflake.ID]*pendingRun),
	}
}

// Trigger schedules a regeneration for the user after the debounce window.
// Calling again within the window restarts the wait.
func (d *Debouncer) Trigger(userID snowflake.ID) {
	if userID == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	var gen uint64
	if p, ok := d.pending[userID]; ok {
		// Reset on the old timer would race a fire already past its
		// deadline, so supersede it with a fresh timer and generation.
		p.timer.Stop()
		gen = p.gen + 1
	}

	p := &pendingRun{gen: gen}
	p.timer = time.AfterFunc(d.cfg.Window, func() {
		d.fire(userID, gen)
	})
	d.pending[userID] = p
}

func (d *Debouncer) fire(userID snowflake.ID, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[userID]
	if d.closed || !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, userID)
	d.wg.Add(1)
	d.mu.Unlock()

	defer d.wg.Done()

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RunTimeout)
	defer cancel()

	err := d.runner.Run(ctx, userID)
	metrics.Engine().ObserveRefreshRun(time.Since(start), err)
	if err != nil {
		d.log.Warn("regeneration run failed",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// Stop cancels pending timers and waits for in-flight runs to finish.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.closed = true
	for userID, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, userID)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
