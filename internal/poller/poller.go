package poller

import (
	"context"
	"time"

	"reviewbot/internal/review"
	"reviewbot/internal/statusapi"
	"reviewbot/pkg/logx"
)

// StatusSource fetches the raw status payload for changes after a checkpoint.
type StatusSource interface {
	Fetch(ctx context.Context, from int64) (any, error)
}

// Notifier delivers one message and reports whether it went out.
type Notifier interface {
	Notify(ctx context.Context, text string) bool
}

type Config struct {
	// Interval is the fixed delay applied after every cycle, success or
	// failure. It is the only retry pacing there is. <= 0 means 600s.
	Interval time.Duration

	// InitialCheckpoint seeds the incremental query cursor.
	// 0 means "now" at construction time.
	InitialCheckpoint int64
}

// Loop runs the poll-evaluate-notify cycle.
//
// One cycle: fetch, validate, interpret the newest homework, suppress
// duplicates, notify, advance the checkpoint. Every recoverable error is
// caught at the cycle boundary, reported through the notifier, and the
// checkpoint stays put so the same window is retried next cycle.
//
// Single-goroutine: the tracker and checkpoint need no locking.
type Loop struct {
	src      StatusSource
	notifier Notifier
	tracker  *review.Tracker
	log      logx.Logger

	interval   time.Duration
	checkpoint int64
}

func New(cfg Config, src StatusSource, n Notifier, log logx.Logger) *Loop {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 600 * time.Second
	}
	cp := cfg.InitialCheckpoint
	if cp == 0 {
		cp = time.Now().Unix()
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Loop{
		src:        src,
		notifier:   n,
		tracker:    review.NewTracker(),
		log:        log,
		interval:   interval,
		checkpoint: cp,
	}
}

// Checkpoint returns the current query cursor.
func (l *Loop) Checkpoint() int64 { return l.checkpoint }

// Run cycles until ctx is cancelled. The inter-cycle sleep is interruptible;
// nothing else is (a hung fetch rides on the transport's own timeout).
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("poll loop started", logx.Duration("interval", l.interval), logx.Int64("from_date", l.checkpoint))
	for {
		l.RunOnce(ctx)

		select {
		case <-ctx.Done():
			l.log.Info("poll loop stopped")
			return ctx.Err()
		case <-time.After(l.interval):
		}
	}
}

// RunOnce executes exactly one cycle. Exposed so tests can drive the loop
// without waiting on the real delay.
func (l *Loop) RunOnce(ctx context.Context) {
	payload, err := l.src.Fetch(ctx, l.checkpoint)
	if err != nil {
		l.reportFailure(ctx, err)
		return
	}

	page, err := statusapi.Validate(payload)
	if err != nil {
		l.reportFailure(ctx, err)
		return
	}

	if len(page.Homeworks) == 0 {
		// Quiet cycle. The checkpoint is retained so a change landing in
		// this window still surfaces next time.
		l.log.Debug("no status changes")
		return
	}

	// The list is newest-first; only the newest change is notification-worthy.
	text, err := review.Interpret(page.Homeworks[0])
	if err != nil {
		l.reportFailure(ctx, err)
		return
	}

	if l.tracker.IsNovel(text) {
		if !l.notifier.Notify(ctx, text) {
			// Not recorded and checkpoint not advanced: the same change is
			// re-interpreted and re-sent next cycle.
			return
		}
		l.tracker.Record(text)
	} else {
		l.log.Debug("duplicate notification suppressed")
	}

	// The cursor never regresses, even if the server hands back an older
	// current_date.
	if page.CurrentDate != nil && *page.CurrentDate > l.checkpoint {
		l.checkpoint = *page.CurrentDate
	}
}

// reportFailure routes a cycle error to the operator through the same
// messaging channel. Repeated identical failures are suppressed the same
// way status messages are, so a long outage is one message, not one per
// cycle.
func (l *Loop) reportFailure(ctx context.Context, err error) {
	l.log.Error("poll cycle failed", logx.Err(err))

	text := "Program failure: " + err.Error()
	if !l.tracker.IsNovel(text) {
		l.log.Debug("duplicate failure notification suppressed")
		return
	}
	if l.notifier.Notify(ctx, text) {
		l.tracker.Record(text)
	}
}
