package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"reviewbot/internal/notifier"
	"reviewbot/pkg/logx"
)

// History is the slice of notifier state the digest reads.
type History interface {
	Recent(since time.Time) []notifier.HistoryItem
}

// Sender delivers the digest message.
type Sender interface {
	Notify(ctx context.Context, text string) bool
}

type Config struct {
	// Schedule is a standard 5-field cron spec (e.g. "0 9 * * *").
	// Empty disables the digest.
	Schedule string
	Timezone string

	// Window is how far back the summary looks. <= 0 means 24h.
	Window time.Duration
}

// Service sends a periodic summary of recent notifications to the same
// chat the poll loop reports to. Purely informational; it shares no state
// with the change tracker.
type Service struct {
	c   *cron.Cron
	log logx.Logger
}

func New(cfg Config, hist History, send Sender, log logx.Logger) (*Service, error) {
	spec := strings.TrimSpace(cfg.Schedule)
	if spec == "" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	loc := time.Local
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("digest.timezone: %w", err)
		}
		loc = l
	}

	window := cfg.Window
	if window <= 0 {
		window = 24 * time.Hour
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithLocation(loc))

	s := &Service{c: c, log: log}
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		text := Summarize(hist.Recent(time.Now().Add(-window)), window)
		if !send.Notify(ctx, text) {
			s.log.Warn("digest delivery failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("digest.schedule: %w", err)
	}
	return s, nil
}

func (s *Service) Start() {
	if s == nil {
		return
	}
	s.log.Info("digest schedule started")
	s.c.Start()
}

func (s *Service) Stop() {
	if s == nil {
		return
	}
	ctx := s.c.Stop()
	<-ctx.Done()
}

// Summarize formats the digest text for the given window of delivered
// notifications.
func Summarize(items []notifier.HistoryItem, window time.Duration) string {
	hours := int(window.Hours())
	if hours <= 0 {
		hours = 24
	}
	if len(items) == 0 {
		return fmt.Sprintf("Review digest: no notifications in the last %dh.", hours)
	}
	last := items[len(items)-1]
	return fmt.Sprintf("Review digest: %d notification(s) in the last %dh. Last: %s", len(items), hours, last.Text)
}
