package notifier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"reviewbot/internal/storage"
	"reviewbot/internal/transport"
	"reviewbot/pkg/logx"
)

type Config struct {
	Target transport.ChatTarget
	// RatePerSec caps outbound sends (Telegram is touchy about bursts).
	// <= 0 means 3/s.
	RatePerSec int
}

// HistoryItem is one notification attempt kept in memory for the digest.
type HistoryItem struct {
	At        time.Time
	Text      string
	Delivered bool
	Error     string
}

const historyCap = 300

// Service delivers messages through the messaging adapter.
//
// Delivery failures never propagate: the poll loop's own failure-reporting
// path runs through this same service, so a notifier that could fail the
// cycle would wedge the loop. Callers get a delivered/not-delivered bool
// and nothing else.
type Service struct {
	adapter transport.Adapter
	target  transport.ChatTarget
	limiter *rate.Limiter
	store   storage.Store // may be nil
	log     logx.Logger

	mu      sync.Mutex
	history []HistoryItem
}

func New(cfg Config, adapter transport.Adapter, store storage.Store, log logx.Logger) *Service {
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 3
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		adapter: adapter,
		target:  cfg.Target,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		store:   store,
		log:     log,
	}
}

// Notify attempts one delivery and reports whether it succeeded.
// It blocks on the rate limiter, so bursts are paced rather than dropped.
func (s *Service) Notify(ctx context.Context, text string) bool {
	if err := s.limiter.Wait(ctx); err != nil {
		s.record(ctx, text, false, err)
		return false
	}

	s.log.Debug("sending notification", logx.Int64("chat_id", s.target.ChatID))
	_, err := s.adapter.SendText(ctx, s.target, text, &transport.SendOptions{DisablePreview: true})
	if err != nil {
		s.log.Warn("notification send failed", logx.Int64("chat_id", s.target.ChatID), logx.Err(err))
		s.record(ctx, text, false, err)
		return false
	}

	s.log.Debug("notification sent", logx.Int64("chat_id", s.target.ChatID))
	s.record(ctx, text, true, nil)
	return true
}

func (s *Service) record(ctx context.Context, text string, delivered bool, sendErr error) {
	item := HistoryItem{At: time.Now(), Text: text, Delivered: delivered}
	if sendErr != nil {
		item.Error = sendErr.Error()
	}

	s.mu.Lock()
	s.history = append(s.history, item)
	if len(s.history) > historyCap {
		s.history = s.history[len(s.history)-historyCap:]
	}
	s.mu.Unlock()

	if s.store != nil {
		e := storage.Entry{At: item.At, Text: item.Text, Delivered: item.Delivered, Error: item.Error}
		if err := s.store.AppendNotification(ctx, e); err != nil {
			s.log.Warn("notification audit append failed", logx.Err(err))
		}
	}
}

// Recent returns delivered notifications at or after since, oldest first.
func (s *Service) Recent(since time.Time) []HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []HistoryItem
	for _, it := range s.history {
		if it.Delivered && !it.At.Before(since) {
			out = append(out, it)
		}
	}
	return out
}
