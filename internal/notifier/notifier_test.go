package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviewbot/internal/transport"
	"reviewbot/pkg/logx"
)

type fakeAdapter struct {
	sent []string
	err  error
}

func (f *fakeAdapter) SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) (transport.MessageRef, error) {
	if f.err != nil {
		return transport.MessageRef{}, f.err
	}
	f.sent = append(f.sent, text)
	return transport.MessageRef{ChatID: to.ChatID, MessageID: len(f.sent)}, nil
}

func (f *fakeAdapter) Close() error { return nil }

func newTestService(a transport.Adapter) *Service {
	return New(Config{Target: transport.ChatTarget{ChatID: 42}, RatePerSec: 1000}, a, nil, logx.Nop())
}

func TestNotifyDelivers(t *testing.T) {
	t.Parallel()
	a := &fakeAdapter{}
	s := newTestService(a)

	if !s.Notify(context.Background(), "hello") {
		t.Fatal("Notify = false, want delivered")
	}
	if len(a.sent) != 1 || a.sent[0] != "hello" {
		t.Fatalf("adapter got %v", a.sent)
	}
}

func TestNotifySwallowsDeliveryFailure(t *testing.T) {
	t.Parallel()
	a := &fakeAdapter{err: errors.New("chat not found")}
	s := newTestService(a)

	// Must not panic, must not propagate; just report non-delivery.
	if s.Notify(context.Background(), "hello") {
		t.Fatal("Notify = true, want false on adapter failure")
	}

	items := s.Recent(time.Time{})
	if len(items) != 0 {
		t.Fatalf("Recent() = %v, failed sends must not count as delivered", items)
	}
}

func TestRecentFiltersByTimeAndDelivery(t *testing.T) {
	t.Parallel()
	a := &fakeAdapter{}
	s := newTestService(a)

	s.Notify(context.Background(), "one")
	a.err = errors.New("boom")
	s.Notify(context.Background(), "two")
	a.err = nil
	s.Notify(context.Background(), "three")

	items := s.Recent(time.Now().Add(-time.Minute))
	if len(items) != 2 {
		t.Fatalf("Recent() = %v, want the two delivered items", items)
	}
	if items[0].Text != "one" || items[1].Text != "three" {
		t.Fatalf("Recent() order wrong: %v", items)
	}

	if got := s.Recent(time.Now().Add(time.Hour)); len(got) != 0 {
		t.Fatalf("future window should be empty, got %v", got)
	}
}

func TestNotifyCancelledContext(t *testing.T) {
	t.Parallel()
	a := &fakeAdapter{}
	// Rate 1/s with an already-cancelled context: limiter wait fails and
	// the attempt is recorded as undelivered.
	s := New(Config{Target: transport.ChatTarget{ChatID: 42}, RatePerSec: 1}, a, nil, logx.Nop())
	s.Notify(context.Background(), "warmup") // drain the initial token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if s.Notify(ctx, "late") {
		t.Fatal("Notify = true, want false with cancelled context")
	}
}
