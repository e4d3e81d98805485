package poller

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reviewbot/internal/statusapi"
	"reviewbot/pkg/logx"
)

type fakeSource struct {
	payload  any
	err      error
	lastFrom int64
	calls    int
}

func (f *fakeSource) Fetch(ctx context.Context, from int64) (any, error) {
	f.calls++
	f.lastFrom = from
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type fakeNotifier struct {
	sent []string
	fail bool
}

func (f *fakeNotifier) Notify(ctx context.Context, text string) bool {
	f.sent = append(f.sent, text)
	return !f.fail
}

func reviewingPayload(name string, currentDate float64) map[string]any {
	return map[string]any{
		"homeworks": []any{
			map[string]any{"homework_name": name, "status": "reviewing"},
		},
		"current_date": currentDate,
	}
}

func newTestLoop(src StatusSource, n Notifier) *Loop {
	return New(Config{Interval: 600, InitialCheckpoint: 500}, src, n, logx.Nop())
}

func TestCycleNotifiesOnceAndSuppressesRepeat(t *testing.T) {
	t.Parallel()
	src := &fakeSource{payload: reviewingPayload("hw1", 1000)}
	n := &fakeNotifier{}
	l := newTestLoop(src, n)

	l.RunOnce(context.Background())
	if len(n.sent) != 1 {
		t.Fatalf("sent = %v, want exactly one message", n.sent)
	}
	want := `Changed review status for "hw1". Placed under review by reviewer.`
	if n.sent[0] != want {
		t.Fatalf("sent %q, want %q", n.sent[0], want)
	}

	// Identical second cycle: duplicate suppressed.
	l.RunOnce(context.Background())
	if len(n.sent) != 1 {
		t.Fatalf("sent = %v, want duplicate suppressed", n.sent)
	}
}

func TestCycleAdvancesCheckpoint(t *testing.T) {
	t.Parallel()
	src := &fakeSource{payload: reviewingPayload("hw1", 1000)}
	n := &fakeNotifier{}
	l := newTestLoop(src, n)

	l.RunOnce(context.Background())
	if src.lastFrom != 500 {
		t.Fatalf("first request from_date = %d, want 500", src.lastFrom)
	}
	if got := l.Checkpoint(); got != 1000 {
		t.Fatalf("Checkpoint = %d, want 1000", got)
	}

	l.RunOnce(context.Background())
	if src.lastFrom != 1000 {
		t.Fatalf("second request from_date = %d, want 1000", src.lastFrom)
	}
}

func TestCheckpointNeverRegresses(t *testing.T) {
	t.Parallel()
	src := &fakeSource{payload: reviewingPayload("hw1", 100)} // older than initial 500
	n := &fakeNotifier{}
	l := newTestLoop(src, n)

	l.RunOnce(context.Background())
	if got := l.Checkpoint(); got != 500 {
		t.Fatalf("Checkpoint = %d, want 500 (no regression)", got)
	}
}

func TestEmptyListIsAQuietCycle(t *testing.T) {
	t.Parallel()
	src := &fakeSource{payload: map[string]any{"homeworks": []any{}}}
	n := &fakeNotifier{}
	l := newTestLoop(src, n)

	l.RunOnce(context.Background())
	if len(n.sent) != 0 {
		t.Fatalf("sent = %v, want nothing", n.sent)
	}
	if got := l.Checkpoint(); got != 500 {
		t.Fatalf("Checkpoint = %d, want 500 retained", got)
	}
}

func TestSchemaFailureIsReportedAndCheckpointRetained(t *testing.T) {
	t.Parallel()
	src := &fakeSource{payload: map[string]any{}} // missing homeworks key
	n := &fakeNotifier{}
	l := newTestLoop(src, n)

	l.RunOnce(context.Background())
	if len(n.sent) != 1 {
		t.Fatalf("sent = %v, want one failure message", n.sent)
	}
	if !strings.Contains(n.sent[0], "Program failure:") || !strings.Contains(n.sent[0], "homeworks") {
		t.Fatalf("failure message %q should reference the missing key", n.sent[0])
	}
	if got := l.Checkpoint(); got != 500 {
		t.Fatalf("Checkpoint = %d, want 500 (failed cycle must not advance)", got)
	}
}

func TestTransportFailureIsContained(t *testing.T) {
	t.Parallel()
	src := &fakeSource{err: &statusapi.TransportError{Err: errors.New("connection reset")}}
	n := &fakeNotifier{}
	l := newTestLoop(src, n)

	l.RunOnce(context.Background())
	if len(n.sent) != 1 {
		t.Fatalf("sent = %v, want one failure message", n.sent)
	}

	// Same failure next cycle: reported once, not per cycle.
	l.RunOnce(context.Background())
	if len(n.sent) != 1 {
		t.Fatalf("sent = %v, want repeated failure suppressed", n.sent)
	}
	if src.calls != 2 {
		t.Fatalf("calls = %d, want the loop to keep fetching", src.calls)
	}
}

func TestFailedDeliveryIsRetriedNextCycle(t *testing.T) {
	t.Parallel()
	src := &fakeSource{payload: reviewingPayload("hw1", 1000)}
	n := &fakeNotifier{fail: true}
	l := newTestLoop(src, n)

	l.RunOnce(context.Background())
	if len(n.sent) != 1 {
		t.Fatalf("sent = %v, want one attempt", n.sent)
	}
	if got := l.Checkpoint(); got != 500 {
		t.Fatalf("Checkpoint = %d, want 500 (undelivered change must stay in window)", got)
	}

	// Delivery recovers: the same change goes out and the cursor advances.
	n.fail = false
	l.RunOnce(context.Background())
	if len(n.sent) != 2 {
		t.Fatalf("sent = %v, want a second attempt", n.sent)
	}
	if got := l.Checkpoint(); got != 1000 {
		t.Fatalf("Checkpoint = %d, want 1000", got)
	}
}

func TestStatusChangeAfterFailureIsNotified(t *testing.T) {
	t.Parallel()
	src := &fakeSource{err: &statusapi.TransportError{Err: errors.New("timeout")}}
	n := &fakeNotifier{}
	l := newTestLoop(src, n)

	l.RunOnce(context.Background())
	src.err = nil
	src.payload = reviewingPayload("hw1", 1000)
	l.RunOnce(context.Background())

	if len(n.sent) != 2 {
		t.Fatalf("sent = %v, want failure then status change", n.sent)
	}
	if !strings.Contains(n.sent[0], "Program failure:") {
		t.Fatalf("first message %q should be the failure report", n.sent[0])
	}
	if !strings.Contains(n.sent[1], "hw1") {
		t.Fatalf("second message %q should be the status change", n.sent[1])
	}
}

func TestDefaultCheckpointIsNow(t *testing.T) {
	t.Parallel()
	l := New(Config{}, &fakeSource{payload: map[string]any{"homeworks": []any{}}}, &fakeNotifier{}, logx.Nop())
	if l.Checkpoint() == 0 {
		t.Fatal("default checkpoint should be seeded from the clock")
	}
}
