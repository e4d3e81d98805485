package digest

import (
	"context"
	"strings"
	"testing"
	"time"

	"reviewbot/internal/notifier"
	"reviewbot/pkg/logx"
)

func TestSummarize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		items []notifier.HistoryItem
		want  []string
	}{
		{
			name: "empty window",
			want: []string{"no notifications", "24h"},
		},
		{
			name: "counts and shows the latest",
			items: []notifier.HistoryItem{
				{Text: "first"},
				{Text: "second"},
			},
			want: []string{"2 notification(s)", "Last: second"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.items, 24*time.Hour)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Fatalf("Summarize() = %q, want it to contain %q", got, w)
				}
			}
		})
	}
}

type fakeHistory struct{ items []notifier.HistoryItem }

func (f fakeHistory) Recent(time.Time) []notifier.HistoryItem { return f.items }

type fakeSender struct{ sent []string }

func (f *fakeSender) Notify(_ context.Context, text string) bool {
	f.sent = append(f.sent, text)
	return true
}

func TestNewDisabledWithoutSchedule(t *testing.T) {
	t.Parallel()
	s, err := New(Config{}, fakeHistory{}, &fakeSender{}, logx.Nop())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if s != nil {
		t.Fatal("empty schedule should disable the digest")
	}
	// nil service methods must be safe no-ops.
	s.Start()
	s.Stop()
}

func TestNewRejectsBadSpec(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{Schedule: "every day at nine"}, fakeHistory{}, &fakeSender{}, logx.Nop()); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if _, err := New(Config{Schedule: "0 9 * * *", Timezone: "Mars/Olympus"}, fakeHistory{}, &fakeSender{}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestNewAcceptsStandardSpec(t *testing.T) {
	t.Parallel()
	s, err := New(Config{Schedule: "0 9 * * *", Timezone: "UTC"}, fakeHistory{}, &fakeSender{}, logx.Nop())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if s == nil {
		t.Fatal("expected a live service")
	}
	s.Start()
	s.Stop()
}
