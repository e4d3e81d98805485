package review

import (
	"errors"
	"strings"
	"testing"

	"reviewbot/internal/statusapi"
)

func hw(name, status string) statusapi.Homework {
	return statusapi.Homework{Name: name, Status: status, NameSet: true, StatusSet: true}
}

func TestInterpretKnownStatuses(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status  string
		verdict string
	}{
		{status: "approved", verdict: "Reviewed: the reviewer liked everything. Hooray!"},
		{status: "reviewing", verdict: "Placed under review by reviewer."},
		{status: "rejected", verdict: "Reviewed: the reviewer has remarks."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.status, func(t *testing.T) {
			got, err := Interpret(hw("hw1", tt.status))
			if err != nil {
				t.Fatalf("Interpret error: %v", err)
			}
			want := `Changed review status for "hw1". ` + tt.verdict
			if got != want {
				t.Fatalf("Interpret = %q, want %q", got, want)
			}
		})
	}
}

func TestInterpretUnknownStatus(t *testing.T) {
	t.Parallel()
	_, err := Interpret(hw("hw1", "pending"))

	var ue *UnknownStatusError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UnknownStatusError", err)
	}
	if ue.Status != "pending" {
		t.Fatalf("Status = %q, want pending", ue.Status)
	}
}

func TestInterpretNamesMissingFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      statusapi.Homework
		mention []string
	}{
		{name: "no name", in: statusapi.Homework{Status: "approved", StatusSet: true}, mention: []string{"homework_name"}},
		{name: "no status", in: statusapi.Homework{Name: "hw1", NameSet: true}, mention: []string{"status"}},
		{name: "nothing", in: statusapi.Homework{}, mention: []string{"homework_name", "status"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interpret(tt.in)
			var me *MissingFieldError
			if !errors.As(err, &me) {
				t.Fatalf("error = %v, want *MissingFieldError", err)
			}
			for _, field := range tt.mention {
				if !strings.Contains(me.Error(), field) {
					t.Fatalf("error %q does not name %q", me.Error(), field)
				}
			}
		})
	}
}
