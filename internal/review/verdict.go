package review

import (
	"fmt"
	"strings"

	"reviewbot/internal/statusapi"
)

// MissingFieldError reports which required homework keys were absent.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "homework record is missing keys: " + strings.Join(e.Fields, ", ")
}

// UnknownStatusError reports a status value outside the fixed enumeration.
// This guards against API schema drift: a new server-side status must be
// added here deliberately, not silently dropped.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown review status %q", e.Status)
}

// verdicts maps each review status to its notification phrase.
// Immutable; the full set of statuses the API may legitimately return.
var verdicts = map[string]string{
	"approved":  "Reviewed: the reviewer liked everything. Hooray!",
	"reviewing": "Placed under review by reviewer.",
	"rejected":  "Reviewed: the reviewer has remarks.",
}

// Interpret turns one homework record into the notification text for its
// current status.
func Interpret(hw statusapi.Homework) (string, error) {
	if missing := hw.MissingFields(); len(missing) > 0 {
		return "", &MissingFieldError{Fields: missing}
	}
	verdict, ok := verdicts[hw.Status]
	if !ok {
		return "", &UnknownStatusError{Status: hw.Status}
	}
	return fmt.Sprintf("Changed review status for %q. %s", hw.Name, verdict), nil
}
