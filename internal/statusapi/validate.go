package statusapi

import (
	"encoding/json"
	"fmt"
)

// Validate checks a decoded payload against the documented response shape
// and extracts the ordered homework list.
//
// The "homeworks" key being absent is an error; an explicit empty list is a
// valid, quiet result.
func Validate(payload any) (StatusPage, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return StatusPage{}, &SchemaError{Reason: fmt.Sprintf("payload is %T, expected an object", payload)}
	}

	raw, ok := obj["homeworks"]
	if !ok {
		return StatusPage{}, &SchemaError{Reason: `missing "homeworks" key`}
	}

	list, ok := raw.([]any)
	if !ok {
		return StatusPage{}, &SchemaError{Reason: fmt.Sprintf(`"homeworks" is %T, expected a list`, raw)}
	}

	page := StatusPage{Homeworks: make([]Homework, 0, len(list))}
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return StatusPage{}, &SchemaError{Reason: fmt.Sprintf("homeworks[%d] is %T, expected an object", i, item)}
		}
		page.Homeworks = append(page.Homeworks, homeworkFromRecord(rec))
	}

	if cp, ok := checkpointFromPayload(obj["current_date"]); ok {
		page.CurrentDate = &cp
	}
	return page, nil
}

func homeworkFromRecord(rec map[string]any) Homework {
	var hw Homework
	if v, ok := rec["homework_name"]; ok {
		hw.NameSet = true
		hw.Name = fmt.Sprint(v)
	}
	if v, ok := rec["status"]; ok {
		hw.StatusSet = true
		hw.Status = fmt.Sprint(v)
	}
	return hw
}

// checkpointFromPayload accepts the numeric encodings JSON decoding can
// produce for current_date. A missing or non-numeric value simply means
// "no new checkpoint"; the caller retains its previous one.
func checkpointFromPayload(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
