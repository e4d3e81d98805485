package statusapi

// Homework is one tracked submission as it appeared in the payload.
//
// Field presence is tracked separately from the values so a missing key can
// be told apart from an empty string (the API contract requires both keys).
type Homework struct {
	Name   string
	Status string

	NameSet   bool
	StatusSet bool
}

// MissingFields lists the payload keys absent from this record, in the
// documented order.
func (h Homework) MissingFields() []string {
	var missing []string
	if !h.NameSet {
		missing = append(missing, "homework_name")
	}
	if !h.StatusSet {
		missing = append(missing, "status")
	}
	return missing
}

// StatusPage is a validated status response: the ordered list of tracked
// submissions (newest first, possibly empty) plus the server's checkpoint
// for the next incremental query, when it provided one.
type StatusPage struct {
	Homeworks   []Homework
	CurrentDate *int64
}
