package review

// Tracker remembers the last successfully delivered notification text and
// decides whether a new one is worth sending.
//
// "Unset" is a distinct state, not the empty string: the very first message
// is always novel even if it happens to be "".
//
// Not safe for concurrent use; the poll loop is the only caller.
type Tracker struct {
	last string
	set  bool
}

func NewTracker() *Tracker { return &Tracker{} }

// IsNovel reports whether text differs from the last recorded notification.
func (t *Tracker) IsNovel(text string) bool {
	return !t.set || t.last != text
}

// Record commits text as the last delivered notification. Call it only
// after the send was confirmed; recording a failed send would permanently
// suppress its retry.
func (t *Tracker) Record(text string) {
	t.last = text
	t.set = true
}

// Last returns the recorded text and whether anything has been recorded.
func (t *Tracker) Last() (string, bool) { return t.last, t.set }
