package textgen

// History is the conversation state the service hands back after every turn.
// The service is stateless, so callers resend it with the next request.
//
// Internal holds the model-facing turn records, Visible the display-facing ones
// (the service may escape or format them differently). Both sequences grow and
// shrink together. Each turn-pair is [input, reply]; pairs are kept as plain
// slices so whatever shape the service returns survives a round trip.
type History struct {
	Internal [][]string `json:"internal"`
	Visible  [][]string `json:"visible"`
}

// NewHistory returns an empty history for a new conversation.
func NewHistory() History {
	return History{
		Internal: [][]string{},
		Visible:  [][]string{},
	}
}

// Len returns the number of turns in the model-facing sequence.
func (h History) Len() int {
	return len(h.Internal)
}

// Append pushes the same (input, reply) pair onto both sequences.
func (h *History) Append(input, reply string) {
	h.Internal = append(h.Internal, []string{input, reply})
	h.Visible = append(h.Visible, []string{input, reply})
}

// Undo drops the most recent turn-pair from both sequences and returns a copy
// of the result. Undo on an empty history is a no-op.
func (h *History) Undo() History {
	if n := len(h.Internal); n > 0 {
		h.Internal = h.Internal[:n-1]
	}
	if n := len(h.Visible); n > 0 {
		h.Visible = h.Visible[:n-1]
	}
	return h.Clone()
}

// Last returns the reply half of the most recent internal turn-pair.
// ok is false when the history is empty. A pair with fewer than two
// elements yields a *MalformedHistoryError.
func (h History) Last() (reply string, ok bool, err error) {
	n := len(h.Internal)
	if n == 0 {
		return "", false, nil
	}

	pair := h.Internal[n-1]
	if len(pair) < 2 {
		return "", false, &MalformedHistoryError{Index: n - 1, Len: len(pair)}
	}
	return pair[1], true, nil
}

// Clone returns a deep copy; the copy shares no backing arrays with h.
func (h History) Clone() History {
	return History{
		Internal: clonePairs(h.Internal),
		Visible:  clonePairs(h.Visible),
	}
}

func clonePairs(pairs [][]string) [][]string {
	out := make([][]string, len(pairs))
	for i, pair := range pairs {
		out[i] = append([]string(nil), pair...)
		if out[i] == nil {
			out[i] = []string{}
		}
	}
	return out
}
