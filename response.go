package textgen

// ChatResponse is the envelope returned by POST /api/v1/chat.
type ChatResponse struct {
	// Results normally holds exactly one entry
	Results []ChatResult `json:"results"`
}

// ChatResult carries the updated conversation for one generation.
type ChatResult struct {
	History History `json:"history"`
}

// FirstHistory returns a copy of the first result's history,
// or ErrEmptyResult when the service sent none.
func (r *ChatResponse) FirstHistory() (History, error) {
	if len(r.Results) == 0 {
		return History{}, ErrEmptyResult
	}
	return r.Results[0].History.Clone(), nil
}
