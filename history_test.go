package textgen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_Undo(t *testing.T) {
	tests := []struct {
		name     string
		history  History
		expected [][]string
	}{
		{
			name:     "empty history is a no-op",
			history:  NewHistory(),
			expected: [][]string{},
		},
		{
			name:     "zero value is a no-op",
			history:  History{},
			expected: [][]string{},
		},
		{
			name: "drops the last pair",
			history: History{
				Internal: [][]string{{"a", "b"}, {"c", "d"}},
				Visible:  [][]string{{"a", "b"}, {"c", "d"}},
			},
			expected: [][]string{{"a", "b"}},
		},
		{
			name: "single pair",
			history: History{
				Internal: [][]string{{"a", "b"}},
				Visible:  [][]string{{"a", "b"}},
			},
			expected: [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.history.Undo()

			assert.Equal(t, tt.expected, result.Internal)
			assert.Equal(t, tt.expected, result.Visible)
			assert.Len(t, tt.history.Internal, len(tt.expected))
			assert.Len(t, tt.history.Visible, len(tt.expected))
		})
	}
}

func TestHistory_UndoReturnsCopy(t *testing.T) {
	h := NewHistory()
	h.Append("a", "b")
	h.Append("c", "d")

	copied := h.Undo()
	copied.Internal[0][1] = "changed"

	assert.Equal(t, "b", h.Internal[0][1])
}

func TestHistory_Last(t *testing.T) {
	tests := []struct {
		name    string
		history History
		reply   string
		ok      bool
		wantErr bool
	}{
		{
			name:    "single pair",
			history: History{Internal: [][]string{{"hi", "hello there"}}},
			reply:   "hello there",
			ok:      true,
		},
		{
			name:    "picks the most recent pair",
			history: History{Internal: [][]string{{"hi", "hello"}, {"how are you", "fine"}}},
			reply:   "fine",
			ok:      true,
		},
		{
			name:    "empty internal",
			history: NewHistory(),
			ok:      false,
		},
		{
			name:    "short pair",
			history: History{Internal: [][]string{{"hi"}}},
			wantErr: true,
		},
		{
			name:    "empty pair",
			history: History{Internal: [][]string{{"a", "b"}, {}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok, err := tt.history.Last()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedHistory)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reply, reply)
		})
	}
}

func TestHistory_LastDoesNotMutate(t *testing.T) {
	h := NewHistory()
	h.Append("hi", "hello there")

	_, _, err := h.Last()
	require.NoError(t, err)
	assert.Equal(t, 1, h.Len())
}

func TestHistory_MalformedHistoryError(t *testing.T) {
	h := History{Internal: [][]string{{"a", "b"}, {"c"}}}

	_, _, err := h.Last()

	var malformed *MalformedHistoryError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Index)
	assert.Equal(t, 1, malformed.Len)
}

func TestHistory_Append(t *testing.T) {
	h := NewHistory()
	h.Append("hi", "hello")

	assert.Equal(t, [][]string{{"hi", "hello"}}, h.Internal)
	assert.Equal(t, [][]string{{"hi", "hello"}}, h.Visible)

	// the two sequences must not alias each other
	h.Visible[0][1] = "<b>hello</b>"
	assert.Equal(t, "hello", h.Internal[0][1])
}

func TestHistory_JSON(t *testing.T) {
	const wire = `{"internal":[["I am bored","..."]],"visible":[["I am bored","..."]]}`

	var h History
	require.NoError(t, json.Unmarshal([]byte(wire), &h))
	assert.Equal(t, 1, h.Len())

	out, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, wire, string(out))
}

func TestChatResponse_FirstHistory(t *testing.T) {
	t.Run("empty results", func(t *testing.T) {
		resp := &ChatResponse{}
		_, err := resp.FirstHistory()
		assert.ErrorIs(t, err, ErrEmptyResult)
	})

	t.Run("returns a copy of the first result", func(t *testing.T) {
		first := NewHistory()
		first.Append("a", "b")
		second := NewHistory()
		second.Append("x", "y")
		resp := &ChatResponse{Results: []ChatResult{{History: first}, {History: second}}}

		h, err := resp.FirstHistory()
		require.NoError(t, err)
		assert.Equal(t, first, h)

		h.Internal[0][1] = "changed"
		assert.Equal(t, "b", resp.Results[0].History.Internal[0][1])
	})
}
