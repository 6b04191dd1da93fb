package textgen

import "fmt"

// Mode selects how the service formats the conversation for the model.
// Using a typed constant prevents typos in the wire value.
type Mode string

// Known conversation modes
const (
	// ModeChat uses the character persona only
	ModeChat Mode = "chat"

	// ModeChatInstruct wraps the chat turn in the instruction template via ChatInstructCommand
	ModeChatInstruct Mode = "chat-instruct"

	// ModeInstruct sends turns through the instruction template only
	ModeInstruct Mode = "instruct"
)

// String returns the wire representation of the mode
func (m Mode) String() string {
	return string(m)
}

// IsValid returns true if the mode is one of the known variants
func (m Mode) IsValid() bool {
	switch m {
	case ModeChat, ModeChatInstruct, ModeInstruct:
		return true
	default:
		return false
	}
}

// ParseMode converts a wire string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// UnmarshalText rejects anything other than the three known variants.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
