package textgen

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassifiers(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name      string
		err       error
		transport bool
		decode    bool
		empty     bool
	}{
		{"nil", nil, false, false, false},
		{"transport", &TransportError{URL: "u", Err: cause}, true, false, false},
		{"status", &TransportError{URL: "u", StatusCode: 502}, true, false, false},
		{"wrapped transport", fmt.Errorf("turn 3: %w", &TransportError{Err: cause}), true, false, false},
		{"decode", &DecodeError{Body: "x", Err: cause}, false, true, false},
		{"empty", ErrEmptyResult, false, false, true},
		{"wrapped empty", fmt.Errorf("turn 3: %w", ErrEmptyResult), false, false, true},
		{"unrelated", cause, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transport, IsTransportError(tt.err), "IsTransportError")
			assert.Equal(t, tt.decode, IsDecodeError(tt.err), "IsDecodeError")
			assert.Equal(t, tt.empty, IsEmptyResult(tt.err), "IsEmptyResult")
		})
	}
}

func TestTransportError_UnwrapsCause(t *testing.T) {
	cause := errors.New("tls: handshake failure")
	err := &TransportError{URL: "https://x/api/v1/chat", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "tls: handshake failure")
}

func TestTransportError_Message(t *testing.T) {
	err := &TransportError{URL: "http://x/api/v1/chat", StatusCode: 500, Body: strings.Repeat("a", 1000)}

	msg := err.Error()
	assert.Contains(t, msg, "status 500")
	assert.Less(t, len(msg), 400)
}

func TestDecodeError_KeepsBody(t *testing.T) {
	cause := errors.New("invalid character '<'")
	err := &DecodeError{Body: "<html>", Err: cause}

	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "<html>")
}
