package textgen

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrTransport indicates the HTTP round trip failed or returned a non-2xx status.
	ErrTransport = errors.New("textgen: transport error")

	// ErrDecode indicates the response body is not a valid chat response envelope.
	ErrDecode = errors.New("textgen: decode error")

	// ErrEmptyResult indicates the envelope decoded fine but carried zero results.
	ErrEmptyResult = errors.New("textgen: empty result")

	// ErrMalformedHistory indicates a turn-pair does not have the expected (input, reply) shape.
	ErrMalformedHistory = errors.New("textgen: malformed history")

	// ErrEncode indicates the request could not be serialized.
	// Examples: NaN or Inf in a sampling parameter.
	ErrEncode = errors.New("textgen: encode error")

	// ErrUnknownMode indicates a mode string that is not chat, chat-instruct or instruct.
	ErrUnknownMode = errors.New("textgen: unknown mode")

	// ErrUnknownPreset indicates a sampling preset name that is not registered.
	ErrUnknownPreset = errors.New("textgen: unknown preset")
)

// TransportError represents a failed round trip to the service.
// StatusCode is zero when no response was received at all.
type TransportError struct {
	URL        string // The endpoint that was called
	StatusCode int    // HTTP status code (if a response arrived)
	Body       string // Response body (if a response arrived)
	Err        error  // Underlying cause (dial, TLS, context, read)
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("POST %s: unexpected status %d: %s", e.URL, e.StatusCode, truncate(e.Body, 256))
	}
	return fmt.Sprintf("POST %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// DecodeError represents a response body that could not be parsed as a ChatResponse.
type DecodeError struct {
	Body string // Raw body, kept for diagnostics
	Err  error  // Parse failure from encoding/json
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode chat response: %v (body: %q)", e.Err, truncate(e.Body, 256))
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// EncodeError represents a request that could not be serialized to JSON.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode generation request: %v", e.Err)
}

func (e *EncodeError) Unwrap() []error {
	return []error{ErrEncode, e.Err}
}

// MalformedHistoryError reports the offending turn-pair when reading a history.
type MalformedHistoryError struct {
	Index int // Position of the pair in History.Internal
	Len   int // Number of elements the pair actually has
}

func (e *MalformedHistoryError) Error() string {
	return fmt.Sprintf("turn-pair %d has %d element(s), want 2", e.Index, e.Len)
}

func (e *MalformedHistoryError) Unwrap() error {
	return ErrMalformedHistory
}

// IsTransportError checks if an error came from the network layer or a non-2xx status.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	return errors.Is(err, ErrTransport)
}

// IsDecodeError checks if the service answered with something that is not a chat envelope.
func IsDecodeError(err error) bool {
	if err == nil {
		return false
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return true
	}

	return errors.Is(err, ErrDecode)
}

// IsEmptyResult checks if the service answered with a well-formed but empty envelope.
func IsEmptyResult(err error) bool {
	return err != nil && errors.Is(err, ErrEmptyResult)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
