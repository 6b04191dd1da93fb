// Package textgentest provides an in-process stand-in for the text-generation
// service's chat API. It answers with lorem ipsum and keeps no state between
// calls apart from a log of the requests it received.
package textgentest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	loremgen "github.com/bozaro/golorem"

	textgen "github.com/haowjy/textgen-go"
)

// maxReplyWords caps generated replies regardless of max_new_tokens.
const maxReplyWords = 40

// ReplyFunc produces the assistant reply for a request.
type ReplyFunc func(req *textgen.GenerationRequest) string

// Option configures a Server.
type Option func(*Server)

// WithReply replaces the lorem ipsum generator.
func WithReply(fn ReplyFunc) Option {
	return func(s *Server) {
		s.reply = fn
	}
}

// WithRawResponse makes every call answer with a fixed status and body.
// Requests are still recorded.
func WithRawResponse(status int, body string) Option {
	return func(s *Server) {
		s.raw = &rawResponse{status: status, body: body}
	}
}

// WithEmptyResults makes every call answer {"results":[]}.
func WithEmptyResults() Option {
	return WithRawResponse(http.StatusOK, `{"results":[]}`)
}

type rawResponse struct {
	status int
	body   string
}

// Server is a fake chat service listening on a loopback port.
type Server struct {
	srv   *httptest.Server
	reply ReplyFunc
	raw   *rawResponse

	mu        sync.Mutex
	generator *loremgen.Lorem
	requests  []textgen.GenerationRequest
}

// NewServer starts a fake service. Call Close when done.
func NewServer(opts ...Option) *Server {
	s := &Server{
		generator: loremgen.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reply == nil {
		s.reply = s.loremReply
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+textgen.ChatPath, s.handleChat)
	s.srv = httptest.NewServer(mux)
	return s
}

// URL returns the base URL to put in textgen.Config.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// Requests returns the decoded requests received so far, oldest first.
func (s *Server) Requests() []textgen.GenerationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]textgen.GenerationRequest(nil), s.requests...)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		http.Error(w, "expected application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req textgen.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.raw != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.raw.status)
		_, _ = w.Write([]byte(s.raw.body))
		return
	}

	history := nextHistory(&req, s.reply(&req))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(textgen.ChatResponse{
		Results: []textgen.ChatResult{{History: history}},
	})
}

// nextHistory applies one turn to the request's history:
//   - regenerate: the last reply is replaced
//   - continue with no new input: the reply is appended to the last reply
//   - otherwise: (user_input, reply) is appended
func nextHistory(req *textgen.GenerationRequest, reply string) textgen.History {
	history := req.History.Clone()
	n := len(history.Internal)

	switch {
	case req.Regenerate && n > 0:
		setLastReply(history.Internal, reply, false)
		setLastReply(history.Visible, reply, false)
	case req.ContinueGeneration && req.UserInput == "" && n > 0:
		setLastReply(history.Internal, reply, true)
		setLastReply(history.Visible, reply, true)
	default:
		history.Append(req.UserInput, reply)
	}
	return history
}

func setLastReply(pairs [][]string, reply string, extend bool) {
	if len(pairs) == 0 || len(pairs[len(pairs)-1]) < 2 {
		return
	}
	pair := pairs[len(pairs)-1]
	if extend {
		pair[1] = pair[1] + " " + reply
		return
	}
	pair[1] = reply
}

func (s *Server) loremReply(req *textgen.GenerationRequest) string {
	words := int(req.MaxNewTokens)
	if words > maxReplyWords {
		words = maxReplyWords
	}
	if words < 1 {
		words = 1
	}

	// golorem is not safe for concurrent use
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	count := 0
	for count < words {
		sentence := s.generator.Sentence(3, 10)
		sb.WriteString(sentence)
		sb.WriteString(" ")
		count += len(strings.Fields(sentence))
	}
	return strings.TrimSpace(sb.String())
}
