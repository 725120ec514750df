package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the position of a session in the upload, embed, chat workflow.
type State int

const (
	NoDocument State = iota
	DocumentUploaded
	EmbeddingsReady
)

func (s State) String() string {
	switch s {
	case NoDocument:
		return "NoDocument"
	case DocumentUploaded:
		return "DocumentUploaded"
	case EmbeddingsReady:
		return "EmbeddingsReady"
	default:
		return "Unknown"
	}
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat history entry.
type Message struct {
	Role    Role
	Content string
	At      time.Time
}

// DocumentRef points at the most recently uploaded document.
type DocumentRef struct {
	Name       string
	Path       string
	Size       int64
	UploadedAt time.Time
}

// Session holds the state of one interactive user session. All fields are
// guarded by mu; use the accessors from outside the package. op serializes
// controller actions so only one runs at a time.
type Session struct {
	ID        string
	StartedAt time.Time

	op        sync.Mutex
	mu        sync.Mutex
	state     State
	document  *DocumentRef
	assistant Assistant
	history   []Message
}

// New returns an empty session in the NoDocument state.
func New() *Session {
	return &Session{ID: uuid.NewString(), StartedAt: time.Now()}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Document returns a copy of the current document reference.
func (s *Session) Document() (DocumentRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.document == nil {
		return DocumentRef{}, false
	}
	return *s.document, true
}

// HasAssistant reports whether the assistant has been constructed.
func (s *Session) HasAssistant() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assistant != nil
}

// History returns a copy of the chat history in chronological order.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) appendMessage(role Role, content string) {
	s.history = append(s.history, Message{Role: role, Content: content, At: time.Now()})
}
