package session

import (
	"errors"
	"fmt"

	"docchat/internal/domain"
)

// Precondition sentinels wrapped by PreconditionError.
var (
	ErrNoDocument        = errors.New("please upload a PDF first")
	ErrAssistantNotReady = errors.New("please upload a PDF and create embeddings to start chatting")
	ErrEmptyMessage      = errors.New("message is empty")
)

// UploadIOError reports a failure persisting an uploaded file.
type UploadIOError struct {
	Path string
	Err  error
}

func (e *UploadIOError) Error() string {
	return fmt.Sprintf("saving upload to %s: %v", e.Path, e.Err)
}

func (e *UploadIOError) Unwrap() error { return e.Err }

// PreconditionError reports an action that is not legal in the current state.
type PreconditionError struct {
	Action Action
	State  State
	Err    error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s not allowed in state %s: %v", e.Action, e.State, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// Reason classifies an embedding backend failure.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonNotFound
	ReasonInvalidConfig
	ReasonConnection
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not found"
	case ReasonInvalidConfig:
		return "invalid configuration"
	case ReasonConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// EmbeddingBackendError reports a failure creating embeddings.
type EmbeddingBackendError struct {
	Reason Reason
	Err    error
}

func (e *EmbeddingBackendError) Error() string {
	return fmt.Sprintf("embedding creation failed (%s): %v", e.Reason, e.Err)
}

func (e *EmbeddingBackendError) Unwrap() error { return e.Err }

func classifyEmbeddingError(err error) *EmbeddingBackendError {
	reason := ReasonUnknown
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		reason = ReasonNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		reason = ReasonInvalidConfig
	case errors.Is(err, domain.ErrBackendUnavailable):
		reason = ReasonConnection
	}
	return &EmbeddingBackendError{Reason: reason, Err: err}
}

// AssistantError reports a failure obtaining an answer from the assistant.
type AssistantError struct {
	Err error
}

func (e *AssistantError) Error() string {
	return fmt.Sprintf("An error occurred while processing your request: %v", e.Err)
}

func (e *AssistantError) Unwrap() error { return e.Err }

// Kind tags the outcome carried by a Result.
type Kind int

const (
	KindOK Kind = iota
	KindUploadIO
	KindPrecondition
	KindEmbeddingBackend
	KindAssistant
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindUploadIO:
		return "upload_io"
	case KindPrecondition:
		return "precondition"
	case KindEmbeddingBackend:
		return "embedding_backend"
	case KindAssistant:
		return "assistant"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Result is returned by every controller handler. Message is always
// suitable for display; Err is set unless Kind is KindOK.
type Result struct {
	Kind    Kind
	Message string
	Err     error
}

func (r Result) OK() bool { return r.Kind == KindOK }

func ok(msg string) Result { return Result{Kind: KindOK, Message: msg} }

func failed(err error) Result {
	r := Result{Kind: KindUnknown, Message: err.Error(), Err: err}
	var (
		uploadErr *UploadIOError
		preErr    *PreconditionError
		embedErr  *EmbeddingBackendError
		assistErr *AssistantError
	)
	switch {
	case errors.As(err, &uploadErr):
		r.Kind = KindUploadIO
	case errors.As(err, &preErr):
		r.Kind = KindPrecondition
		r.Message = capitalize(preErr.Err.Error())
	case errors.As(err, &embedErr):
		r.Kind = KindEmbeddingBackend
	case errors.As(err, &assistErr):
		r.Kind = KindAssistant
		r.Message = "⚠️ " + assistErr.Error()
	}
	return r
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
