package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Action is a user action the controller can perform.
type Action int

const (
	ActionUpload Action = iota
	ActionCreateEmbeddings
	ActionSendMessage
)

func (a Action) String() string {
	switch a {
	case ActionUpload:
		return "upload"
	case ActionCreateEmbeddings:
		return "create embeddings"
	case ActionSendMessage:
		return "send message"
	default:
		return "unknown action"
	}
}

// EmbeddingsCreator indexes a document and returns a status line.
type EmbeddingsCreator interface {
	CreateEmbeddings(ctx context.Context, path string) (string, error)
}

// Assistant answers questions about the indexed document.
type Assistant interface {
	GetResponse(ctx context.Context, text string) (string, error)
}

// EmbeddingsFactory builds an embeddings creator from the fixed configuration.
type EmbeddingsFactory func() (EmbeddingsCreator, error)

// AssistantFactory builds the assistant from the fixed configuration.
type AssistantFactory func() (Assistant, error)

// Config holds the controller settings.
type Config struct {
	UploadDir   string
	UploadName  string
	SettleDelay time.Duration
}

// Controller enforces the upload, embed, chat ordering on a Session and turns
// every collaborator failure into a Result.
type Controller struct {
	newEmbeddings EmbeddingsFactory
	newAssistant  AssistantFactory
	uploadPath    string
	settle        time.Duration
	sleep         func(time.Duration)
	log           *zap.Logger
}

func NewController(cfg Config, embeddings EmbeddingsFactory, assistant AssistantFactory, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	name := cfg.UploadName
	if name == "" {
		name = "docchat-upload.pdf"
	}
	return &Controller{
		newEmbeddings: embeddings,
		newAssistant:  assistant,
		uploadPath:    filepath.Join(cfg.UploadDir, name),
		settle:        cfg.SettleDelay,
		sleep:         time.Sleep,
		log:           log,
	}
}

// UploadPath is the single location every upload is written to.
func (c *Controller) UploadPath() string { return c.uploadPath }

// Available lists the actions legal in the session's current state.
func (c *Controller) Available(s *Session) []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := []Action{ActionUpload}
	if s.document != nil {
		actions = append(actions, ActionCreateEmbeddings)
	}
	if s.state == EmbeddingsReady && s.assistant != nil {
		actions = append(actions, ActionSendMessage)
	}
	return actions
}

// HandleUpload stores the payload read from r as the session's document,
// overwriting any previous upload. The assistant and history are kept.
func (c *Controller) HandleUpload(s *Session, name string, r io.Reader) Result {
	s.op.Lock()
	defer s.op.Unlock()

	n, err := writeUpload(c.uploadPath, r)
	if err != nil {
		c.log.Error("upload failed", zap.String("name", name), zap.Error(err))
		return failed(&UploadIOError{Path: c.uploadPath, Err: err})
	}

	s.mu.Lock()
	s.document = &DocumentRef{Name: name, Path: c.uploadPath, Size: n, UploadedAt: time.Now()}
	s.state = DocumentUploaded
	s.mu.Unlock()

	c.log.Info("document uploaded",
		zap.String("session", s.ID),
		zap.String("name", name),
		zap.Int64("size", n))
	return ok(fmt.Sprintf("File Uploaded Successfully! %s (%d bytes)", name, n))
}

// RequestEmbeddingCreation indexes the uploaded document. The assistant is
// built on the first success only.
func (c *Controller) RequestEmbeddingCreation(ctx context.Context, s *Session) Result {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.Lock()
	doc, state, hasAssistant := s.document, s.state, s.assistant != nil
	s.mu.Unlock()
	if doc == nil {
		return failed(&PreconditionError{Action: ActionCreateEmbeddings, State: state, Err: ErrNoDocument})
	}

	log := c.log.With(zap.String("session", s.ID), zap.String("path", doc.Path))
	manager, err := c.newEmbeddings()
	if err != nil {
		log.Error("embeddings manager construction failed", zap.Error(err))
		return failed(classifyEmbeddingError(err))
	}
	msg, err := manager.CreateEmbeddings(ctx, doc.Path)
	if err != nil {
		log.Error("embedding creation failed", zap.Error(err))
		return failed(classifyEmbeddingError(err))
	}
	c.sleep(c.settle)

	var assistant Assistant
	if !hasAssistant {
		assistant, err = c.newAssistant()
		if err != nil {
			log.Error("assistant construction failed", zap.Error(err))
			return failed(classifyEmbeddingError(fmt.Errorf("create assistant: %w", err)))
		}
		log.Info("assistant created")
	}

	s.mu.Lock()
	if s.assistant == nil {
		s.assistant = assistant
	}
	s.state = EmbeddingsReady
	s.mu.Unlock()

	log.Info("embeddings ready")
	return ok(msg)
}

// SendMessage asks the assistant about the document. The user message and
// the answer, or an error placeholder, are both appended to the history.
func (c *Controller) SendMessage(ctx context.Context, s *Session, text string) Result {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.Lock()
	state, assistant := s.state, s.assistant
	s.mu.Unlock()
	if state != EmbeddingsReady || assistant == nil {
		return failed(&PreconditionError{Action: ActionSendMessage, State: state, Err: ErrAssistantNotReady})
	}
	if strings.TrimSpace(text) == "" {
		return failed(&PreconditionError{Action: ActionSendMessage, State: state, Err: ErrEmptyMessage})
	}

	s.mu.Lock()
	s.appendMessage(RoleUser, text)
	s.mu.Unlock()

	answer, err := assistant.GetResponse(ctx, text)
	if err != nil {
		c.log.Error("assistant failed", zap.String("session", s.ID), zap.Error(err))
		aerr := &AssistantError{Err: err}
		s.mu.Lock()
		s.appendMessage(RoleAssistant, "⚠️ "+aerr.Error())
		s.mu.Unlock()
		return failed(aerr)
	}
	c.sleep(c.settle)

	s.mu.Lock()
	s.appendMessage(RoleAssistant, answer)
	s.mu.Unlock()
	return ok(answer)
}
