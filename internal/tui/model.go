package tui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"docchat/internal/session"
)

// Controller is the TUI-facing subset of the session controller.
type Controller interface {
	HandleUpload(s *session.Session, name string, r io.Reader) session.Result
	RequestEmbeddingCreation(ctx context.Context, s *session.Session) session.Result
	SendMessage(ctx context.Context, s *session.Session, text string) session.Result
	Available(s *session.Session) []session.Action
}

type page int

const (
	pageHome page = iota
	pageChatbot
	pageContact
	pageCount
)

type focus int

const (
	focusPicker focus = iota
	focusEmbed
	focusChat
)

type uploadDoneMsg struct {
	name   string
	result session.Result
}

type embedDoneMsg struct{ result session.Result }

type chatDoneMsg struct{ result session.Result }

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx     context.Context
	ctrl    Controller
	session *session.Session

	page    page
	focus   focus
	picker  filepicker.Model
	input   textinput.Model
	chat    viewport.Model
	spinner spinner.Model

	embedChecked bool
	busy         string
	uploadResult *session.Result
	embedResult  *session.Result

	width  int
	height int
	ready  bool
}

// New creates a new TUI model bound to one session. startDir is where the
// file picker opens.
func New(ctx context.Context, ctrl Controller, s *session.Session, startDir string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.CurrentDirectory = startDir
	fp.Height = 10

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your message here..."
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		session: s,
		picker:  fp,
		input:   ti,
		chat:    viewport.New(40, 10),
		spinner: sp,
	}
}

// Init starts reading the file picker directory.
func (m Model) Init() tea.Cmd { return m.picker.Init() }

// Update handles key, window and action-result events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case uploadDoneMsg:
		m.busy = ""
		m.uploadResult = &msg.result
		if msg.result.OK() {
			// a new document needs its own embeddings
			m.embedChecked = false
			m.embedResult = nil
		}
		m.refreshChat()
		return m, nil

	case embedDoneMsg:
		m.busy = ""
		m.embedResult = &msg.result
		if !msg.result.OK() {
			m.embedChecked = false
		}
		m.refreshChat()
		return m, nil

	case chatDoneMsg:
		m.busy = ""
		m.refreshChat()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// directory listings and other picker-internal messages
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "f1":
		return m.switchPage(pageHome), nil
	case "f2":
		return m.switchPage(pageChatbot), nil
	case "f3":
		return m.switchPage(pageContact), nil
	case "ctrl+n":
		return m.switchPage((m.page + 1) % pageCount), nil
	case "ctrl+p":
		return m.switchPage((m.page + pageCount - 1) % pageCount), nil
	}
	if m.page != pageChatbot {
		return m, nil
	}
	if msg.Type == tea.KeyTab {
		m.setFocus(m.nextFocus())
		return m, nil
	}

	switch m.focus {
	case focusEmbed:
		if msg.Type == tea.KeySpace || msg.String() == "enter" {
			return m.toggleEmbeddings()
		}
		return m, nil
	case focusChat:
		if msg.String() == "enter" {
			return m.send()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			next, upload := m.upload(path)
			return next, tea.Batch(cmd, upload)
		}
		return m, cmd
	}
}

func (m Model) switchPage(p page) Model {
	m.page = p
	if p == pageChatbot && m.focus == focusChat && !m.can(session.ActionSendMessage) {
		m.setFocus(focusPicker)
	}
	return m
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusChat {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// nextFocus cycles picker, checkbox and, once chat is available, the input.
func (m Model) nextFocus() focus {
	switch m.focus {
	case focusPicker:
		return focusEmbed
	case focusEmbed:
		if m.can(session.ActionSendMessage) {
			return focusChat
		}
		return focusPicker
	default:
		return focusPicker
	}
}

func (m Model) can(action session.Action) bool {
	for _, a := range m.ctrl.Available(m.session) {
		if a == action {
			return true
		}
	}
	return false
}

func (m Model) upload(path string) (Model, tea.Cmd) {
	if m.busy != "" {
		return m, nil
	}
	m.busy = "Uploading..."
	ctrl, s := m.ctrl, m.session
	run := func() tea.Msg {
		name := filepath.Base(path)
		f, err := os.Open(path)
		if err != nil {
			// surfaced through the controller so the result is classified
			return uploadDoneMsg{name: name, result: ctrl.HandleUpload(s, name, errReader{err})}
		}
		defer f.Close()
		return uploadDoneMsg{name: name, result: ctrl.HandleUpload(s, name, f)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

// toggleEmbeddings checks or unchecks the box. Only checking it starts
// embedding creation.
func (m Model) toggleEmbeddings() (tea.Model, tea.Cmd) {
	if m.busy != "" {
		return m, nil
	}
	m.embedChecked = !m.embedChecked
	if !m.embedChecked {
		return m, nil
	}
	m.busy = "Embeddings are in process..."
	ctx, ctrl, s := m.ctx, m.ctrl, m.session
	run := func() tea.Msg {
		return embedDoneMsg{result: ctrl.RequestEmbeddingCreation(ctx, s)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if m.busy != "" || text == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.busy = "Responding..."
	ctx, ctrl, s := m.ctx, m.ctrl, m.session
	run := func() tea.Msg {
		return chatDoneMsg{result: ctrl.SendMessage(ctx, s, text)}
	}
	m.refreshChat()
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m *Model) resize() {
	w := m.columnWidth()
	m.input.Width = max(10, w-6)
	m.chat.Width = max(10, w-4)
	m.chat.Height = max(3, m.height-12)
	m.picker.Height = max(3, m.height-14)
	m.refreshChat()
}

func (m *Model) refreshChat() {
	m.chat.SetContent(renderHistory(m.session.History(), m.chat.Width))
	m.chat.GotoBottom()
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
