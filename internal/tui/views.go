package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docchat/internal/session"
)

var pageNames = [pageCount]string{"Home", "Chatbot", "Contact"}

// View renders the tab bar, the current page and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var body string
	switch m.page {
	case pageChatbot:
		body = m.chatbotView()
	case pageContact:
		body = contactView()
	default:
		body = m.homeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.tabs(), body, m.footer())
}

func (m Model) tabs() string {
	parts := make([]string, 0, len(pageNames))
	for i, name := range pageNames {
		label := fmt.Sprintf("F%d %s", i+1, name)
		if page(i) == m.page {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, inactiveTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) footer() string {
	help := "f1/f2/f3 or ctrl+n/ctrl+p: switch page • ctrl+c: quit"
	if m.page == pageChatbot {
		help = "tab: next panel • space: toggle checkbox • enter: select/send • " + help
	}
	line := mutedStyle.Render(help)
	if m.busy != "" {
		line = m.spinner.View() + " " + m.busy + "\n" + line
	}
	return line
}

func (m Model) homeView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Document Buddy"))
	sb.WriteString("\n\n")
	sb.WriteString("Welcome to Document Buddy, your personal document assistant.\n\n")
	sb.WriteString("  • Upload Documents: pick a PDF from disk.\n")
	sb.WriteString("  • Summarize: get a concise summary when its embeddings are created.\n")
	sb.WriteString("  • Chat: ask questions answered from the document.\n\n")

	s := m.session
	sb.WriteString(headerStyle.Render("Session"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  State:    %s\n", s.State())
	if doc, ok := s.Document(); ok {
		fmt.Fprintf(&sb, "  Document: %s (%d bytes)\n", doc.Name, doc.Size)
	} else {
		sb.WriteString("  Document: none\n")
	}
	fmt.Fprintf(&sb, "  Messages: %d\n", len(s.History()))
	return pageBodyStyle.Render(sb.String())
}

func contactView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Contact Us"))
	sb.WriteString("\n\n")
	sb.WriteString("We'd love to hear from you! Whether you have a question, feedback,\n")
	sb.WriteString("or want to contribute, feel free to reach out.\n\n")
	sb.WriteString("  • Email:  developer@example.com\n")
	sb.WriteString("  • GitHub: open an issue or a pull request on the repository\n")
	return pageBodyStyle.Render(sb.String())
}

func (m Model) chatbotView() string {
	w := m.columnWidth()
	upload := m.panel(focusPicker, w, m.uploadPanel())
	embed := m.panel(focusEmbed, w, m.embedPanel())
	chat := m.panel(focusChat, w, m.chatPanel())
	if m.width >= 3*w+6 {
		return lipgloss.JoinHorizontal(lipgloss.Top, upload, embed, chat)
	}
	return lipgloss.JoinVertical(lipgloss.Left, upload, embed, chat)
}

func (m Model) columnWidth() int {
	if m.width >= 90 {
		return (m.width - 6) / 3
	}
	return max(30, m.width-4)
}

func (m Model) panel(f focus, width int, content string) string {
	style := panelStyle
	if m.focus == f {
		style = focusedPanel
	}
	return style.Width(width).Render(content)
}

func (m Model) uploadPanel() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Upload Document"))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(m.picker.CurrentDirectory))
	sb.WriteString("\n")
	sb.WriteString(m.picker.View())
	if m.uploadResult != nil {
		sb.WriteString("\n")
		sb.WriteString(renderResult(*m.uploadResult))
	}
	if doc, ok := m.session.Document(); ok {
		fmt.Fprintf(&sb, "\nFilename: %s\nFile Size: %d bytes", doc.Name, doc.Size)
	}
	return sb.String()
}

func (m Model) embedPanel() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Embeddings"))
	sb.WriteString("\n")
	box := "[ ]"
	if m.embedChecked {
		box = "[x]"
	}
	sb.WriteString(box + " Create Embeddings")
	if m.embedResult != nil {
		sb.WriteString("\n\n")
		sb.WriteString(renderResult(*m.embedResult))
	}
	return sb.String()
}

func (m Model) chatPanel() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Chat with Document"))
	sb.WriteString("\n")
	if !m.can(session.ActionSendMessage) {
		sb.WriteString(infoStyle.Render("Please upload a PDF and create embeddings to start chatting."))
		return sb.String()
	}
	sb.WriteString(m.chat.View())
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	return sb.String()
}

func renderResult(r session.Result) string {
	switch r.Kind {
	case session.KindOK:
		return successStyle.Render(r.Message)
	case session.KindPrecondition:
		return warningStyle.Render(r.Message)
	default:
		return errorStyle.Render(r.Message)
	}
}

func renderHistory(history []session.Message, width int) string {
	if len(history) == 0 {
		return mutedStyle.Render("No messages yet.")
	}
	body := lipgloss.NewStyle().Width(max(10, width))
	var sb strings.Builder
	for i, msg := range history {
		if i > 0 {
			sb.WriteString("\n")
		}
		if msg.Role == session.RoleUser {
			sb.WriteString(userStyle.Render("You"))
		} else {
			sb.WriteString(assistStyle.Render("Assistant"))
		}
		sb.WriteString("\n")
		sb.WriteString(body.Render(msg.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}
