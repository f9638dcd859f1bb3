// Package tui is the terminal front end: a question box, an output viewport
// accumulating answers, and save/clear actions. The answer pipeline runs as
// a tea.Cmd so a slow model call never blocks the event loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/OoVTo/foodrag/internal/domain"
)

const rule = "--------------------------------------------------------------------------------"
const banner = "================================================================================"

// AnswerPort is the TUI-facing subset of the pipeline.
type AnswerPort interface {
	Answer(ctx context.Context, question string, topK int) (*domain.AnswerResult, error)
}

// Model is the Bubble Tea model for the application.
type Model struct {
	pipeline AnswerPort
	topK     int
	input    textinput.Model
	viewport viewport.Model
	output   string
	status   string
	busy     bool
	ready    bool
}

type answerMsg struct {
	result *domain.AnswerResult
	err    error
}

type savedMsg struct {
	path string
	err  error
}

// New creates a TUI model over the answer pipeline.
func New(pipeline AnswerPort, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		pipeline: pipeline,
		topK:     topK,
		input:    ti,
		viewport: vp,
		status:   "Ready. Enter asks, Ctrl+S saves, Ctrl+L clears.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and pipeline events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, oh := outputBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - oh
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderOutput())
		return m, nil

	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = describeError(msg.err)
			return m, nil
		}
		m.output += renderResult(msg.result)
		m.status = "Ready"
		m.input.SetValue("")
		m.viewport.SetContent(m.renderOutput())
		m.viewport.GotoBottom()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "Save failed: " + msg.err.Error()
		} else {
			m.status = "Saved to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				m.status = "Please enter a question"
				return m, nil
			}
			m.busy = true
			m.status = "Retrieving documents and generating answer..."
			return m, m.askCmd(question)
		case "ctrl+s":
			if m.output == "" {
				m.status = "Nothing to save yet"
				return m, nil
			}
			return m, saveCmd(m.output)
		case "ctrl+l":
			m.output = ""
			m.viewport.SetContent(m.renderOutput())
			m.status = "Output cleared"
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the layout: header, output viewport, input box, status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("RAG Editor - Ask Questions")
	output := outputBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + output + "\n" + input + "\n" + status
}

// Output returns the accumulated output text.
func (m Model) Output() string { return m.output }

func (m Model) askCmd(question string) tea.Cmd {
	pipeline, topK := m.pipeline, m.topK
	return func() tea.Msg {
		result, err := pipeline.Answer(context.Background(), question, topK)
		return answerMsg{result: result, err: err}
	}
}

func saveCmd(output string) tea.Cmd {
	return func() tea.Msg {
		path := fmt.Sprintf("foodrag-output-%s.txt", time.Now().Format("20060102-150405"))
		if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{path: path}
	}
}

func (m Model) renderOutput() string {
	if m.output == "" {
		return "No answers yet."
	}
	return m.output
}

// renderResult formats one answered question the way the export file should
// read: question banner, numbered sources with ids, then the answer.
func renderResult(r *domain.AnswerResult) string {
	var b strings.Builder
	b.WriteString(banner + "\n")
	b.WriteString("Question: " + r.Question + "\n")
	b.WriteString(banner + "\n\n")
	b.WriteString("Retrieved Documents:\n")
	b.WriteString(rule + "\n")
	for i, src := range r.Sources {
		b.WriteString(fmt.Sprintf("\nSource %d (ID: %s):\n    %s\n", i+1, src.ID, src.Text))
	}
	b.WriteString("\n" + rule + "\n")
	b.WriteString("\nAnswer:\n" + rule + "\n")
	b.WriteString(r.Answer)
	b.WriteString("\n" + rule + "\n\n")
	return b.String()
}

// describeError turns a pipeline failure into a status message that tells
// the user which service failed and how.
func describeError(err error) string {
	var se *domain.ServiceError
	if errors.As(err, &se) {
		switch se.Kind {
		case domain.KindUnreachable:
			return fmt.Sprintf("Error: cannot reach the %s service. Is Ollama running?", se.Service)
		case domain.KindTimeout:
			return fmt.Sprintf("Error: the %s service timed out", se.Service)
		default:
			return fmt.Sprintf("Error: the %s service failed: %v", se.Service, se.Err)
		}
	}
	return "Error: " + err.Error()
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	outputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
