// Package tui implements a terminal chat interface over the question
// answering pipeline using Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	youStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	answer domain.Answer
}

// errMsg carries a failed ask back into the update loop.
type errMsg struct {
	err error
}

// App is the Bubble Tea model for the chat interface.
type App struct {
	ask driving.AskService
	ctx context.Context

	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	waiting    bool
	ready      bool
}

// NewApp creates the chat application around the ask service.
func NewApp(ask driving.AskService) *App {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return &App{
		ask:      ask,
		ctx:      context.Background(),
		input:    ti,
		viewport: viewport.New(0, 0),
	}
}

// WithContext sets the context used for ask calls.
func (a *App) WithContext(ctx context.Context) {
	if ctx != nil {
		a.ctx = ctx
	}
}

// Init starts the cursor blink.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key, window and answer events.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.ready = true
		_, frameHeight := inputBoxStyle.GetFrameSize()
		reserved := 2 + frameHeight + 2 // header, input frame, status and spacer
		height := msg.Height - reserved
		if height < 3 {
			height = 3
		}
		a.viewport.Width = msg.Width
		a.viewport.Height = height
		a.input.Width = msg.Width - 6
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			if a.waiting {
				return a, nil
			}
			question := strings.TrimSpace(a.input.Value())
			if question == "" {
				return a, nil
			}
			a.transcript = append(a.transcript, youStyle.Render("You: ")+question)
			a.input.Reset()
			a.waiting = true
			a.refresh()
			return a, a.askCmd(question)
		}

	case answerMsg:
		a.waiting = false
		a.transcript = append(a.transcript, answerStyle.Render("Answer: ")+msg.answer.Text)
		if len(msg.answer.Sources) > 0 {
			a.transcript = append(a.transcript,
				sourceStyle.Render("Sources: "+strings.Join(msg.answer.Sources, ", ")))
		}
		a.transcript = append(a.transcript, "")
		a.refresh()
		return a, nil

	case errMsg:
		a.waiting = false
		a.transcript = append(a.transcript, errorStyle.Render("Error: "+msg.err.Error()), "")
		a.refresh()
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// View renders the chat layout.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	header := headerStyle.Render("Retrieva")
	status := "Enter to ask, Esc to quit."
	if a.waiting {
		status = "Thinking..."
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		header,
		a.viewport.View(),
		inputBoxStyle.Render(a.input.View()),
		sourceStyle.Render(status))
}

// askCmd runs the question off the update loop and reports back as a
// message.
func (a *App) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ask.Ask(a.ctx, question)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

// refresh re-renders the transcript into the viewport, pinned to the
// latest entry.
func (a *App) refresh() {
	if len(a.transcript) == 0 {
		a.viewport.SetContent("Ask anything about your documents.")
		return
	}
	a.viewport.SetContent(strings.Join(a.transcript, "\n"))
	a.viewport.GotoBottom()
}
