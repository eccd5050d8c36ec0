// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driving/tui/keymap"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driving/tui/messages"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driving/tui/styles"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driving"
)

// chromeHeight is the number of lines taken by everything but the
// conversation: title, blank, input box (3), status and help lines.
const chromeHeight = 8

type exchange struct {
	question string
	answer   *domain.Answer
	err      error
}

// View is the ask view: a conversation log above a question input.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model

	queryService driving.QueryService
	ctx          context.Context

	history []exchange
	busy    bool
	pending string

	width  int
	height int
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	input := textinput.New()
	input.Placeholder = "Ask a question about your documents"
	input.Prompt = "> "
	input.CharLimit = 1000
	input.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(s.Spinner),
	)

	v := &View{
		styles:       s,
		keymap:       km,
		input:        input,
		spinner:      sp,
		viewport:     viewport.New(80, 24-chromeHeight),
		help:         help.New(),
		queryService: queryService,
		ctx:          context.Background(),
	}
	v.SetDimensions(80, 24)
	return v
}

// WithContext sets the context used for queries.
func (v *View) WithContext(ctx context.Context) *View {
	if ctx != nil {
		v.ctx = ctx
	}
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// SetDimensions resizes the view.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	v.input.Width = max(width-8, 10)
	v.viewport.Width = width
	v.viewport.Height = max(height-chromeHeight, 3)
	v.refresh()
}

// Busy reports whether a question is being answered.
func (v *View) Busy() bool {
	return v.busy
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		v.busy = false
		v.pending = ""
		v.history = append(v.history, exchange{question: msg.Question, answer: msg.Answer, err: msg.Err})
		v.refresh()
		v.viewport.GotoBottom()
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Ask):
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.busy {
			return v, nil
		}
		v.busy = true
		v.pending = question
		v.input.Reset()
		return v, tea.Batch(v.spinner.Tick, v.ask(question))

	case key.Matches(msg, v.keymap.ScrollUp):
		v.viewport.SetYOffset(v.viewport.YOffset - v.viewport.Height/2)
		return v, nil

	case key.Matches(msg, v.keymap.ScrollDown):
		v.viewport.SetYOffset(v.viewport.YOffset + v.viewport.Height/2)
		return v, nil

	case key.Matches(msg, v.keymap.Clear):
		v.history = nil
		v.refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask runs the query off the UI goroutine.
func (v *View) ask(question string) tea.Cmd {
	queryService := v.queryService
	ctx := v.ctx
	return func() tea.Msg {
		answer, err := queryService.Answer(ctx, question)
		return messages.AnswerCompleted{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) refresh() {
	v.viewport.SetContent(v.renderHistory())
}

func (v *View) renderHistory() string {
	if len(v.history) == 0 {
		return v.styles.Muted.Render("No questions yet. Answers cite the chunks they were built from.")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-2, 20))
	var b strings.Builder
	for i, ex := range v.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(v.styles.Question.Render("Q: " + ex.question))
		b.WriteString("\n")

		if ex.err != nil {
			b.WriteString(v.styles.Error.Render(wrap.Render("Error: " + ex.err.Error())))
			continue
		}
		if ex.answer == nil {
			b.WriteString(v.styles.Muted.Render("(no answer)"))
			continue
		}

		b.WriteString(v.styles.Answer.Render(wrap.Render(strings.TrimSpace(ex.answer.Text))))
		if len(ex.answer.Sources) > 0 {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render("Sources:"))
			for _, src := range ex.answer.Sources {
				b.WriteString("\n  ")
				b.WriteString(v.styles.Source.Render(src))
			}
		}
	}
	return b.String()
}

// View renders the view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("pdfrag - ask your documents"))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")

	if v.busy {
		b.WriteString(fmt.Sprintf("%s %s", v.spinner.View(), v.styles.Muted.Render("Answering: "+v.pending)))
	}
	b.WriteString("\n")

	b.WriteString(v.styles.InputField.Render(v.input.View()))
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(v.help.ShortHelpView(v.keymap.ShortHelp())))

	return b.String()
}
