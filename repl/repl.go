// Package repl implements the Read-Eval-Print Loop.
//
// It uses the Charm libraries (Bubbletea, Bubbles, and Lipgloss) for an
// interactive terminal interface with styled output and command history,
// adapted from the same REPL shape used for the language this module's
// authors previously shipped a compiler and VM for — only the evaluation
// backend (compiler+vm instead of a tree-walking evaluator) and the
// surface syntax it highlights have changed.
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dr8co/secd/interp"
	"github.com/dr8co/secd/lexer"
	"github.com/dr8co/secd/token"
)

const (
	// Prompt is the default prompt for the REPL.
	Prompt = "secd> "

	// ContPrompt is the continuation prompt used in multiline input mode.
	ContPrompt = "  ... "
)

// Options configures REPL presentation.
type Options struct {
	NoColor bool // Disable styled output
}

// Start initializes and runs the REPL.
func Start(options Options) {
	in, err := interp.New()
	if err != nil {
		fmt.Println("error loading prelude:", err)
		return
	}
	p := tea.NewProgram(initialModel(in, options))
	if _, err := p.Run(); err != nil {
		fmt.Println("error running program:", err)
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true)

	literalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	delimiterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9"))

	identifierStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))
)

var reservedWords = map[string]bool{
	"quote": true, "define": true, "define-macro": true,
	"lambda": true, "if": true, "begin": true,
}

// evalResultMsg reports the outcome of an asynchronous evaluation.
type evalResultMsg struct {
	output  string
	isError bool
	elapsed time.Duration
}

type historyEntry struct {
	input          string
	output         string
	isError        bool
	evaluationTime time.Duration
}

type model struct {
	textInput       textinput.Model
	history         []historyEntry
	interp          *interp.Interp
	evaluating      bool
	currentInput    string
	multilineBuffer string
	isMultiline     bool
	spinner         spinner.Model
	options         Options
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

func initialModel(in *interp.Interp, options Options) model {
	ti := textinput.New()
	ti.Placeholder = "(+ 1 2)"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		textInput: ti,
		interp:    in,
		spinner:   s,
		options:   options,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// isBalanced reports whether every paren in input is closed — the REPL
// keeps accumulating lines into the multiline buffer until this is true.
func isBalanced(input string) bool {
	depth := 0
	for _, r := range input {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// evalCmd runs one line (or accumulated buffer) through the shared Interp
// asynchronously, so the spinner can animate while it runs.
func evalCmd(input string, in *interp.Interp) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		result, err := in.Eval(input)
		elapsed := time.Since(start)
		if err != nil {
			return evalResultMsg{output: err.Error(), isError: true, elapsed: elapsed}
		}
		return evalResultMsg{output: result.Inspect(), elapsed: elapsed}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			input:          m.currentInput,
			output:         msg.output,
			isError:        msg.isError,
			evaluationTime: msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textInput.Value()
			if input == "" {
				if m.isMultiline && m.multilineBuffer != "" {
					return m.evaluate(m.multilineBuffer)
				}
				return m, nil
			}

			if m.isMultiline {
				m.multilineBuffer += "\n" + input
				m.textInput.SetValue("")
				if isBalanced(m.multilineBuffer) {
					return m.evaluate(m.multilineBuffer)
				}
				return m, nil
			}

			if !isBalanced(input) {
				m.isMultiline = true
				m.multilineBuffer = input
				m.textInput.SetValue("")
				return m, nil
			}

			return m.evaluate(input)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

func (m model) evaluate(input string) (tea.Model, tea.Cmd) {
	m.evaluating = true
	m.currentInput = input
	m.textInput.SetValue("")
	m.isMultiline = false
	m.multilineBuffer = ""
	return m, evalCmd(input, m.interp)
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " secd "))
	s.WriteString("\n\n")

	for _, entry := range m.history {
		lines := strings.Split(entry.input, "\n")
		for i, line := range lines {
			if i == 0 {
				s.WriteString(m.applyStyle(promptStyle, Prompt))
			} else {
				s.WriteString(m.applyStyle(promptStyle, ContPrompt))
			}
			s.WriteString(m.highlight(line))
			s.WriteString("\n")
		}

		if entry.isError {
			s.WriteString(m.applyStyle(errorStyle, entry.output))
		} else {
			s.WriteString(m.applyStyle(resultStyle, entry.output))
		}

		if entry.evaluationTime > 10*time.Millisecond {
			s.WriteString(m.applyStyle(historyStyle, fmt.Sprintf(" (%.2fs)", entry.evaluationTime.Seconds())))
		}
		s.WriteString("\n\n")
	}

	if m.evaluating {
		s.WriteString(m.applyStyle(promptStyle, Prompt))
		s.WriteString(m.highlight(m.currentInput))
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" evaluating...\n\n")
	}

	if m.isMultiline && !m.evaluating {
		s.WriteString(m.applyStyle(historyStyle, "continuing...\n"))
		s.WriteString(m.highlight(m.multilineBuffer))
		s.WriteString("\n")
	}

	if !m.evaluating {
		if m.isMultiline {
			m.textInput.Prompt = m.applyStyle(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.applyStyle(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	s.WriteString(m.applyStyle(historyStyle, "\nEsc or Ctrl+C/D to exit"))

	return s.String()
}

// highlight applies minimal token-based coloring: reserved words, literals,
// and parens get distinct styles, everything else is a plain identifier.
func (m model) highlight(src string) string {
	if m.options.NoColor {
		return src
	}
	l := lexer.New(src)
	var out strings.Builder
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		switch tok.Type {
		case token.LPAREN, token.RPAREN, token.DOT, token.QUOTE, token.QUASIQUOTE, token.UNQUOTE, token.UNQUOTE_SPLICING:
			out.WriteString(delimiterStyle.Render(tok.Literal))
		case token.INT, token.TRUE, token.FALSE:
			out.WriteString(literalStyle.Render(tok.Literal))
		case token.SYMBOL:
			if reservedWords[tok.Literal] {
				out.WriteString(keywordStyle.Render(tok.Literal))
			} else {
				out.WriteString(identifierStyle.Render(tok.Literal))
			}
		default:
			out.WriteString(tok.Literal)
		}
		out.WriteByte(' ')
	}
	return strings.TrimRight(out.String(), " ")
}
