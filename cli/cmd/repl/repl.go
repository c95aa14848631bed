package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ewwc/log"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help               Print this help
  vars               List variables and their values
  set <name> <val>   Assign a variable
  reload             Recompile the document and rebuild variables
  clear              Clear screen
  quit               Exit

Usage:
  Type an attribute expression to evaluate it; {{ }} is optional
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between eval and command modes
  Use Up/Down for history
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

// inputMode is the interpretation of a submitted line.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	kindStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx        context.Context
	session    *Session
	logger     log.Logger
	input      textinput.Model
	history    *History
	historyIdx int
	matches    fuzzy.Matches
	wordStart  int
	wordEnd    int
	suggIdx    int
	tabActive  bool
	preTabText string
	preTabPos  int
	width      int
	quitting   bool
	mode       inputMode
	stash      [2]string // unsubmitted input per mode
}

// Run starts an interactive session. History is kept in cacheDir when it is
// not empty.
func Run(
	ctx context.Context,
	session *Session,
	cacheDir string,
	logger log.Logger,
	opts ...tea.ProgramOption,
) error {
	var history *History
	if cacheDir != "" {
		history = NewHistory(filepath.Join(cacheDir, baseHistory))
	} else {
		history = NewHistory("")
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("error", err.Error()))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()))

	p := tea.NewProgram(
		newModel(ctx, session, history, logger),
		append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...,
	)

	_, err := p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		session:    session,
		logger:     logger,
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())))

	case strings.TrimSpace(m.input.Value()) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render(
				"Type an expression or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render(
				"Type: " + strings.Join(ctrlCommands, ", ") +
					" (press Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(m.historyIdx - 1), nil

	case tea.KeyDown:
		return m.recall(m.historyIdx + 1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabPos)
			m.refreshMatches()

			return m, nil
		}

		return m.switchMode(1 - m.mode), nil
	}

	var cmd tea.Cmd

	m.tabActive = false

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycle steps through completion candidates in direction dir.
func (m model) cycle(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabPos = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord substitutes s for the current word and moves the cursor after it.
func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refreshMatches recomputes completions unless the user is tab-cycling.
func (m *model) refreshMatches() {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1
}

// recall loads history entry i into the input, switching mode to match.
// Moving past the newest entry clears the input.
func (m model) recall(i int) model {
	if i < 0 || i > m.history.Len() {
		return m
	}

	m.tabActive = false

	entry, err := m.history.Entry(i)
	if err != nil {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches()

		return m
	}

	if entry.Mode != m.mode {
		m = m.switchMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	m.refreshMatches()

	return m
}

// switchMode changes mode, keeping each mode's unsubmitted input.
func (m model) switchMode(mode inputMode) model {
	m.stash[m.mode] = m.input.Value()
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.stash[mode])
	m.input.CursorEnd()
	m.refreshMatches()

	return m
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.stash = [2]string{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctx, "history not saved",
			slog.String("error", err.Error()))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.execute(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	result, err := m.session.Eval(input)
	if err != nil {
		m.logger.TraceContext(m.ctx, "repl eval failed",
			slog.String("input", input),
			slog.String("error", err.Error()))

		return m, tea.Sequence(echo,
			tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(
		resultStyle.Render(result.String())+" "+
			kindStyle.Render(result.Kind().String())))
}

func (m model) execute(input string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	name, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	m.logger.TraceContext(m.ctx, "repl command",
		slog.String("command", name),
		slog.String("args", args))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listVars()))

	case "s", "set":
		varName, raw, ok := strings.Cut(args, " ")
		if !ok || varName == "" {
			return m, tea.Sequence(echo, tea.Println(
				errorStyle.Render(ErrUsage.Error()+": set <name> <value>")))
		}

		m.session.Set(varName, strings.TrimSpace(raw))

		return m, echo

	case "r", "reload":
		if err := m.session.Reload(m.ctx); err != nil {
			return m, tea.Sequence(echo,
				tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		return m, tea.Sequence(echo,
			tea.Println(resultStyle.Render("✔ reloaded")))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("Unknown command: "+name+" (try 'help')")))
	}
}

func (m model) listVars() string {
	var b strings.Builder

	for _, name := range m.session.Names() {
		v, _ := m.session.Lookup(name)
		fmt.Fprintf(&b, "  %s = %s %s\n",
			name, resultStyle.Render(v.String()), kindStyle.Render(v.Kind().String()))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
