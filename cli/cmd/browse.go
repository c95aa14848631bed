package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ewwc/config"
	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/widget"
)

// Browse opens an interactive listing of a document's windows, widgets and
// variables.
type Browse struct {
	File string `arg:"" help:"Configuration document or '-' for stdin" name:"file"`
}

// Run executes the browse command.
func (b *Browse) Run(ctx context.Context) error {
	doc, err := open(ctx, b.File)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(
		newBrowser(doc),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	).Run()

	return err
}

var (
	detailStyle = lipgloss.NewStyle().Padding(1, 2)
	headStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// entry is one browsable declaration.
type entry struct {
	kind   string
	name   string
	desc   string
	detail string
}

func (e entry) Title() string       { return e.name }
func (e entry) Description() string { return e.kind + ": " + e.desc }
func (e entry) FilterValue() string { return e.kind + " " + e.name }

// entries lists every declaration of cfg: windows, then widgets, then
// variables, each sorted by name.
func entries(cfg *config.Config) []list.Item {
	var items []list.Item

	for _, name := range cfg.WindowNames() {
		win, _ := cfg.Window(name)
		items = append(items, entry{
			kind: "window",
			name: name.String(),
			desc: fmt.Sprintf("%dx%d at %d,%d showing %s",
				win.Size[0], win.Size[1], win.Position[0], win.Position[1],
				win.Widget.Name),
			detail: fmt.Sprintf("size     %dx%d\nposition %d,%d\n\n%s",
				win.Size[0], win.Size[1], win.Position[0], win.Position[1],
				formatUse(win.Widget)),
		})
	}

	for _, name := range cfg.WidgetNames() {
		def, _ := cfg.Widget(name)

		desc := def.Structure.Name
		if def.Size != nil {
			desc += fmt.Sprintf(" (%dx%d)", def.Size[0], def.Size[1])
		}

		items = append(items, entry{
			kind:   "widget",
			name:   name,
			desc:   desc,
			detail: formatUse(def.Structure),
		})
	}

	defaults := cfg.DefaultVars()

	for _, name := range cfg.VarNames() {
		if v, ok := defaults[name]; ok {
			items = append(items, entry{
				kind:   "var",
				name:   name.String(),
				desc:   v.String(),
				detail: fmt.Sprintf("%s (%s)", v, v.Kind()),
			})

			continue
		}

		for _, sv := range cfg.ScriptVars() {
			if sv.Name != name {
				continue
			}

			desc := sv.Command
			if sv.Interval > 0 {
				desc = "every " + sv.Interval.String() + ": " + desc
			}

			items = append(items, entry{
				kind:   "script-var",
				name:   name.String(),
				desc:   desc,
				detail: fmt.Sprintf("interval %s\n\n%s", sv.Interval, sv.Command),
			})

			break
		}
	}

	return items
}

// formatUse renders a widget tree one node per line, children indented.
func formatUse(u widget.Use) string {
	var b strings.Builder

	var walk func(u widget.Use, depth int)
	walk = func(u widget.Use, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(u.Name)

		for _, k := range slices.Sorted(maps.Keys(u.Attrs)) {
			fmt.Fprintf(&b, " %s=%q", k, u.Attrs[k].String())
		}

		b.WriteByte('\n')

		for _, c := range u.Children {
			walk(c, depth+1)
		}
	}

	walk(u, 0)

	return strings.TrimSuffix(b.String(), "\n")
}

// browser is the Bubble Tea model for the browse command.
type browser struct {
	list   list.Model
	detail *entry
}

func newBrowser(doc document) browser {
	l := list.New(entries(doc.config), list.NewDefaultDelegate(), 0, 0)
	l.Title = pkg.Name + ": " + doc.path

	return browser{list: l}
}

func (m browser) Init() tea.Cmd { return nil }

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := detailStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

		return m, nil

	case tea.KeyMsg:
		if m.detail != nil {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit

			case "esc", "enter", "backspace", "q":
				m.detail = nil
			}

			return m, nil
		}

		if msg.String() == "enter" && m.list.FilterState() != list.Filtering {
			if e, ok := m.list.SelectedItem().(entry); ok {
				m.detail = &e
			}

			return m, nil
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m browser) View() string {
	if m.detail == nil {
		return detailStyle.Render(m.list.View())
	}

	return detailStyle.Render(
		headStyle.Render(m.detail.kind+" "+m.detail.name) + "\n\n" +
			m.detail.detail + "\n\n" +
			faintStyle.Render("esc: back"))
}
