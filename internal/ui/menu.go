package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Action identifies one menu operation.
type Action int

const (
	ActionQuit Action = iota
	ActionDiagnose
	ActionRepairCache
	ActionInstallFont
	ActionRestoreDefaults
	ActionRepairScaling
	ActionSoftwareIssues
)

// Selection is the user's menu choice. FontPath is set only for
// ActionInstallFont.
type Selection struct {
	Action   Action
	FontPath string
}

type menuItem struct {
	action Action
	label  string
}

var menuItems = []menuItem{
	{ActionDiagnose, "Run full diagnostics"},
	{ActionRepairCache, "Repair font cache"},
	{ActionInstallFont, "Install a font"},
	{ActionRestoreDefaults, "Restore default fonts"},
	{ActionRepairScaling, "Repair DPI/scaling settings"},
	{ActionSoftwareIssues, "Show application-specific font issues"},
	{ActionQuit, "Quit"},
}

const (
	stateList = iota
	statePath
)

// menuModel is a bubbletea model: a cursor list, plus a text input stage for
// the font path when installing.
type menuModel struct {
	styles    Styles
	cursor    int
	state     int
	pathInput textinput.Model
	selection Selection
	done      bool
}

func newMenuModel(styles Styles) menuModel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/font.ttf"
	ti.CharLimit = 512
	return menuModel{styles: styles, pathInput: ti}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == statePath {
			var cmd tea.Cmd
			m.pathInput, cmd = m.pathInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.selection = Selection{Action: ActionQuit}
		m.done = true
		return m, tea.Quit
	}

	if m.state == statePath {
		if keyMsg.Type == tea.KeyEnter {
			m.selection = Selection{
				Action:   ActionInstallFont,
				FontPath: strings.TrimSpace(m.pathInput.Value()),
			}
			m.done = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "q":
		m.selection = Selection{Action: ActionQuit}
		m.done = true
		return m, tea.Quit
	case "enter":
		item := menuItems[m.cursor]
		if item.action == ActionInstallFont {
			m.state = statePath
			m.pathInput.Focus()
			return m, textinput.Blink
		}
		m.selection = Selection{Action: item.action}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m menuModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("fontdoctor") + "\n")
	b.WriteString(m.styles.Dim.Render("font diagnostics and repair") + "\n\n")

	if m.state == statePath {
		b.WriteString("Font file to install: " + m.pathInput.View() + "\n")
		b.WriteString(m.styles.Dim.Render("enter to confirm, esc to quit") + "\n")
		return b.String()
	}

	for i, item := range menuItems {
		cursor := "  "
		label := item.label
		if i == m.cursor {
			cursor = m.styles.Header.Render("> ")
			label = m.styles.Header.Render(label)
		}
		fmt.Fprintf(&b, "%s%s\n", cursor, label)
	}
	b.WriteString("\n" + m.styles.Dim.Render("up/down to move, enter to select, q to quit") + "\n")
	return b.String()
}

// RunMenu shows the interactive menu and returns the user's selection.
func RunMenu(styles Styles) (Selection, error) {
	p := tea.NewProgram(newMenuModel(styles))
	result, err := p.Run()
	if err != nil {
		return Selection{Action: ActionQuit}, err
	}
	final, ok := result.(menuModel)
	if !ok || !final.done {
		return Selection{Action: ActionQuit}, nil
	}
	return final.selection, nil
}
