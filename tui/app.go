package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"checkin-server-go/attendance"
	"checkin-server-go/i18n"
	"checkin-server-go/models"
)

type focusArea int

const (
	focusClassYear focusArea = iota
	focusName
	focusStudentID
	focusList
	focusNewTab
	focusCount
)

type modalState string

const (
	modalNone    modalState = ""
	modalConfirm modalState = "confirm"
	modalAlert   modalState = "alert"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("250")).Foreground(lipgloss.Color("0"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("33")).Foreground(lipgloss.Color("15"))
	labelStyle     = lipgloss.NewStyle().Bold(true)
	focusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).BorderForeground(lipgloss.Color("203"))
)

// App is the bubbletea model for the multi-tab check-in board.
type App struct {
	ctx       context.Context
	board     *attendance.Board
	printer   *message.Printer
	csvQuote  bool
	exportDir string

	fields [3]string // classYear, name, studentID
	newTab string
	focus  focusArea
	cursor int

	modal     modalState
	modalText string
	onConfirm func() // runs the confirmed action
	status    string
}

// Options configures the TUI.
type Options struct {
	CSVQuote  bool
	ExportDir string // where CSV downloads are written; defaults to "."
}

// New creates the model. board must already be loaded.
func New(ctx context.Context, board *attendance.Board, printer *message.Printer, opts Options) *App {
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	a := &App{
		ctx:       ctx,
		board:     board,
		printer:   printer,
		csvQuote:  opts.CSVQuote,
		exportDir: opts.ExportDir,
	}
	if board.Active() == "" {
		a.focus = focusNewTab
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd { return nil }

// Update handles one key press
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	if key.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.modal {
	case modalAlert:
		a.closeModal()
		return a, nil
	case modalConfirm:
		switch key.String() {
		case "y", "Y", "enter":
			run := a.onConfirm
			a.closeModal()
			if run != nil {
				run()
			}
		case "n", "N", "esc":
			a.closeModal()
		}
		return a, nil
	}

	switch key.String() {
	case "esc":
		return a, tea.Quit
	case "tab":
		a.moveFocus(1)
		return a, nil
	case "shift+tab":
		a.moveFocus(-1)
		return a, nil
	case "enter":
		a.handleEnter()
		return a, nil
	}

	if a.focus == focusList {
		a.handleListKey(key.String())
		return a, nil
	}
	a.handleTextKey(key)
	return a, nil
}

func (a *App) moveFocus(step int) {
	for {
		a.focus = (a.focus + focusArea(step) + focusCount) % focusCount
		if a.board.Active() != "" || a.focus == focusNewTab {
			return
		}
	}
}

func (a *App) handleEnter() {
	switch a.focus {
	case focusNewTab:
		a.addTab()
	case focusClassYear, focusName, focusStudentID:
		a.submit()
	}
}

func (a *App) handleTextKey(key tea.KeyMsg) {
	target := a.textTarget()
	if target == nil {
		return
	}
	switch key.Type {
	case tea.KeyBackspace:
		r := []rune(*target)
		if len(r) > 0 {
			*target = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		*target += " "
	case tea.KeyRunes:
		*target += string(key.Runes)
	}
}

func (a *App) textTarget() *string {
	switch a.focus {
	case focusClassYear, focusName, focusStudentID:
		return &a.fields[a.focus]
	case focusNewTab:
		return &a.newTab
	}
	return nil
}

func (a *App) handleListKey(key string) {
	entries := a.board.Entries()
	switch key {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(entries)-1 {
			a.cursor++
		}
	case "left", "h":
		a.selectOffset(-1)
	case "right", "l":
		a.selectOffset(1)
	case "d":
		if len(entries) > 0 {
			idx := a.cursor
			a.confirm(func(c attendance.Confirmer) (bool, error) {
				return a.board.DeleteEntry(a.ctx, idx, c)
			})
		}
	case "D":
		if len(entries) > 0 {
			a.confirm(func(c attendance.Confirmer) (bool, error) {
				return a.board.DeleteAll(a.ctx, c)
			})
		}
	case "x":
		tab := a.board.Active()
		a.confirm(func(c attendance.Confirmer) (bool, error) {
			return a.board.DeleteTab(a.ctx, tab, c)
		})
	case "e":
		a.exportCSV()
	}
}

func (a *App) selectOffset(step int) {
	tabs := a.board.Tabs()
	if len(tabs) < 2 {
		return
	}
	cur := 0
	for i, t := range tabs {
		if t == a.board.Active() {
			cur = i
		}
	}
	next := tabs[(cur+step+len(tabs))%len(tabs)]
	if err := a.board.Select(a.ctx, next); err != nil {
		a.alert(err)
		return
	}
	a.cursor = 0
}

func (a *App) addTab() {
	added, err := a.board.AddTab(a.ctx, a.newTab)
	if err != nil {
		a.alert(err)
		return
	}
	if added {
		a.newTab = ""
		a.cursor = 0
		a.focus = focusClassYear
	}
}

func (a *App) submit() {
	form := models.EntryForm{ClassYear: a.fields[0], Name: a.fields[1], StudentID: a.fields[2]}
	entry, err := a.board.Submit(a.ctx, form)
	if err != nil {
		a.alert(err)
		return
	}
	a.fields = [3]string{}
	a.focus = focusClassYear
	a.status = fmt.Sprintf("%s %s %s %s", entry.ClassYear, entry.Name, entry.StudentID, entry.Timestamp)
}

func (a *App) exportCSV() {
	exp, err := a.board.ExportCSV(a.csvQuote)
	if err != nil {
		a.alert(err)
		return
	}
	path := filepath.Join(a.exportDir, filepath.Base(exp.FileName))
	if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
		a.alert(err)
		return
	}
	a.status = a.printer.Sprintf(i18n.ExportedKey, path)
}

// confirm asks op for its prompt without confirming, then shows the prompt
// and reruns op confirmed if the user says yes.
func (a *App) confirm(op func(attendance.Confirmer) (bool, error)) {
	var prompt string
	_, err := op(attendance.ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))
	if err != nil {
		a.alert(err)
		return
	}
	a.modal = modalConfirm
	a.modalText = prompt
	a.onConfirm = func() {
		if _, err := op(attendance.Confirmed); err != nil {
			a.alert(err)
			return
		}
		if n := len(a.board.Entries()); a.cursor >= n {
			a.cursor = max(n-1, 0)
		}
		if a.board.Active() == "" {
			a.focus = focusNewTab
		}
	}
}

func (a *App) alert(err error) {
	text, ok := attendance.AlertText(a.printer, err)
	if !ok {
		text = err.Error()
	}
	a.modal = modalAlert
	a.modalText = text
}

func (a *App) closeModal() {
	a.modal = modalNone
	a.modalText = ""
	a.onConfirm = nil
}

// View renders the board, form and any open modal
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.printer.Sprintf(i18n.TitleKey)))
	b.WriteString("\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	if a.board.Active() != "" {
		b.WriteString(a.renderForm())
		b.WriteString("\n")
		b.WriteString(a.renderList())
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(mutedStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("tab: focus • enter: submit • ←/→: tab • d/D: delete • x: delete tab • e: CSV • esc: quit"))

	if a.modal != modalNone {
		hint := "(y/n)"
		if a.modal == modalAlert {
			hint = "(any key)"
		}
		b.WriteString("\n\n")
		b.WriteString(modalStyle.Render(a.modalText + "\n" + mutedStyle.Render(hint)))
	}
	return b.String()
}

func (a *App) renderTabs() string {
	var parts []string
	for _, t := range a.board.Tabs() {
		if t == a.board.Active() {
			parts = append(parts, activeTabStyle.Render(t))
		} else {
			parts = append(parts, tabStyle.Render(t))
		}
	}
	input := a.newTab
	if input == "" && a.focus != focusNewTab {
		input = mutedStyle.Render(a.printer.Sprintf(i18n.NewTabPlaceholderKey))
	}
	parts = append(parts, a.decorate(focusNewTab, "["+input+"]"))
	return strings.Join(parts, " ")
}

func (a *App) renderForm() string {
	labels := []string{
		a.printer.Sprintf(i18n.ClassYearLabelKey),
		a.printer.Sprintf(i18n.NameLabelKey),
		a.printer.Sprintf(i18n.StudentIDLabelKey),
	}
	var b strings.Builder
	for i, label := range labels {
		b.WriteString(labelStyle.Render(label + "："))
		b.WriteString(a.decorate(focusArea(i), a.fields[i]+"_"))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderList() string {
	entries := a.board.Entries()
	if len(entries) == 0 {
		return mutedStyle.Render(a.printer.Sprintf(i18n.EmptyListKey))
	}
	var b strings.Builder
	for i, e := range entries {
		line := fmt.Sprintf("%s %s %s", e.ClassYear, e.Name, e.StudentID)
		if a.focus == focusList && i == a.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) decorate(area focusArea, s string) string {
	if a.focus == area {
		return focusStyle.Render(s)
	}
	return s
}
