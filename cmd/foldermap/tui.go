package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hayeah/foldermap"
	"github.com/hayeah/foldermap/internal/logging"
	"github.com/hayeah/foldermap/internal/metrics"
	"github.com/hayeah/foldermap/internal/opener"
	setpkg "github.com/hayeah/foldermap/internal/set"
	"github.com/hayeah/foldermap/internal/treeindex"
	"github.com/sahilm/fuzzy"
	"golang.org/x/term"
)

const (
	statusReady    = "Listo"
	statusDuration = 5 * time.Second
)

// TuiCmd contains the arguments for the 'tui' subcommand
type TuiCmd struct {
	Root string `arg:"positional" help:"Directory to browse (default: current directory)"`
}

// row is one visible line of the tree pane.
type row struct {
	node  treeindex.Node
	depth int
}

type previewMsg struct {
	gen     int
	text    string
	err     error
	summary metrics.Summary
}

type exportDoneMsg struct {
	path string
	err  error
}

type openDoneMsg struct {
	path string
	err  error
}

type statusResetMsg struct {
	gen int
}

// inputMode says which text input, if any, owns the keyboard.
type inputMode int

const (
	inputNone inputMode = iota
	inputFilter
	inputRoot
)

// model is our Bubble Tea model, holding everything needed for the TUI.
type model struct {
	session *foldermap.Session

	// Tree pane
	rows     []row
	visible  []row
	expanded *setpkg.Set[treeindex.NodeID]
	cursor   int
	list     viewport.Model

	// Text inputs
	mode      inputMode
	filter    textinput.Model
	rootInput textinput.Model

	// Preview pane
	preview     viewport.Model
	showPreview bool
	previewText string
	previewErr  error
	previewGen  int
	summary     metrics.Summary

	// Export
	spin       spinner.Model
	exporting  bool
	lastExport string

	status    string
	statusGen int
	showHelp  bool

	width, height int
	ready         bool

	// startup holds the commands queued before the program runs.
	startup tea.Cmd

	copy func(string) error
	open func(string) error
}

func newModel(session *foldermap.Session) model {
	filter := textinput.New()
	filter.Placeholder = "Type to fuzzy-search..."
	filter.Prompt = "/ "
	filter.CharLimit = 0

	rootInput := textinput.New()
	rootInput.Placeholder = "Path of the folder to map"
	rootInput.Prompt = "Carpeta: "
	rootInput.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		session:     session,
		expanded:    setpkg.NewSet[treeindex.NodeID](),
		list:        viewport.New(0, 0),
		filter:      filter,
		rootInput:   rootInput,
		preview:     viewport.New(0, 0),
		showPreview: true,
		spin:        sp,
		status:      statusReady,
		copy:        clipboard.WriteAll,
		open:        opener.Open,
	}
	m.rebuildRows()
	return m
}

// runTUI starts the interface on root. An unreadable root leaves the
// interface running with an error status so another root can be chosen.
func runTUI(cmd TuiCmd, cfg foldermap.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive browser needs a terminal; use 'foldermap tree' or 'foldermap export'")
	}

	logger, err := logging.ForTUI(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	session, err := foldermap.BuildSession(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up session: %w", err)
	}

	m := newModel(session)
	m.startup = tea.Batch(m.selectRoot(rootOrCwd(cmd.Root)), m.previewCmd())

	_, err = tea.NewProgram(m).Run()
	return err
}

// Init is the first function called by Bubble Tea.
func (m model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.startup)
}

// Update is called when events occur (key presses, etc.). We handle them here,
// then return the updated model and an optional command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		if !m.ready {
			m.ready = true
			m.updateListContent()
			m.updatePreviewContent()
		}
		return m, nil

	case previewMsg:
		if msg.gen != m.previewGen {
			// a newer preview is on its way
			return m, nil
		}
		m.previewText, m.previewErr, m.summary = msg.text, msg.err, msg.summary
		m.updatePreviewContent()
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			return m, m.setStatus("Error: " + msg.err.Error())
		}
		m.lastExport = msg.path
		return m, m.setStatus("Archivo generado: " + msg.path)

	case openDoneMsg:
		if msg.err != nil {
			return m, m.setStatus("Error: " + msg.err.Error())
		}
		return m, nil

	case statusResetMsg:
		if msg.gen == m.statusGen {
			m.status = statusReady
		}
		return m, nil

	case spinner.TickMsg:
		if !m.exporting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case inputFilter:
			return m.updateFilter(msg)
		case inputRoot:
			return m.updateRootInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up":
		m.moveCursor(-1)
	case "down":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-max(m.list.Height/2, 1))
	case "pgdown":
		m.moveCursor(max(m.list.Height/2, 1))
	case "home":
		m.moveCursor(-len(m.visible))
	case "end":
		m.moveCursor(len(m.visible))

	case "right", "enter":
		return m, m.expandCurrent()
	case "left":
		m.collapseCurrent()

	case " ":
		return m, m.changeCurrent(func(id treeindex.NodeID) error {
			_, err := m.session.Toggle(id)
			return err
		})
	case "a":
		return m, m.changeCurrent(func(id treeindex.NodeID) error {
			return m.session.SetIncluded(id, true, true)
		})
	case "x":
		return m, m.changeCurrent(func(id treeindex.NodeID) error {
			return m.session.SetIncluded(id, false, true)
		})
	case "ctrl+a":
		m.session.SetAll(true, true)
		return m, m.afterChange()
	case "ctrl+q":
		m.session.SetAll(false, true)
		return m, m.afterChange()

	case "E":
		m.session.Index.Walk(func(n treeindex.Node, depth int) bool {
			if n.IsDir() && n.Discovered {
				m.expanded.Add(n.ID)
			}
			return true
		})
		m.rebuildRows()
	case "C":
		m.expanded.Clear()
		m.rebuildRows()

	case "/":
		m.mode = inputFilter
		m.filter.Focus()
		return m, textinput.Blink
	case "o":
		m.mode = inputRoot
		m.rootInput.SetValue(m.session.Root())
		m.rootInput.CursorEnd()
		m.rootInput.Focus()
		return m, textinput.Blink

	case "p":
		m.showPreview = !m.showPreview
		m.layout()
	case "c":
		if err := m.copy(m.previewText); err != nil {
			return m, m.setStatus("Error: " + err.Error())
		}
		return m, m.setStatus("Vista previa copiada al portapapeles")

	case "g", "f5":
		return m, m.startExport()
	case "O":
		if m.lastExport == "" {
			return m, m.setStatus("Todavía no se ha generado ningún archivo")
		}
		return m, m.openCmd(m.lastExport)

	case "?":
		m.showHelp = true
	}
	return m, nil
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		m.mode = inputNone
		m.filter.Blur()
		m.refilter()
		return m, nil
	case "enter":
		m.mode = inputNone
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refilter()
	return m, cmd
}

func (m model) updateRootInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = inputNone
		m.rootInput.Blur()
		return m, nil
	case "enter":
		m.mode = inputNone
		m.rootInput.Blur()
		path := strings.TrimSpace(m.rootInput.Value())
		if path == "" {
			return m, m.setStatus("¡Seleccione una carpeta primero!")
		}
		status := m.selectRoot(path)
		return m, tea.Batch(status, m.previewCmd())
	}

	var cmd tea.Cmd
	m.rootInput, cmd = m.rootInput.Update(msg)
	return m, cmd
}

// selectRoot replaces the session and resets the tree pane.
func (m *model) selectRoot(path string) tea.Cmd {
	m.expanded.Clear()
	m.cursor = 0
	m.filter.SetValue("")
	_, err := m.session.SelectRoot(path)
	m.rebuildRows()
	m.previewText, m.previewErr, m.summary = "", nil, metrics.Summary{}
	m.updatePreviewContent()
	if err != nil {
		return m.setStatus("Error: " + err.Error())
	}
	return m.setStatus("Carpeta seleccionada: " + m.session.Root())
}

func (m *model) current() (treeindex.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return treeindex.Node{}, false
	}
	return m.visible[m.cursor].node, true
}

func (m *model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.updateListContent()
	m.ensureCursorVisible()
}

func (m *model) expandCurrent() tea.Cmd {
	n, ok := m.current()
	if !ok || !n.IsDir() {
		return nil
	}
	var status tea.Cmd
	if !n.Discovered {
		if _, err := m.session.Expand(n.ID); err != nil {
			status = m.setStatus("Error: " + err.Error())
		}
	}
	m.expanded.Add(n.ID)
	m.rebuildRows()
	return status
}

// collapseCurrent folds an expanded directory, or moves to the parent row.
func (m *model) collapseCurrent() {
	n, ok := m.current()
	if !ok {
		return
	}
	if n.IsDir() && m.expanded.Contains(n.ID) {
		m.expanded.Remove(n.ID)
		m.rebuildRows()
		return
	}
	parent, ok := m.session.Index.Parent(n.ID)
	if !ok {
		return
	}
	for i, r := range m.visible {
		if r.node.ID == parent {
			m.cursor = i
			break
		}
	}
	m.updateListContent()
	m.ensureCursorVisible()
}

func (m *model) changeCurrent(change func(id treeindex.NodeID) error) tea.Cmd {
	n, ok := m.current()
	if !ok {
		return nil
	}
	if err := change(n.ID); err != nil {
		return m.setStatus("Error: " + err.Error())
	}
	return m.afterChange()
}

// afterChange refreshes the rows and schedules a new preview.
func (m *model) afterChange() tea.Cmd {
	m.rebuildRows()
	return m.previewCmd()
}

// previewCmd renders from a snapshot taken now. Results from older
// generations are dropped when they arrive.
func (m *model) previewCmd() tea.Cmd {
	m.previewGen++
	gen := m.previewGen
	root := m.session.Root()
	if root == "" {
		return nil
	}
	pred := m.session.Predicate()
	renderer, counter := m.session.Renderer, m.session.Counter

	return func() tea.Msg {
		text, err := renderer.Render(root, pred)
		if err != nil {
			return previewMsg{gen: gen, err: err}
		}
		return previewMsg{gen: gen, text: text, summary: metrics.Summarize(text, counter)}
	}
}

func (m *model) startExport() tea.Cmd {
	if m.session.Root() == "" {
		return m.setStatus("¡Seleccione una carpeta primero!")
	}
	if m.exporting {
		return m.setStatus("Ya hay una exportación en curso")
	}
	m.exporting = true
	m.status = "Generando archivo..."
	// Invalidate any pending reset so it cannot clear the message mid-export.
	m.statusGen++
	return tea.Batch(m.spin.Tick, m.exportCmd())
}

func (m *model) exportCmd() tea.Cmd {
	ch := m.session.ExportAsync("")
	return func() tea.Msg {
		res := <-ch
		return exportDoneMsg{path: res.Path, err: res.Err}
	}
}

func (m *model) openCmd(path string) tea.Cmd {
	open := m.open
	return func() tea.Msg {
		return openDoneMsg{path: path, err: open(path)}
	}
}

// setStatus shows msg until a newer status replaces it or the timer fires.
func (m *model) setStatus(msg string) tea.Cmd {
	m.status = msg
	m.statusGen++
	gen := m.statusGen
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusResetMsg{gen: gen}
	})
}

// rebuildRows flattens the expanded part of the index.
func (m *model) rebuildRows() {
	m.rows = m.rows[:0]
	m.session.Index.Walk(func(n treeindex.Node, depth int) bool {
		m.rows = append(m.rows, row{node: n, depth: depth})
		return m.expanded.Contains(n.ID)
	})
	m.refilter()
}

// refilter keeps the rows whose relative path fuzzy matches the filter,
// in tree order.
func (m *model) refilter() {
	pattern := m.filter.Value()
	if pattern == "" {
		m.visible = m.rows
	} else {
		paths := make([]string, len(m.rows))
		for i, r := range m.rows {
			rel, err := filepath.Rel(m.session.Root(), r.node.Path)
			if err != nil {
				rel = r.node.Path
			}
			paths[i] = filepath.ToSlash(rel)
		}
		matches := fuzzy.Find(pattern, paths)
		idx := make([]int, 0, len(matches))
		for _, match := range matches {
			idx = append(idx, match.Index)
		}
		sort.Ints(idx)

		visible := make([]row, 0, len(idx))
		for _, i := range idx {
			visible = append(visible, m.rows[i])
		}
		m.visible = visible
	}

	if len(m.visible) == 0 {
		m.cursor = 0
	} else {
		m.cursor = min(m.cursor, len(m.visible)-1)
	}
	m.updateListContent()
}

var (
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	excludedStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
)

func (m *model) rowLine(i int, r row) string {
	n := r.node

	cursor := " "
	if i == m.cursor {
		cursor = ">"
	}
	check := "[ ]"
	if n.Included {
		check = "[x]"
	}
	icon := "📄"
	if n.IsDir() {
		icon = "▸ 📁"
		if m.expanded.Contains(n.ID) {
			icon = "▾ 📁"
		}
	}

	line := fmt.Sprintf("%s %s %s%s %s", cursor, check, strings.Repeat("  ", r.depth), icon, n.Name)
	if n.Err != nil {
		line += " " + errorStyle.Render("[Error: "+n.Err.Error()+"]")
	}

	switch {
	case i == m.cursor:
		return cursorStyle.Render(line)
	case !n.Included:
		return excludedStyle.Render(line)
	}
	return line
}

func (m *model) updateListContent() {
	var sb strings.Builder
	for i, r := range m.visible {
		sb.WriteString(m.rowLine(i, r) + "\n")
	}
	m.list.SetContent(sb.String())
}

func (m *model) updatePreviewContent() {
	switch {
	case m.previewErr != nil:
		m.preview.SetContent("Error generando vista previa: " + m.previewErr.Error())
	default:
		m.preview.SetContent(m.previewText)
	}
}

// ensureCursorVisible makes sure the cursor is visible in the viewport
func (m *model) ensureCursorVisible() {
	top := m.list.YOffset
	bottom := m.list.YOffset + m.list.Height - 1

	if m.cursor < top {
		m.list.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.list.SetYOffset(m.cursor - m.list.Height + 1)
	}
}

// layout sizes the panes: header and input line on top, two footer lines.
func (m *model) layout() {
	const headerHeight, footerHeight, border = 2, 2, 2

	bodyHeight := max(m.height-headerHeight-footerHeight-border, 1)
	listWidth := m.width - border
	if m.showPreview {
		listWidth = m.width/2 - border
		m.preview.Width = m.width - m.width/2 - border
		m.preview.Height = bodyHeight
	}
	m.list.Width = max(listWidth, 1)
	m.list.Height = bodyHeight
	m.ensureCursorVisible()
}

// View renders the TUI screen.
func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.showHelp {
		return helpView()
	}

	root := m.session.Root()
	if root == "" {
		root = "(ninguna)"
	}
	header := headerStyle.Render("Mapeador de carpetas: " + root)

	var input string
	switch m.mode {
	case inputFilter:
		input = m.filter.View()
	case inputRoot:
		input = m.rootInput.View()
	default:
		if v := m.filter.Value(); v != "" {
			input = footerStyle.Render("filtro: " + v)
		}
	}

	body := paneStyle.Render(m.list.View())
	if m.showPreview {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, paneStyle.Render(m.preview.View()))
	}

	status := "Estado: " + m.status
	if m.exporting {
		status = m.spin.View() + " " + status
	}
	stats := fmt.Sprintf("%d/%d filas, %d carpetas, %d archivos, %d errores, %d tokens",
		len(m.visible), len(m.rows), m.summary.Dirs, m.summary.Files, m.summary.Errors, m.summary.Tokens)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		input,
		body,
		status,
		footerStyle.Render(stats+"  (? ayuda)"),
	)
}

func helpView() string {
	keys := [][2]string{
		{"↑/↓ pgup/pgdn home/end", "move"},
		{"→ / enter", "expand folder"},
		{"←", "collapse folder / go to parent"},
		{"space", "toggle entry"},
		{"a / x", "include / exclude entry and its loaded contents"},
		{"ctrl+a / ctrl+q", "include / exclude everything"},
		{"E / C", "expand / collapse all loaded folders"},
		{"/", "filter rows"},
		{"o", "choose another folder"},
		{"p", "show / hide preview"},
		{"c", "copy preview"},
		{"g / F5", "generate report"},
		{"O", "open last report"},
		{"q / ctrl+c", "quit"},
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Keys") + "\n\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-24s %s\n", k[0], k[1])
	}
	sb.WriteString("\n" + footerStyle.Render("press any key to return"))
	return sb.String()
}
