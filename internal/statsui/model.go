// Package statsui provides the Bubble Tea dashboard for coderank snapshots.
package statsui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/rankview/internal/chart"
	"github.com/verte-zerg/rankview/internal/model"
	"github.com/verte-zerg/rankview/internal/stats"
)

const (
	tabOverview = iota
	tabLanguages
	tabCharacters
	tabTrends
)

const (
	plotHeight   = 10
	defaultWidth = 80
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	focusSelectorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle          = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Options holds the initial selector values. Empty fields fall back to the
// first duration, the added metric and descending character order.
type Options struct {
	Duration    string
	Metric      string
	CharOrder   string
	CharOrderBy string
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	snap     model.Snapshot
	warnings []string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	width     int
	height    int

	selectors [][]*selector
	focus     []int

	inputMode  bool
	input      textinput.Model
	inputError string

	showWarning bool
	errMsg      string

	rowsTable  table.Model
	shareChart *chart.ShareChart
	barChart   *chart.BarChart
}

// NewModel constructs the dashboard over a loaded snapshot. Warnings are shown
// in a modal until dismissed.
func NewModel(snap model.Snapshot, warnings []string, opts Options) *Model {
	m := &Model{
		snap:        snap,
		warnings:    warnings,
		showWarning: len(warnings) > 0,
		tabs:        []string{"Overview", "Languages", "Characters", "Trends"},
		shareChart:  chart.NewShareChart(stats.MetricAdded),
		barChart:    chart.NewBarChart(stats.MetricAdded),
	}
	m.initSelectors(opts)
	m.initInput()
	m.initRowsTable()
	m.initViewports()
	for tab := range m.tabs {
		m.refresh(tab)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.showWarning {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
				m.showWarning = false
			}
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.inputMode {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "tab":
			m.moveFocus(1)
			return m, nil
		case "shift+tab":
			m.moveFocus(-1)
			return m, nil
		case "]", ".":
			m.cycleFocused(1)
			return m, nil
		case "[", ",":
			m.cycleFocused(-1)
			return m, nil
		case "/":
			return m.startInput()
		case "g", "home":
			m.viewports[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.viewports[m.activeTab].GotoBottom()
			return m, nil
		default:
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showWarning {
		return fitLines(m.renderWarningModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.viewports[m.activeTab].View(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInput() {
	m.input = textinput.New()
	m.input.CharLimit = 0
	m.input.Cursor.SetMode(cursor.CursorBlink)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.inputMode || m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.input.Width = maxInt(10, m.width-lipgloss.Width(m.input.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	m.errMsg = ""
}

func (m *Model) moveFocus(delta int) {
	count := len(m.selectors[m.activeTab])
	if count == 0 {
		return
	}
	m.focus[m.activeTab] = (m.focus[m.activeTab] + delta + count) % count
}

func (m *Model) focused() *selector {
	return m.selectors[m.activeTab][m.focus[m.activeTab]]
}

func (m *Model) cycleFocused(delta int) {
	if m.focused().cycle(delta) {
		m.refresh(m.activeTab)
	}
}

func (m *Model) startInput() (tea.Model, tea.Cmd) {
	sel := m.focused()
	if sel.disabled {
		m.errMsg = sel.name + " is not available for this metric"
		return m, nil
	}
	m.inputMode = true
	m.inputError = ""
	m.errMsg = ""
	m.input.Prompt = sel.name + ": "
	m.input.Placeholder = sel.label()
	m.input.SetValue("")
	m.updateLayout()
	return m, m.input.Focus()
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		return m, nil
	case tea.KeyEnter:
		if err := m.focused().choose(m.input.Value()); err != nil {
			m.inputError = err.Error()
			return m, nil
		}
		m.stopInput()
		m.refresh(m.activeTab)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopInput() {
	m.inputMode = false
	m.inputError = ""
	m.input.Blur()
	m.updateLayout()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + m.renderSelectors()
}

func (m *Model) renderSelectors() string {
	parts := make([]string, 0, len(m.selectors[m.activeTab]))
	for i, sel := range m.selectors[m.activeTab] {
		text := sel.name + ": " + sel.label()
		if i == m.focus[m.activeTab] {
			parts = append(parts, focusSelectorStyle.Render("["+text+"]"))
		} else {
			parts = append(parts, headerStyle.Render(" "+text+" "))
		}
	}
	return truncateLine(strings.Join(parts, " "), m.width)
}

func (m *Model) renderFooter() string {
	if m.inputMode {
		line := m.input.View()
		if m.inputError != "" {
			line += "  " + errorStyle.Render(m.inputError)
		}
		return line + "\n" + headerStyle.Render("enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Tabs: left/right  Field: tab/shift+tab  Value: [ ] or , .  Type: /  Scroll: up/down  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderWarningModal() string {
	body := append([]string{cardValueStyle.Render("Snapshot warning")}, m.warnings...)
	body = append(body, "", headerStyle.Render("Enter to continue / q to quit"))
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
