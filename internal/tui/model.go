// Package tui provides the Bubble Tea cryptanalysis workbench.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"rotcrack/internal/caesar"
	"rotcrack/internal/freq"
	"rotcrack/internal/lang"
	"rotcrack/internal/model"
	"rotcrack/internal/report"
	"rotcrack/internal/store"
)

const (
	tabCandidates = iota
	tabFrequency
	tabHistory
)

const (
	plotHeight = 10
	headLimit  = 80
	timeFormat = "2006-01-02 15:04"
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
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
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

// Model implements the Bubble Tea workbench UI.
type Model struct {
	store *store.Store
	ref   lang.Reference
	opts  caesar.Options
	cfg   model.HistoryConfig

	ciphertext string
	counts     freq.Table
	result     caesar.Result
	crackErr   string

	history report.History
	errMsg  string
	notice  string

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	candTable  table.Model
	candShifts []int
	candLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	editMode  bool
	editInput textinput.Model
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a workbench model seeded with the given ciphertext.
func NewModel(st *store.Store, ref lang.Reference, ciphertext string, opts caesar.Options, cfg model.HistoryConfig) *Model {
	m := &Model{
		store:      st,
		ref:        ref,
		opts:       opts,
		cfg:        cfg,
		ciphertext: strings.TrimSpace(ciphertext),
		tabs:       []string{"Candidates", "Frequency", "History"},
	}
	m.initInputs()
	m.initEditInput()
	m.initCandTable()
	m.initViewports()
	m.recompute()
	m.refreshHistory()
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
		_, bodyHeight, _ := m.layoutHeights()
		m.applyCandTable(m.width, bodyHeight, true)
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.editMode {
			return m.updateEdit(msg)
		}
		if m.activeTab == tabCandidates {
			m.candTable.Focus()
		} else {
			m.candTable.Blur()
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
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "e":
			return m.startEdit()
		case "r":
			m.refreshHistory()
			return m, nil
		case "enter":
			if m.activeTab == tabCandidates {
				m.saveSelected()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabCandidates {
				m.candTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabCandidates {
				m.candTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabCandidates {
				var cmd tea.Cmd
				m.candTable, cmd = m.candTable.Update(msg)
				return m, cmd
			}
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
	if m.editMode {
		return fitLines(m.renderEditModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Lang: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initEditInput() {
	m.editInput = newFilterInput("Ciphertext: ")
	m.editInput.Placeholder = "paste ciphertext here"
}

func (m *Model) initCandTable() {
	t := table.New(
		table.WithColumns(candidateColumns(0)),
		table.WithHeight(1),
	)
	t.SetStyles(candTableStyles())
	m.candTable = t
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && (m.errMsg != "" || m.notice != "") {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[0].SetValue(strings.TrimSpace(m.cfg.Lang))
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[1].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[2].SetValue("")
	}
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.CurveWindow))
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
	m.setCandTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
	promptWidth := lipgloss.Width(m.editInput.Prompt)
	m.editInput.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabCandidates {
		m.candTable.Focus()
	} else {
		m.candTable.Blur()
	}
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
	summary := padLines(m.renderSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderSummary() string {
	var summary string
	switch {
	case m.activeTab == tabHistory:
		lang := m.cfg.Lang
		if lang == "" {
			lang = "any"
		}
		since := "any"
		if m.cfg.Since != nil {
			since = m.cfg.Since.Format("2006-01-02")
		}
		last := "all"
		if m.cfg.Last > 0 {
			last = strconv.Itoa(m.cfg.Last)
		}
		summary = fmt.Sprintf("History: lang=%s  since=%s  last=%s  window=%d", lang, since, last, m.cfg.CurveWindow)
	case m.crackErr != "" || m.result.Letters == 0:
		summary = fmt.Sprintf("Reference: %s  (no letters to analyze)", m.ref.Name)
	default:
		summary = fmt.Sprintf("Reference: %s  letters=%d  key=%d  score=%.4f  tolerance=%.2f",
			m.ref.Name, m.result.Letters, m.result.Key, m.result.Scores[m.result.Key], m.opts.Tolerance)
		if m.result.Ambiguous {
			summary += "  (ties)"
		}
	}
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Edit: e  Settings: /  Quit: q"
	switch m.activeTab {
	case tabCandidates:
		help = "Nav: left/right  Select: up/down  Save: enter  Edit: e  Settings: /  Quit: q"
	case tabHistory:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Refresh: r  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	if m.notice != "" {
		return m.renderHelp() + "\n" + headerStyle.Render(m.notice)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"History settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabCandidates {
		if m.counts.Letters() == 0 {
			return fitLines("No letters to analyze. Press e to enter ciphertext.", m.width, height)
		}
		view := tableMutedStyle.Render(m.candTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) recompute() {
	m.notice = ""
	m.counts = freq.Count(m.ciphertext)
	res, err := caesar.Crack(m.ciphertext, m.ref, m.opts)
	if err != nil {
		m.result = caesar.Result{}
		m.crackErr = err.Error()
	} else {
		m.result = res
		m.crackErr = ""
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyCandTable(width, bodyHeight, true)
	m.renderTabContents()
}

func (m *Model) refreshHistory() {
	hist, err := report.BuildHistory(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.history = report.History{}
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.history = hist
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabFrequency].SetContent(m.renderFrequency(width))
	if m.errMsg != "" {
		m.viewports[tabHistory].SetContent("Failed to load history.")
		return
	}
	m.viewports[tabHistory].SetContent(m.renderHistoryTab(width))
}

func (m *Model) renderFrequency(width int) string {
	if m.counts.Letters() == 0 {
		return "No letters to analyze. Press e to enter ciphertext."
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("Ciphertext"))
	b.WriteString("\n")
	b.WriteString(wrapText(flatten(m.ciphertext), width))
	b.WriteString("\n\n")
	shift := 0
	if m.crackErr == "" {
		shift = m.result.Key
		b.WriteString(headerStyle.Render(fmt.Sprintf("Plaintext (key %d)", m.result.Key)))
		b.WriteString("\n")
		b.WriteString(wrapText(flatten(m.result.Plaintext), width))
		b.WriteString("\n\n")
	}
	var buf bytes.Buffer
	if err := report.RenderCounts(&buf, m.counts); err != nil {
		return fmt.Sprintf("Failed to render counts: %v", err)
	}
	b.WriteString(buf.String())
	b.WriteString("\n")
	buf.Reset()
	if err := report.RenderDistribution(&buf, m.counts, m.ref, shift, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render distribution: %v", err)
	}
	b.WriteString(buf.String())
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderHistoryTab(width int) string {
	if len(m.history.Records) == 0 {
		return "No cracks recorded. Press enter on Candidates to save one."
	}
	sections := []string{
		renderHistoryCards(m.history.Records, width),
		renderHistoryTable(m.history.Records),
		renderHistoryCurve(m.history.Records, m.cfg.CurveWindow, width),
		renderLetterTotals(m.history.LetterAggs),
	}
	return strings.TrimRight(strings.Join(sections, "\n\n"), "\n")
}

func renderHistoryCards(records []model.CrackRecord, width int) string {
	var scoreSum float64
	var letterSum, ambiguous int
	best := records[0].Score
	for _, rec := range records {
		scoreSum += rec.Score
		letterSum += rec.Letters
		if rec.Ambiguous {
			ambiguous++
		}
		if rec.Score < best {
			best = rec.Score
		}
	}
	count := float64(len(records))
	cards := []string{
		metricCard("Cracks", fmt.Sprintf("%d", len(records))),
		metricCard("Avg Score", fmt.Sprintf("%.4f", scoreSum/count)),
		metricCard("Best Score", fmt.Sprintf("%.4f", best)),
		metricCard("Avg Letters", fmt.Sprintf("%.1f", float64(letterSum)/count)),
		metricCard("Ambiguous", fmt.Sprintf("%d", ambiguous)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderHistoryTable(records []model.CrackRecord) string {
	headers := []string{"ID", "When", "Lang", "Key", "Score", "Letters", "Tie", "Ciphertext"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		tie := ""
		if rec.Ambiguous {
			tie = "~"
		}
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.CreatedAt.Format(timeFormat),
			rec.Lang,
			strconv.Itoa(rec.Key),
			fmt.Sprintf("%.4f", rec.Score),
			strconv.Itoa(rec.Letters),
			tie,
			rec.CiphertextHead,
		})
	}
	aligns := []report.Align{
		report.AlignRight, report.AlignLeft, report.AlignLeft, report.AlignRight,
		report.AlignRight, report.AlignRight, report.AlignLeft, report.AlignLeft,
	}
	return strings.Join(report.FormatTable(headers, rows, aligns), "\n")
}

func renderHistoryCurve(records []model.CrackRecord, window, width int) string {
	var buf bytes.Buffer
	if err := report.RenderHistoryCurve(&buf, records, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render history curve: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderLetterTotals(aggs []model.LetterAggregate) string {
	var buf bytes.Buffer
	if err := report.RenderLetterTotals(&buf, aggs); err != nil {
		return fmt.Sprintf("Failed to render letter totals: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func candidateColumns(width int) []table.Column {
	preview := maxInt(16, width-26)
	return []table.Column{
		{Title: "Shift", Width: 5},
		{Title: "Score", Width: 8},
		{Title: "Note", Width: 4},
		{Title: "Preview", Width: preview},
	}
}

func buildCandidateRows(ciphertext string, res caesar.Result, previewWidth int) ([]table.Row, []int) {
	near := make(map[int]bool, len(res.Candidates))
	for _, shift := range res.Candidates {
		near[shift] = true
	}
	shifts := make([]int, len(res.Scores))
	for i := range shifts {
		shifts[i] = i
	}
	sort.SliceStable(shifts, func(a, b int) bool {
		return res.Scores[shifts[a]] < res.Scores[shifts[b]]
	})
	rows := make([]table.Row, 0, len(shifts))
	for _, shift := range shifts {
		note := ""
		switch {
		case shift == res.Key:
			note = "best"
		case near[shift]:
			note = "tie"
		}
		preview := ""
		if plain, err := caesar.Decrypt(ciphertext, shift); err == nil {
			preview = runewidth.Truncate(flatten(plain), previewWidth, "…")
		}
		rows = append(rows, table.Row{
			strconv.Itoa(shift),
			fmt.Sprintf("%.4f", res.Scores[shift]),
			note,
			preview,
		})
	}
	return rows, shifts
}

func (m *Model) applyCandTable(width, height int, force bool) {
	cols := candidateColumns(width)
	var rows []table.Row
	m.candShifts = nil
	if m.crackErr == "" && m.result.Letters > 0 {
		rows, m.candShifts = buildCandidateRows(m.ciphertext, m.result, cols[len(cols)-1].Width)
	}
	viewportHeight := maxInt(1, height-1)
	if !force &&
		m.candLayout.width == width &&
		m.candLayout.height == viewportHeight &&
		m.candLayout.rowCount == len(rows) &&
		m.candLayout.colCount == len(cols) {
		return
	}
	m.candTable.SetColumns(cols)
	m.candTable.SetRows(rows)
	m.candLayout.rowCount = len(rows)
	m.candLayout.colCount = len(cols)
	m.setCandTableSize(width, height)
}

func (m *Model) setCandTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.candLayout.width == width && m.candLayout.height == viewportHeight {
		return
	}
	m.candLayout.width = width
	m.candLayout.height = viewportHeight
	m.candTable.SetWidth(width)
	m.candTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustCandTableHeight(height)
	if m.candLayout.height != viewportHeight {
		m.candLayout.height = viewportHeight
		m.candTable.SetHeight(viewportHeight)
	}
}

func candTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) adjustCandTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.candTable.Height()
	viewHeight := lipgloss.Height(m.candTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.candTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.candTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) saveSelected() {
	if m.crackErr != "" || m.result.Letters == 0 {
		m.notice = "Nothing to save yet."
		return
	}
	idx := m.candTable.Cursor()
	if idx < 0 || idx >= len(m.candShifts) {
		return
	}
	shift := m.candShifts[idx]
	plain, err := caesar.Decrypt(m.ciphertext, shift)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	rec := model.CrackRecord{
		CreatedAt:      time.Now(),
		Lang:           m.ref.Name,
		Key:            shift,
		Score:          m.result.Scores[shift],
		Ambiguous:      m.result.Ambiguous,
		Letters:        m.result.Letters,
		Source:         "tui",
		CiphertextHead: headOf(m.ciphertext),
		PlaintextHead:  headOf(plain),
	}
	id, err := m.store.InsertCrack(context.Background(), rec, letterCounts(m.counts))
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.notice = fmt.Sprintf("Saved crack #%d (key %d).", id, shift)
	m.refreshHistory()
}

func letterCounts(table freq.Table) []model.LetterCount {
	counts := table.Counts()
	out := make([]model.LetterCount, 0, len(counts))
	for ord, count := range counts {
		if count == 0 {
			continue
		}
		out = append(out, model.LetterCount{Letter: string(rune('a' + ord)), Count: count})
	}
	return out
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) startEdit() (tea.Model, tea.Cmd) {
	m.editMode = true
	m.editInput.SetValue(flatten(m.ciphertext))
	return m, m.editInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshHistory()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editMode = false
		return m, nil
	case tea.KeyEnter:
		m.ciphertext = strings.TrimSpace(m.editInput.Value())
		m.editMode = false
		m.recompute()
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	lang := strings.TrimSpace(m.filterInputs[0].Value())
	sinceInput := strings.TrimSpace(m.filterInputs[1].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[2].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	windowInput := strings.TrimSpace(m.filterInputs[3].Value())
	window := 0
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil {
			return fmt.Errorf("invalid curve window (use integer)")
		}
		if parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.HistoryConfig{
		Lang:        lang,
		Since:       since,
		Last:        last,
		CurveWindow: window,
	}
	return nil
}

func (m *Model) renderEditModal() string {
	title := cardValueStyle.Render("Edit Ciphertext")
	body := []string{
		title,
		m.editInput.View(),
		headerStyle.Render("Paste or type the ciphertext on one line."),
		headerStyle.Render("Enter to analyze / Esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func headOf(text string) string {
	return runewidth.Truncate(flatten(text), headLimit, "…")
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

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
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
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
