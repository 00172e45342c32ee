package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// barCells is the width of the longest top-N bar in terminal cells.
const barCells = 24

// =============================================================================
// termBackend - dashboard views kept for the terminal
// =============================================================================

// termBackend records the latest drawables of each view. The explorer reads
// them when it renders; draws counts redraws per view.
type termBackend struct {
	bubbles []view.Circle
	bars    []view.Bar
	points  []view.Circle
	table   view.Table
	draws   map[string]int
}

func newTermBackend() *termBackend {
	return &termBackend{draws: make(map[string]int)}
}

func (b *termBackend) DrawMap(c []view.Circle) {
	b.bubbles = c
	b.draws[dashboard.ViewMap]++
}

func (b *termBackend) DrawBars(bars []view.Bar) {
	b.bars = bars
	b.draws[dashboard.ViewBars]++
}

func (b *termBackend) DrawScatter(c []view.Circle) {
	b.points = c
	b.draws[dashboard.ViewScatter]++
}

func (b *termBackend) DrawTable(t view.Table) {
	b.table = t
	b.draws[dashboard.ViewTable]++
}

// =============================================================================
// Key Bindings
// =============================================================================

type exploreKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Search key.Binding
	Done   key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

var exploreKeys = exploreKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Next:   key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("n/right", "next page")),
	Prev:   key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("p/left", "prev page")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Done:   key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "done")),
	Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear highlight")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k exploreKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Search, k.Clear, k.Quit}
}

func (k exploreKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Done}}
}

// =============================================================================
// ExploreModel - interactive linked-view explorer
// =============================================================================

// ExploreModel is the bubbletea model of the explore command. Moving the
// cursor over a table row hovers that city, which restyles every view.
type ExploreModel struct {
	Dashboard *dashboard.Dashboard
	Cursor    int
	Searching bool
	Err       error

	backend *termBackend
	search  textinput.Model
	help    help.Model
}

// NewExploreModel attaches a terminal backend to d and returns the model.
// The returned detach function unsubscribes the backend.
func NewExploreModel(d *dashboard.Dashboard) (ExploreModel, func()) {
	b := newTermBackend()
	detach := d.Attach(b)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search cities"
	ti.CharLimit = 64

	m := ExploreModel{
		Dashboard: d,
		backend:   b,
		search:    ti,
		help:      help.New(),
	}
	m.hover()
	return m, detach
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if m.Searching {
			return m.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, exploreKeys.Quit), msg.String() == "esc":
			return m, tea.Quit
		case key.Matches(msg, exploreKeys.Up):
			if m.Cursor > 0 {
				m.Cursor--
				m.hover()
			}
		case key.Matches(msg, exploreKeys.Down):
			if m.Cursor < len(m.backend.table.Rows)-1 {
				m.Cursor++
				m.hover()
			}
		case key.Matches(msg, exploreKeys.Next):
			if m.Dashboard.NextPage() {
				m.Cursor = 0
				m.hover()
			}
		case key.Matches(msg, exploreKeys.Prev):
			if m.Dashboard.PrevPage() {
				m.Cursor = 0
				m.hover()
			}
		case key.Matches(msg, exploreKeys.Clear):
			m.Err = m.Dashboard.HoverLeave()
		case key.Matches(msg, exploreKeys.Search):
			m.Searching = true
			return m, m.search.Focus()
		}
	}
	return m, nil
}

// updateSearch feeds keys to the search box and re-filters on every change.
func (m ExploreModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if key.Matches(msg, exploreKeys.Done) {
		m.Searching = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.Dashboard.Search(q)
		m.Cursor = 0
		m.hover()
	}
	return m, cmd
}

// hover highlights the city under the cursor, or clears the highlight when
// the page is empty.
func (m *ExploreModel) hover() {
	rows := m.backend.table.Rows
	if len(rows) == 0 {
		m.Cursor = 0
		m.Err = m.Dashboard.HoverLeave()
		return
	}
	if m.Cursor >= len(rows) {
		m.Cursor = len(rows) - 1
	}
	m.Err = m.Dashboard.HoverEnter(rows[m.Cursor].City)
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("City Growth Explorer"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d on map · %d in scatter", len(m.backend.bubbles), len(m.backend.points))))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	left := m.tableView()
	right := lipgloss.JoinVertical(lipgloss.Left, m.detailView(), m.topView())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error() + "\n")
	}
	b.WriteString(m.help.View(exploreKeys))

	return b.String()
}

// tableView renders the visible page with the hovered row emphasized.
func (m ExploreModel) tableView() string {
	t := m.backend.table
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = append([]string{cursor}, r.Cells...)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	highlightStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(view.RowHighlight)).Bold(true)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, t.Columns...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(t.Rows) && t.Rows[row].Bold {
				return highlightStyle
			}
			return listNormalStyle
		})

	caption := t.Label
	if t.Query != "" {
		caption = fmt.Sprintf("%s  %s", caption, listDimStyle.Render(fmt.Sprintf("%d matches for %q", t.Matches, t.Query)))
	}
	return tbl.Render() + "\n" + listDimStyle.Render(caption)
}

// detailView shows the highlighted city.
func (m ExploreModel) detailView() string {
	sel := m.Dashboard.Selection().Selection()
	if !sel.Active {
		return panelStyle.Render(listDimStyle.Render("No city highlighted"))
	}
	matches := m.Dashboard.Store().ByCity(sel.City)
	if len(matches) == 0 {
		return panelStyle.Render(listDimStyle.Render(sel.City))
	}
	r := matches[0]

	lines := []string{
		listSelectedStyle.Render(r.City),
		listDimStyle.Render(r.Country + " · " + r.Continent),
		detailLine("2024", view.FormatPopulation(r.Population2024)),
		detailLine("2023", view.FormatPopulation(r.Population2023)),
		detailLine("Growth", view.FormatPopulation(r.GrowthAbsolute)),
		detailLine("Growth %", fmt.Sprintf("%.2f%%", r.GrowthPercent)),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// topView lists the ranked bars, dimmed like the bar chart when another
// city is highlighted.
func (m ExploreModel) topView() string {
	bars := m.backend.bars
	if len(bars) == 0 {
		return ""
	}

	maxWidth := 0.0
	for _, bar := range bars {
		maxWidth = max(maxWidth, bar.Width)
	}

	lines := []string{StyleTitle.Render(fmt.Sprintf("Top %d", len(bars)))}
	for _, bar := range bars {
		cells := 0
		if maxWidth > 0 {
			cells = int(bar.Width / maxWidth * barCells)
		}
		label := truncate(bar.City, 16)
		line := fmt.Sprintf("%-16s %s", label, strings.Repeat("█", cells))

		switch {
		case bar.Stroke != "":
			line = listSelectedStyle.Render(line)
		case bar.Opacity < 1:
			line = listDimStyle.Render(line)
		default:
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(bar.Fill)).Render(line)
		}
		lines = append(lines, line)
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// =============================================================================
// Helpers
// =============================================================================

func detailLine(label, value string) string {
	return lipgloss.NewStyle().Foreground(colorGray).Width(10).Render(label) + StyleValue.Render(value)
}

// truncate shortens s to n runes, ending in an ellipsis when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
