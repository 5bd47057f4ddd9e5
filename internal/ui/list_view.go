package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/wikify/wikify/internal/recommend"
	"github.com/wikify/wikify/internal/wiki"
)

// Item is one row of the review table.
type Item struct {
	recommend.Article
	Done bool
}

type ListView struct {
	table       table.Model
	items       []Item
	cursor      int
	width       int
	height      int
	visibleRows int // number of data rows visible (excluding header)
	sort        recommend.SortSpec

	// Styles for custom rendering
	headerStyle   lipgloss.Style
	cellStyle     lipgloss.Style
	selectedStyle lipgloss.Style
	doneStyle     lipgloss.Style
	columns       []table.Column
}

// colTitle is the index of the title column.
const colTitle = 4

func listColumns(width int, spec recommend.SortSpec) []table.Column {
	// Each cell has Padding(0,1) adding 2 chars per column (5 columns = 10 extra).
	// Subtract 2 more to avoid hitting exact terminal width (causes implicit wraps).
	fixedWidth := 2 + 9 + 11 + 24
	padding := 5*2 + 2
	titleWidth := width - fixedWidth - padding
	if titleWidth < 20 {
		titleWidth = 20
	}
	return []table.Column{
		{Title: " ", Width: 2},
		{Title: "Cleanup" + sortMark(spec, recommend.SortCleanupCount), Width: 9},
		{Title: "Relevance" + sortMark(spec, recommend.SortRelevance), Width: 11},
		{Title: "Categories", Width: 24},
		{Title: "Title", Width: titleWidth},
	}
}

func sortMark(spec recommend.SortSpec, key recommend.SortKey) string {
	if spec.Key != key {
		return ""
	}
	if spec.Dir == recommend.Descending {
		return " ▼"
	}
	return " ▲"
}

func visibleRowsFor(height int) int {
	// Reserve space for: header(2) + interests(1) + divider(1) + detail pane(4) + status(1) + footer(3)
	visibleRows := height - 12
	// Subtract 2 for the table header (text + border)
	visibleRows -= 2
	if visibleRows < 3 {
		visibleRows = 3
	}
	return visibleRows
}

func NewListView(width, height int) ListView {
	columns := listColumns(width, recommend.SortSpec{})

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	visibleRows := visibleRowsFor(height)

	// The table only holds rows; View does its own scrolling.
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(visibleRows+2),
		table.WithFocused(true),
	)

	return ListView{
		table:         t,
		width:         width,
		height:        height,
		visibleRows:   visibleRows,
		headerStyle:   headerStyle,
		cellStyle:     cellStyle,
		selectedStyle: selectedStyle,
		doneStyle:     lipgloss.NewStyle().Faint(true),
		columns:       columns,
	}
}

// UpdateTableStyles updates the styles to match the current theme
func (lv *ListView) UpdateTableStyles(theme Theme) {
	lv.headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.Subtle)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(theme.Primary))
	lv.selectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Background)).
		Background(lipgloss.Color(theme.Primary)).
		Bold(false)
	lv.doneStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.Subtle)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(theme.Primary))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(theme.Background)).
		Background(lipgloss.Color(theme.Primary)).
		Bold(false)
	lv.table.SetStyles(s)
}

// SetItems replaces the rows. The cursor stays on the same article when it
// is still present, otherwise it is clamped.
func (lv *ListView) SetItems(items []Item) {
	var current int64 = -1
	if it := lv.GetItem(lv.cursor); it != nil {
		current = it.ID
	}

	lv.items = items
	lv.updateRows()

	for i, it := range items {
		if it.ID == current {
			lv.SetCursor(i)
			return
		}
	}
	if lv.cursor >= len(items) {
		lv.cursor = max(len(items)-1, 0)
	}
	if len(items) > 0 {
		lv.table.SetCursor(lv.cursor)
	}
}

// SetSort updates the header arrows for spec.
func (lv *ListView) SetSort(spec recommend.SortSpec) {
	lv.sort = spec
	lv.columns = listColumns(lv.width, spec)
	lv.table.SetColumns(lv.columns)
}

func (lv *ListView) updateRows() {
	rows := make([]table.Row, len(lv.items))
	for i, item := range lv.items {
		mark := " "
		if item.Done {
			mark = "✓"
		}

		cleanup := runewidth.FillLeft(strconv.Itoa(item.CleanupCount()), 7)
		relevance := runewidth.FillLeft(formatRelevance(item.Relevance), 9)
		categories := Truncate(strings.Join(item.RelatedCategories, ", "), 24)
		title := Truncate(item.Title, lv.columns[colTitle].Width)

		rows[i] = table.Row{mark, cleanup, relevance, categories, title}
	}
	lv.table.SetRows(rows)
}

func formatRelevance(r float64) string {
	if r == float64(int64(r)) {
		return strconv.FormatInt(int64(r), 10)
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

func Truncate(s string, maxLen int) string {
	if runewidth.StringWidth(s) > maxLen {
		return runewidth.Truncate(s, maxLen, "…")
	}
	return s
}

// detailPaneHeight is the fixed number of lines the detail pane always occupies.
const detailPaneHeight = 4

// DetailView renders a detail pane for the article under the cursor, padded to a fixed height.
func (lv *ListView) DetailView(width int, styles Styles) string {
	item := lv.GetItem(lv.cursor)
	if item == nil {
		return ""
	}

	maxWidth := width - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	var lines []string

	title := item.Title
	if item.Done {
		title += "  ✓ done"
	}
	lines = append(lines, styles.Highlight.Render(Truncate(title, maxWidth)))
	lines = append(lines, styles.Help.Render(Truncate(wiki.ArticleURL(item.ID), maxWidth)))

	var meta []string
	if len(item.RelatedCategories) > 0 {
		meta = append(meta, "in:"+strings.Join(item.RelatedCategories, ","))
	}
	meta = append(meta, fmt.Sprintf("relevance %s", formatRelevance(item.Relevance)))
	if item.Views > 0 {
		meta = append(meta, fmt.Sprintf("%d views", item.Views))
	}
	lines = append(lines, styles.Normal.Render(Truncate(strings.Join(meta, " · "), maxWidth)))

	if len(item.CleanupMessages) > 0 {
		lines = append(lines, styles.HelpDesc.Render(Truncate("needs: "+strings.Join(item.CleanupMessages, "; "), maxWidth)))
	} else {
		lines = append(lines, styles.HelpDesc.Render("no cleanup tags"))
	}

	for len(lines) < detailPaneHeight {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (lv ListView) Cursor() int {
	return lv.cursor
}

func (lv *ListView) SetCursor(pos int) {
	if pos >= 0 && pos < len(lv.items) {
		lv.cursor = pos
		lv.table.SetCursor(pos)
	}
}

func (lv *ListView) MoveCursor(delta int) {
	newPos := lv.cursor + delta
	if newPos >= 0 && newPos < len(lv.items) {
		lv.cursor = newPos
		lv.table.SetCursor(newPos)
	}
}

func (lv ListView) Len() int {
	return len(lv.items)
}

func (lv ListView) GetItem(index int) *Item {
	if index >= 0 && index < len(lv.items) {
		return &lv.items[index]
	}
	return nil
}

// renderCell renders a single cell value with the given column width.
func (lv *ListView) renderCell(value string, colWidth int) string {
	style := lipgloss.NewStyle().Width(colWidth).MaxWidth(colWidth).Inline(true)
	return lv.cellStyle.Render(style.Render(runewidth.Truncate(value, colWidth, "…")))
}

// View renders the table with our own scrolling logic, bypassing the
// bubbles table viewport which has broken YOffset calculations.
func (lv ListView) View() string {
	rows := lv.table.Rows()

	headerCells := make([]string, 0, len(lv.columns))
	for _, col := range lv.columns {
		if col.Width <= 0 {
			continue
		}
		style := lipgloss.NewStyle().Width(col.Width).MaxWidth(col.Width).Inline(true)
		cell := style.Render(runewidth.Truncate(col.Title, col.Width, "…"))
		headerCells = append(headerCells, lv.headerStyle.Render(lv.cellStyle.Render(cell)))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)

	visibleRows := lv.visibleRows
	if visibleRows <= 0 {
		visibleRows = 10
	}

	start := 0
	if lv.cursor >= visibleRows {
		start = lv.cursor - visibleRows + 1
	}
	end := start + visibleRows
	if end > len(rows) {
		end = len(rows)
		start = end - visibleRows
		if start < 0 {
			start = 0
		}
	}

	renderedRows := make([]string, 0, visibleRows)
	for i := start; i < end; i++ {
		cells := make([]string, 0, len(lv.columns))
		for ci, value := range rows[i] {
			if lv.columns[ci].Width <= 0 {
				continue
			}
			cells = append(cells, lv.renderCell(value, lv.columns[ci].Width))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		switch {
		case i == lv.cursor:
			row = lv.selectedStyle.Render(row)
		case lv.items[i].Done:
			row = lv.doneStyle.Render(row)
		}
		renderedRows = append(renderedRows, row)
	}

	// Pad to fixed height
	for len(renderedRows) < visibleRows {
		renderedRows = append(renderedRows, "")
	}

	return header + "\n" + strings.Join(renderedRows, "\n")
}

func (lv *ListView) SetWidthHeight(width, height int) {
	lv.width = width
	lv.height = height
	lv.columns = listColumns(width, lv.sort)
	lv.visibleRows = visibleRowsFor(height)

	lv.table.SetHeight(lv.visibleRows + 2)
	lv.table.SetColumns(lv.columns)
	lv.updateRows()
}
