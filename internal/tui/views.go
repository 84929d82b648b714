package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/budgetview/internal/cli"
	"github.com/Veraticus/budgetview/internal/model"
	"github.com/Veraticus/budgetview/internal/spending"
)

const (
	labelWidth  = 24
	cellWidth   = 11
	dateWidth   = 17
	descWidth   = 34
	budgetWidth = 28
	acctWidth   = 16
)

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch {
	case m.snapshot == nil:
		body = m.renderLoading()
	case m.picker != nil:
		body = m.renderPicker()
	case m.tab == model.TabSpending:
		body = m.renderSpending()
	case m.tab == model.TabBudget:
		body = m.renderBudget()
	default:
		body = m.renderExpenses()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		"",
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(fmt.Sprintf("budgetview %d", m.app.Year))

	rendered := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if tab == m.tab {
			rendered = append(rendered, m.theme.TabActive.Render(label))
		} else {
			rendered = append(rendered, m.theme.TabInactive.Render(label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (m Model) renderLoading() string {
	return fmt.Sprintf("%s %s", m.spinner.View(),
		m.theme.Subtitle.Render(fmt.Sprintf("Loading budget %d...", m.app.Year)))
}

// window returns the [start, end) range of n lines to draw so that cursor
// stays visible.
func (m Model) window(cursor, n int) (int, int) {
	visible := m.pageSize()
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	return start, min(n, start+visible)
}

func monthName(month string) string {
	n, err := strconv.Atoi(month[5:])
	if err != nil || n < 1 || n > 12 {
		return month
	}
	return time.Month(n).String()[:3]
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func padRight(s string, width int) string {
	return fmt.Sprintf("%-*s", width, truncate(s, width))
}

func padLeft(s string, width int) string {
	return fmt.Sprintf("%*s", width, truncate(s, width))
}

func (m Model) renderSpending() string {
	t := m.table

	header := []string{m.theme.Bold.Render(padRight(strconv.Itoa(t.Year), labelWidth))}
	for i, month := range t.Months {
		style := m.theme.Bold
		if i == m.col {
			style = m.theme.Selected
		}
		header = append(header, style.Render(padLeft(monthName(month), cellWidth)))
	}
	totalStyle := m.theme.Bold
	if m.col == len(t.Months) {
		totalStyle = m.theme.Selected
	}
	header = append(header, totalStyle.Render(padLeft("Total", cellWidth)))

	start, end := m.window(m.row, len(t.Rows))

	var lines []string
	if start == 0 || m.app.StickyHeaders {
		lines = append(lines, strings.Join(header, ""))
	}
	for i := start; i < end; i++ {
		lines = append(lines, m.renderSpendingRow(i))
	}

	summary := "Every month within target"
	if over := t.OverCount(); over > 0 {
		summary = fmt.Sprintf("%d months over target", over)
	}
	lines = append(lines, "", m.theme.Subtitle.Render(summary))

	return strings.Join(lines, "\n")
}

func (m Model) renderSpendingRow(i int) string {
	row := m.table.Rows[i]

	label := row.Label
	labelStyle := m.theme.Normal
	switch row.Kind {
	case spending.RowCategory, spending.RowTotal:
		labelStyle = m.theme.Bold
	case spending.RowItem:
		label = "  " + label
	case spending.RowUncategorized:
		labelStyle = m.theme.StatusWarning
	}
	if i == m.row {
		labelStyle = m.theme.Highlighted
	}

	cells := make([]string, 0, len(row.Cells)+2)
	cells = append(cells, labelStyle.Render(padRight(label, labelWidth)))
	for c, cell := range row.Cells {
		cells = append(cells, m.renderCell(cell, i == m.row && c == m.col))
	}
	cells = append(cells, m.renderCell(row.Total, i == m.row && m.col == len(row.Cells)))
	return strings.Join(cells, "")
}

func (m Model) renderCell(cell spending.Cell, selected bool) string {
	text := padLeft(cli.FormatMoney(cell.Amount), cellWidth)
	switch {
	case selected:
		return m.theme.Cursor.Render(text)
	case cell.Over:
		return m.theme.Over.Render(text)
	case cell.Soft:
		return m.theme.Soft.Render(text)
	default:
		return m.theme.Normal.Render(text)
	}
}

func (m Model) renderBudget() string {
	view := m.snapshot.Budget

	lines := []string{m.theme.Bold.Render(
		padRight("Budget", labelWidth+2) + padLeft("Amount", budgetWidth) +
			padLeft("Per year", cellWidth+2) + padLeft("Per month", cellWidth+2))}

	start, end := m.window(m.line, len(m.lines))
	for i := start; i < end; i++ {
		line := m.lines[i]

		var text string
		style := m.theme.Normal
		if line.item == nil {
			style = m.theme.Bold
			text = padRight(line.category.Name(), labelWidth+2) + padLeft("", budgetWidth) +
				padLeft(cli.FormatMoney(line.category.AmountPerYear), cellWidth+2) +
				padLeft(cli.FormatMoney(line.category.AmountPerMonth()), cellWidth+2)
		} else {
			amount := "no target"
			if line.item.HasTarget() {
				amount = line.item.Item.Amount.String()
			}
			text = padRight("  "+line.item.Name(), labelWidth+2) + padLeft(amount, budgetWidth) +
				padLeft(cli.FormatMoney(line.item.AmountPerYear), cellWidth+2) +
				padLeft(cli.FormatMoney(line.item.AmountPerMonth()), cellWidth+2)
		}
		if i == m.line {
			style = m.theme.Highlighted
		}
		lines = append(lines, style.Render(text))
	}

	lines = append(lines, m.theme.Bold.Render(
		padRight("TOTAL", labelWidth+2)+padLeft("", budgetWidth)+
			padLeft(cli.FormatMoney(view.AmountPerYear()), cellWidth+2)+
			padLeft(cli.FormatMoney(view.AmountPerMonth()), cellWidth+2)))

	if ignored := view.IgnoredCategories(); len(ignored) > 0 {
		names := make([]string, 0, len(ignored))
		for _, category := range ignored {
			names = append(names, category.Name())
		}
		lines = append(lines, "", m.theme.Soft.Render("ignored: "+strings.Join(names, ", ")))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderExpenses() string {
	if m.query == nil {
		return m.theme.Subtitle.Render("Open a spending cell or budget line to list its expenses")
	}

	settings := m.query.Settings()
	title := m.theme.Title.Render(m.query.Label(m.snapshot.Budget, m.snapshot.Accounts))
	subtitle := m.theme.Subtitle.Render("sorted by " + m.sortBy.String())

	lines := []string{title, subtitle, ""}

	if m.loading && m.list == nil {
		lines = append(lines, m.spinner.View()+" Loading expenses...")
		return strings.Join(lines, "\n")
	}

	header := padRight("Date", dateWidth) + padRight("Description", descWidth) +
		padLeft("Amount", cellWidth) + "  " + padRight("Budget", budgetWidth)
	if settings.ShowAccount {
		header += padRight("Account", acctWidth)
	}
	lines = append(lines, m.theme.Bold.Render(header))

	var total float64
	for _, e := range m.list {
		total += e.Amount
	}

	start, end := m.window(m.cursor, len(m.list))
	for i := start; i < end; i++ {
		e := m.list[i]

		date := e.TransactionDate
		if t := e.Time(); t != "" {
			date += " " + t
		}

		item := "uncategorized"
		if e.BudgetItemID != nil {
			item = m.itemName(*e.BudgetItemID)
		}

		text := padRight(date, dateWidth) + padRight(e.Description, descWidth) +
			padLeft(cli.FormatMoney(e.Amount), cellWidth) + "  " + padRight(item, budgetWidth)
		if settings.ShowAccount {
			text += padRight(e.AccountName(), acctWidth)
		}

		switch {
		case i == m.cursor:
			lines = append(lines, m.theme.Highlighted.Render(text))
		case e.BudgetItemID == nil:
			lines = append(lines, m.theme.StatusWarning.Render(text))
		default:
			lines = append(lines, m.theme.Normal.Render(text))
		}
	}

	if len(m.list) == 0 {
		lines = append(lines, m.theme.Soft.Render("No expenses"))
	}

	lines = append(lines, "", m.theme.Subtitle.Render(
		fmt.Sprintf("%d expenses, %s total", len(m.list), cli.FormatMoney(total))))

	return strings.Join(lines, "\n")
}

func (m Model) renderPicker() string {
	p := m.picker

	lines := []string{
		m.theme.Title.Render(fmt.Sprintf("Assign expense #%d", p.expenseID)),
		m.theme.Subtitle.Render("Enter to assign, Esc to cancel"),
		"",
	}

	start, end := m.window(p.cursor, len(p.items))
	for i := start; i < end; i++ {
		item := p.items[i]
		name := item.DisplayName
		if item.Category.Ignored() {
			name += " (ignored)"
		}
		if i == p.cursor {
			lines = append(lines, m.theme.Selected.Render("> "+name))
		} else {
			lines = append(lines, m.theme.Normal.Render("  "+name))
		}
	}

	return m.theme.BorderedBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusBar() string {
	var left string
	switch m.status.level {
	case statusError:
		left = m.theme.StatusError.Render(m.status.text)
	case statusSuccess:
		left = m.theme.StatusSuccess.Render(m.status.text)
	default:
		left = m.theme.StatusInfo.Render(m.status.text)
	}

	right := m.help.ShortHelpView(m.keymap.ShortHelp())

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", spacing) + right
}

func (m Model) renderHelp() string {
	title := m.theme.Title.Render("budgetview - Help")
	footer := lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Press ? or Esc to close help")

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.theme.BorderedBox.Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				title,
				"",
				m.help.FullHelpView(m.keymap.FullHelp()),
				"",
				footer,
			),
		),
	)
}
