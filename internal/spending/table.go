package spending

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/expenses"
)

// Months returns the twelve "YYYY-MM" keys of a year.
func Months(year int) []string {
	months := make([]string, 0, budget.MonthsPerYear)
	for m := 1; m <= budget.MonthsPerYear; m++ {
		months = append(months, fmt.Sprintf("%04d-%02d", year, m))
	}
	return months
}

// RowKind identifies what a table row summarizes.
type RowKind int

// Row kinds, in the order they appear in a table.
const (
	RowCategory RowKind = iota
	RowItem
	RowUncategorized
	RowTotal
)

// Cell is one amount of the table. Query is the expense subset the amount
// was summed from; it is nil for the grand total.
type Cell struct {
	Query  *expenses.Query
	Amount float64
	Over   bool
	Soft   bool
}

// Row is one line of the table: twelve month cells and a yearly total.
type Row struct {
	Query *expenses.Query
	Label string
	Cells []Cell
	Total Cell
	Kind  RowKind
	ID    int
}

// Table is the monthly spending table of one budget year.
type Table struct {
	Months       []string
	MonthQueries []expenses.Query
	Rows         []Row
	Year         int
}

// NewTable lays out data as a table: each active category followed by its
// items, then uncategorized spend, then the month totals.
func NewTable(data *MonthlyData) *Table {
	view := data.Budget()
	year := view.Year()
	months := Months(year)
	yearPeriod := strconv.Itoa(year)

	t := &Table{
		Year:         year,
		Months:       months,
		MonthQueries: make([]expenses.Query, 0, len(months)),
	}
	for _, month := range months {
		t.MonthQueries = append(t.MonthQueries, expenses.ByPeriod(month, expenses.AllNotIgnored()))
	}

	for _, category := range view.Categories() {
		t.Rows = append(t.Rows, budgetRow(RowCategory, category.ID(), category.Name(), category.AmountPerMonth(),
			months, yearPeriod, expenses.CategorySelector(category.ID()),
			func(month string) float64 { return data.CategorySpend(category.ID(), month) },
			data.CategoryTotal(category.ID())))

		for _, item := range category.Items {
			t.Rows = append(t.Rows, budgetRow(RowItem, item.ID(), item.Name(), item.AmountPerMonth(),
				months, yearPeriod, expenses.ItemSelector(item.ID()),
				func(month string) float64 { return data.ItemSpend(item.ID(), month) },
				data.ItemTotal(item.ID())))
		}
	}

	uncategorized := expenses.ByPeriod(yearPeriod, expenses.Uncategorized())
	row := Row{Kind: RowUncategorized, Label: "uncategorized", Query: &uncategorized}
	for _, month := range months {
		q := expenses.ByPeriod(month, expenses.Uncategorized())
		row.Cells = append(row.Cells, plainCell(data.UncategorizedSpend(month), &q))
	}
	row.Total = plainCell(data.UncategorizedTotal(), &uncategorized)
	t.Rows = append(t.Rows, row)

	total := Row{Kind: RowTotal, Label: "TOTAL"}
	for i, month := range months {
		total.Cells = append(total.Cells, plainCell(data.MonthTotal(month), &t.MonthQueries[i]))
	}
	total.Total = plainCell(data.TotalSpend(), nil)
	t.Rows = append(t.Rows, total)

	return t
}

func budgetRow(kind RowKind, id int, label string, perMonth float64, months []string, yearPeriod string,
	selector expenses.Selector, spend func(month string) float64, yearTotal float64,
) Row {
	whole := expenses.ByPeriod(yearPeriod, selector)
	row := Row{Kind: kind, ID: id, Label: label, Query: &whole}
	for _, month := range months {
		q := expenses.ByPeriod(month, selector)
		amount := spend(month)
		cell := plainCell(amount, &q)
		cell.Over = !cell.Soft && amount > perMonth
		row.Cells = append(row.Cells, cell)
	}
	row.Total = plainCell(yearTotal, &whole)
	return row
}

func plainCell(amount float64, q *expenses.Query) Cell {
	return Cell{Amount: amount, Soft: amount <= 0, Query: q}
}

// OverCount returns how many month cells exceed their monthly target.
func (t *Table) OverCount() int {
	n := 0
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			if cell.Over {
				n++
			}
		}
	}
	return n
}
