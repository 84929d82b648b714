package sheets

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgetview/internal/spending"
)

// ReportRow is one exported line of the spending table.
type ReportRow struct {
	Label  string
	Months []decimal.Decimal
	Over   []bool
	Total  decimal.Decimal
	Kind   spending.RowKind
}

// Report is the spending table converted to cent-rounded amounts.
type Report struct {
	Title  string
	Months []string
	Rows   []ReportRow
	Year   int
}

// cents rounds a spending amount for display.
func cents(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

// NewReport converts table into a report.
func NewReport(table *spending.Table) Report {
	report := Report{
		Title:  fmt.Sprintf("Spending %d", table.Year),
		Year:   table.Year,
		Months: table.Months,
		Rows:   make([]ReportRow, 0, len(table.Rows)),
	}

	for _, row := range table.Rows {
		r := ReportRow{
			Label:  row.Label,
			Kind:   row.Kind,
			Total:  cents(row.Total.Amount),
			Months: make([]decimal.Decimal, len(row.Cells)),
			Over:   make([]bool, len(row.Cells)),
		}
		if row.Kind == spending.RowItem {
			r.Label = "  " + row.Label
		}
		for i, cell := range row.Cells {
			r.Months[i] = cents(cell.Amount)
			r.Over[i] = cell.Over
		}
		report.Rows = append(report.Rows, r)
	}

	return report
}

// Values lays the report out as sheet rows: a title row, the month header,
// then one row per report row.
func (r Report) Values() [][]any {
	values := make([][]any, 0, len(r.Rows)+3)

	values = append(values,
		[]any{r.Title},
		[]any{},
	)

	header := make([]any, 0, len(r.Months)+2)
	header = append(header, "")
	for _, month := range r.Months {
		header = append(header, month)
	}
	header = append(header, "Total")
	values = append(values, header)

	for _, row := range r.Rows {
		line := make([]any, 0, len(row.Months)+2)
		line = append(line, row.Label)
		for _, amount := range row.Months {
			line = append(line, amount.InexactFloat64())
		}
		line = append(line, row.Total.InexactFloat64())
		values = append(values, line)
	}

	return values
}

// headerRows is the number of rows Values writes before the first report row.
const headerRows = 3
