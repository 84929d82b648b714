package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/budgetview/internal/accounts"
	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/spending"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func header(w io.Writer, columns ...string) {
	styled := make([]string, len(columns))
	for i, c := range columns {
		styled[i] = TableHeaderStyle.Render(c)
	}
	fmt.Fprintln(w, strings.Join(styled, "\t"))
}

// RenderBudget prints the categories and items of a budget with their
// yearly and monthly targets.
func RenderBudget(w io.Writer, view *budget.View) error {
	tw := newTable(w)

	header(tw, "ID", "Budget", "Amount", "Per year", "Per month")
	for _, category := range view.Categories() {
		fmt.Fprintf(tw, "%d\t%s\t\t%s\t%s\n",
			category.ID(),
			BoldStyle.Render(category.Name()),
			FormatMoney(category.AmountPerYear),
			FormatMoney(category.AmountPerMonth()))
		for _, item := range category.Items {
			amount := SubtleStyle.Render("no target")
			if item.HasTarget() {
				amount = item.Item.Amount.String()
			}
			fmt.Fprintf(tw, "%d\t  %s\t%s\t%s\t%s\n",
				item.ID(),
				item.Name(),
				amount,
				FormatMoney(item.AmountPerYear),
				FormatMoney(item.AmountPerMonth()))
		}
	}
	fmt.Fprintf(tw, "\t%s\t\t%s\t%s\n",
		BoldStyle.Render("TOTAL"),
		FormatMoney(view.AmountPerYear()),
		FormatMoney(view.AmountPerMonth()))

	if ignored := view.IgnoredCategories(); len(ignored) > 0 {
		names := make([]string, 0, len(ignored))
		for _, category := range ignored {
			names = append(names, category.Name())
		}
		fmt.Fprintf(tw, "\t%s\n", SubtleStyle.Render("ignored: "+strings.Join(names, ", ")))
	}

	return tw.Flush()
}

func spendingCell(cell spending.Cell) string {
	text := FormatMoney(cell.Amount)
	switch {
	case cell.Over:
		return OverStyle.Render(text)
	case cell.Soft:
		return SubtleStyle.Render(text)
	default:
		return text
	}
}

// RenderSpending prints the monthly spending table, highlighting months that
// exceed their target.
func RenderSpending(w io.Writer, table *spending.Table) error {
	tw := newTable(w)

	columns := make([]string, 0, len(table.Months)+2)
	columns = append(columns, strconv.Itoa(table.Year))
	for _, month := range table.Months {
		columns = append(columns, month[5:])
	}
	columns = append(columns, "Total")
	header(tw, columns...)

	for _, row := range table.Rows {
		label := row.Label
		switch row.Kind {
		case spending.RowCategory, spending.RowTotal:
			label = BoldStyle.Render(label)
		case spending.RowItem:
			label = "  " + label
		case spending.RowUncategorized:
			label = WarningStyle.Render(label)
		}

		cells := make([]string, 0, len(row.Cells)+2)
		cells = append(cells, label)
		for _, cell := range row.Cells {
			cells = append(cells, spendingCell(cell))
		}
		cells = append(cells, spendingCell(row.Total))
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

// RenderExpenses prints a list of expenses. The account column is shown only
// when the list spans accounts.
func RenderExpenses(w io.Writer, list []expenses.View, b *budget.View, showAccount bool) error {
	tw := newTable(w)

	columns := []string{"ID", "Date", "Description", "Amount", "Budget"}
	if showAccount {
		columns = append(columns, "Account")
	}
	header(tw, columns...)

	for _, e := range list {
		date := e.TransactionDate
		if t := e.Time(); t != "" {
			date += " " + t
		}

		item := WarningStyle.Render("uncategorized")
		if e.BudgetItemID != nil {
			item = fmt.Sprintf("item #%d", *e.BudgetItemID)
			if b != nil {
				if iv, err := b.GetItem(*e.BudgetItemID); err == nil {
					item = iv.DisplayName
				}
			}
		}

		cells := []string{strconv.Itoa(e.ID), date, e.Description, FormatMoney(e.Amount), item}
		if showAccount {
			cells = append(cells, e.AccountName())
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	var total float64
	for _, e := range list {
		total += e.Amount
	}
	_, err := fmt.Fprintf(w, "%s\n", SubtleStyle.Render(fmt.Sprintf("%d expenses, %s total", len(list), FormatMoney(total))))
	return err
}

// RenderAccounts prints the accounts with their statement formats.
func RenderAccounts(w io.Writer, view *accounts.View) error {
	tw := newTable(w)

	header(tw, "ID", "Account", "Class", "Statement format")
	for _, a := range view.Accounts() {
		schema := SubtleStyle.Render("(none)")
		if a.Schema != nil {
			schema = a.Schema.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID(), a.Name(), a.Class(), schema)
	}

	return tw.Flush()
}
