// Package engine keeps the budget and spending views in sync with the server.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/budgetview/internal/accounts"
	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/model"
	"github.com/Veraticus/budgetview/internal/service"
	"github.com/Veraticus/budgetview/internal/spending"
)

// Snapshot is one consistent set of views built from a single refresh.
type Snapshot struct {
	Budget   *budget.View
	Spending *spending.MonthlyData
	Accounts *accounts.View
	Seq      uint64
	Year     int
}

// Refresher rebuilds snapshots from the server. Every refresh takes a
// sequence number when it starts; a refresh that finishes after a newer one
// has been published is discarded.
type Refresher struct {
	api     service.BudgetAPI
	current *Snapshot
	seq     uint64
	mu      sync.Mutex
}

// NewRefresher creates a refresher backed by api.
func NewRefresher(api service.BudgetAPI) *Refresher {
	return &Refresher{api: api}
}

// Current returns the last published snapshot, or nil before the first
// successful refresh.
func (r *Refresher) Current() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Refresher) nextSeq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq
}

// Refresh fetches the budget, spending and accounts of year concurrently and
// publishes the views built from them. A failed refresh leaves the current
// snapshot in place. ErrStaleSnapshot is returned when a newer refresh was
// published first.
func (r *Refresher) Refresh(ctx context.Context, year int) (*Snapshot, error) {
	seq := r.nextSeq()

	var (
		rawBudget  *model.Budget
		rawSpend   *model.SpendingData
		rawAccts   *model.Accounts
		rawSchemas *model.StatementSchemas
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawBudget, err = r.api.GetBudget(gctx, year)
		return err
	})
	g.Go(func() error {
		var err error
		rawSpend, err = r.api.GetSpending(gctx, year)
		return err
	})
	g.Go(func() error {
		var err error
		rawAccts, err = r.api.GetAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rawSchemas, err = r.api.GetStatementSchemas(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view, err := budget.NewView(*rawBudget)
	if err != nil {
		return nil, fmt.Errorf("failed to build budget view: %w", err)
	}

	data, err := spending.NewMonthlyData(rawSpend.Data, view)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spending: %w", err)
	}

	accts, err := accounts.NewView(*rawAccts, *rawSchemas)
	if err != nil {
		return nil, fmt.Errorf("failed to build accounts view: %w", err)
	}

	snapshot := &Snapshot{
		Seq:      seq,
		Year:     year,
		Budget:   view,
		Spending: data,
		Accounts: accts,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.Seq > seq {
		slog.Debug("Discarding stale snapshot", "seq", seq, "published_seq", r.current.Seq)
		return nil, fmt.Errorf("%w: refresh %d finished after %d", common.ErrStaleSnapshot, seq, r.current.Seq)
	}
	r.current = snapshot

	slog.Info("Snapshot rebuilt",
		"seq", seq,
		"year", year,
		"categories", len(view.Categories()),
		"items", len(view.Items()),
		"accounts", accts.Len())

	return snapshot, nil
}

// Expenses fetches the expenses addressed by query and sorts them. Accounts
// are resolved against snapshot when one is given.
func (r *Refresher) Expenses(ctx context.Context, snapshot *Snapshot, query expenses.Query, sortBy expenses.SortBy) ([]expenses.View, error) {
	list, err := r.api.Expenses(ctx, query)
	if err != nil {
		return nil, err
	}

	var accts *accounts.View
	if snapshot != nil {
		accts = snapshot.Accounts
	}

	return expenses.Sort(expenses.NewViews(list, accts), sortBy)
}

// Categorize assigns an expense to itemID, or clears it when itemID is nil,
// and refreshes year so the spending views reflect the change.
func (r *Refresher) Categorize(ctx context.Context, year, expenseID int, itemID *int) (*Snapshot, error) {
	if snapshot := r.Current(); itemID != nil && snapshot != nil && snapshot.Year == year && !snapshot.Budget.HasItem(*itemID) {
		return nil, &common.NotFoundError{Kind: "budget item", ID: *itemID}
	}

	if err := r.api.UpdateExpenseCategory(ctx, expenseID, itemID); err != nil {
		return nil, err
	}

	return r.Refresh(ctx, year)
}
