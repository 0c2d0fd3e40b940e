package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CategoryMonth is the derived state of one category in one month.
//
// Balance = Allocated + Carryover + Activity. Carryover is the closing
// balance of the previous month, so overspending rolls forward until
// the owner covers it.
type CategoryMonth struct {
	Category  models.Category `json:"category"`
	Month     types.Month     `json:"month"`
	Allocated types.Cents     `json:"allocated"` // Amount assigned to the category this month
	Carryover types.Cents     `json:"carryover"` // Closing balance of the previous month
	Activity  types.Cents     `json:"activity"`  // Net sum of this month's transactions
	Balance   types.Cents     `json:"balance"`   // Remaining money in the envelope
}

// Month is the aggregate state of a budget for one month.
type Month struct {
	BudgetID   uuid.UUID       `json:"budgetId"`
	Month      types.Month     `json:"month"`
	Income     types.Cents     `json:"income"`    // Sum of positive non-transfer transactions
	Allocated  types.Cents     `json:"allocated"` // Sum of all category allocations
	Activity   types.Cents     `json:"activity"`  // Net activity across all categories
	Balance    types.Cents     `json:"balance"`   // Sum of all category balances
	Available  types.Cents     `json:"available"` // Money on accounts that is not claimed by a category
	Categories []CategoryMonth `json:"categories"`
}

// CategoryBalance computes the derived state of a category for a month.
func (l *Ledger) CategoryBalance(id uuid.UUID, month types.Month) (CategoryMonth, error) {
	if month.IsZero() {
		return CategoryMonth{}, fmt.Errorf("%w: the month must be set", ErrValidation)
	}

	category, err := l.store.Category(id)
	if err != nil {
		return CategoryMonth{}, err
	}

	unlock := l.lockRead(categoryScope(id))
	defer unlock()

	return l.categoryMonth(category, month)
}

// Carryover returns the amount rolled into the month from the previous
// month: the previous month's closing balance. It is zero at the start
// of the category's history.
func (l *Ledger) Carryover(id uuid.UUID, month types.Month) (types.Cents, error) {
	if month.IsZero() {
		return 0, fmt.Errorf("%w: the month must be set", ErrValidation)
	}

	category, err := l.store.Category(id)
	if err != nil {
		return 0, err
	}

	unlock := l.lockRead(categoryScope(id))
	defer unlock()

	return l.closingBalance(category, month.Previous())
}

// AccountBalance returns the account balance including all non-void
// transactions dated before asOf.
func (l *Ledger) AccountBalance(id uuid.UUID, asOf time.Time) (types.Cents, error) {
	account, err := l.store.Account(id)
	if err != nil {
		return 0, err
	}

	unlock := l.lockRead(accountScope(id))
	defer unlock()

	return l.accountBalance(account, asOf)
}

// BudgetMonth computes the aggregate state of the budget for a month:
// per-category allocation, carryover, activity and balance, plus the
// budget totals. Category computations run concurrently since they are
// independent of each other.
func (l *Ledger) BudgetMonth(budget uuid.UUID, month types.Month) (Month, error) {
	if month.IsZero() {
		return Month{}, fmt.Errorf("%w: the month must be set", ErrValidation)
	}

	b, err := l.store.Budget(budget)
	if err != nil {
		return Month{}, err
	}

	categories, err := l.store.Categories(b.ID)
	if err != nil {
		return Month{}, err
	}

	result := Month{
		BudgetID:   b.ID,
		Month:      month,
		Categories: make([]CategoryMonth, len(categories)),
	}

	var g errgroup.Group
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			unlock := l.lockRead(categoryScope(category.ID))
			defer unlock()

			row, err := l.categoryMonth(category, month)
			if err != nil {
				return err
			}

			result.Categories[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Month{}, err
	}

	for _, row := range result.Categories {
		result.Allocated += row.Allocated
		result.Activity += row.Activity
		result.Balance += row.Balance
	}

	income, err := l.store.IncomeSum(b.ID, month)
	if err != nil {
		return Month{}, err
	}
	result.Income = income

	// Available is the money on all accounts at the end of the month
	// that no category claims.
	accounts, err := l.store.Accounts(b.ID)
	if err != nil {
		return Month{}, err
	}

	endOfMonth := time.Time(month.Next())
	var onAccounts types.Cents
	for _, account := range accounts {
		unlock := l.lockRead(accountScope(account.ID))
		balance, err := l.accountBalance(account, endOfMonth)
		unlock()
		if err != nil {
			return Month{}, err
		}

		onAccounts += balance
	}
	result.Available = onAccounts - result.Balance

	return result, nil
}

// FlushCache drops all memoized closing balances. Balances recomputed
// from the store afterwards must be identical, the cache is never a
// source of truth.
func (l *Ledger) FlushCache() {
	l.cache.clear()
}

// categoryMonth computes the CategoryMonth row. Callers hold at least a
// read lock on the category scope.
func (l *Ledger) categoryMonth(category models.Category, month types.Month) (CategoryMonth, error) {
	carryover, err := l.closingBalance(category, month.Previous())
	if err != nil {
		return CategoryMonth{}, err
	}

	var allocated types.Cents
	allocation, found, err := l.store.Allocation(category.ID, month)
	if err != nil {
		return CategoryMonth{}, err
	}
	if found {
		allocated = allocation.Amount
	}

	activity, err := l.store.ActivitySum(category.ID, month)
	if err != nil {
		return CategoryMonth{}, err
	}

	return CategoryMonth{
		Category:  category,
		Month:     month,
		Allocated: allocated,
		Carryover: carryover,
		Activity:  activity,
		Balance:   allocated + carryover + activity,
	}, nil
}

func (l *Ledger) accountBalance(account models.Account, asOf time.Time) (types.Cents, error) {
	balance, err := l.store.AccountSum(account.ID, asOf)
	if err != nil {
		return 0, err
	}

	if account.OpeningBalanceDate == nil || account.OpeningBalanceDate.Before(asOf) {
		balance += account.OpeningBalance
	}

	return balance, nil
}

// closingBalance returns the category balance at the end of the month.
// The rollover chain is walked forward from the category's first
// activity, memoizing every month's closing balance on the way.
// Concurrent computations of the same (category, month) are coalesced.
func (l *Ledger) closingBalance(category models.Category, month types.Month) (types.Cents, error) {
	if v, ok := l.cache.get(category.ID, month); ok {
		return v, nil
	}

	key := category.ID.String() + "/" + month.String()
	v, err, _ := l.flight.Do(key, func() (interface{}, error) {
		return l.computeClosing(category, month)
	})
	if err != nil {
		return 0, err
	}

	return v.(types.Cents), nil
}

func (l *Ledger) computeClosing(category models.Category, month types.Month) (types.Cents, error) {
	// The chain bottoms out at the earliest of the category's creation
	// month and its earliest recorded activity, so backdated
	// transactions stay inside the chain.
	start := types.MonthOf(category.CreatedAt.In(time.UTC))
	earliest, ok, err := l.store.EarliestActivity(category.ID)
	if err != nil {
		return 0, err
	}
	if ok && earliest.Before(start) {
		start = earliest
	}

	if month.Before(start) {
		return 0, nil
	}

	var balance types.Cents
	for m := start; !m.After(month); m = m.Next() {
		if v, ok := l.cache.get(category.ID, m); ok {
			balance = v
			continue
		}

		var allocated types.Cents
		allocation, found, err := l.store.Allocation(category.ID, m)
		if err != nil {
			return 0, err
		}
		if found {
			allocated = allocation.Amount
		}

		activity, err := l.store.ActivitySum(category.ID, m)
		if err != nil {
			return 0, err
		}

		balance += allocated + activity
		l.cache.set(category.ID, m, balance)
	}

	return balance, nil
}

// activeCategory loads a category for use as a reference in a mutation.
// Unknown and archived categories are invalid references.
func (l *Ledger) activeCategory(id uuid.UUID) (models.Category, error) {
	category, err := l.store.Category(id)
	if errors.Is(err, ErrNotFound) {
		return models.Category{}, fmt.Errorf("%w: no category with ID %s", ErrInvalidReference, id)
	}
	if err != nil {
		return models.Category{}, err
	}

	if category.Archived {
		return models.Category{}, fmt.Errorf("%w: the category %q is archived", ErrInvalidReference, category.Name)
	}

	return category, nil
}

// activeAccount loads an account for use as a reference in a mutation.
func (l *Ledger) activeAccount(id uuid.UUID) (models.Account, error) {
	account, err := l.store.Account(id)
	if errors.Is(err, ErrNotFound) {
		return models.Account{}, fmt.Errorf("%w: no account with ID %s", ErrInvalidReference, id)
	}
	if err != nil {
		return models.Account{}, err
	}

	if account.Archived {
		return models.Account{}, fmt.Errorf("%w: the account %q is archived", ErrInvalidReference, account.Name)
	}

	return account, nil
}
