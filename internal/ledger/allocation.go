package ledger

import (
	"fmt"

	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/types"
	"github.com/google/uuid"
)

// SetAllocation assigns an amount to a category for a month, replacing
// any previous assignment for the same month. The amount may be
// negative to explicitly take money out of the category.
func (l *Ledger) SetAllocation(category uuid.UUID, month types.Month, amount types.Cents) (models.Allocation, error) {
	if month.IsZero() {
		return models.Allocation{}, fmt.Errorf("%w: the month must be set", ErrValidation)
	}

	c, err := l.activeCategory(category)
	if err != nil {
		return models.Allocation{}, err
	}

	unlock := l.lockWrite(categoryScope(c.ID))
	defer unlock()

	allocation := models.Allocation{
		CategoryID: c.ID,
		Month:      month,
		Amount:     amount,
	}

	err = l.store.UpsertAllocation(allocation)
	if err != nil {
		return models.Allocation{}, err
	}

	// Carryover chains forward, everything from this month on is stale.
	l.cache.invalidateFrom(c.ID, month)

	return allocation, nil
}

// Allocation returns the allocation for a category and month. The bool
// reports whether an allocation exists.
func (l *Ledger) Allocation(category uuid.UUID, month types.Month) (models.Allocation, bool, error) {
	if month.IsZero() {
		return models.Allocation{}, false, fmt.Errorf("%w: the month must be set", ErrValidation)
	}

	c, err := l.store.Category(category)
	if err != nil {
		return models.Allocation{}, false, err
	}

	unlock := l.lockRead(categoryScope(c.ID))
	defer unlock()

	return l.store.Allocation(c.ID, month)
}

// MoveAllocation moves allocated money from one category to another
// within the same month. The total amount allocated for the month does
// not change.
func (l *Ledger) MoveAllocation(from, to uuid.UUID, month types.Month, amount types.Cents) error {
	if month.IsZero() {
		return fmt.Errorf("%w: the month must be set", ErrValidation)
	}

	if amount <= 0 {
		return fmt.Errorf("%w: the amount to move must be positive", ErrValidation)
	}

	if from == to {
		return fmt.Errorf("%w: the source and destination category must be different", ErrValidation)
	}

	source, err := l.activeCategory(from)
	if err != nil {
		return err
	}

	destination, err := l.activeCategory(to)
	if err != nil {
		return err
	}

	if source.BudgetID != destination.BudgetID {
		return fmt.Errorf("%w: the categories %s and %s belong to different budgets", ErrInvalidReference, source.ID, destination.ID)
	}

	unlock := l.lockWrite(categoryScope(source.ID), categoryScope(destination.ID))
	defer unlock()

	var sourceAmount, destinationAmount types.Cents

	allocation, found, err := l.store.Allocation(source.ID, month)
	if err != nil {
		return err
	}
	if found {
		sourceAmount = allocation.Amount
	}

	allocation, found, err = l.store.Allocation(destination.ID, month)
	if err != nil {
		return err
	}
	if found {
		destinationAmount = allocation.Amount
	}

	err = l.store.UpsertAllocations(
		models.Allocation{CategoryID: source.ID, Month: month, Amount: sourceAmount - amount},
		models.Allocation{CategoryID: destination.ID, Month: month, Amount: destinationAmount + amount},
	)
	if err != nil {
		return err
	}

	l.cache.invalidateFrom(source.ID, month)
	l.cache.invalidateFrom(destination.ID, month)

	return nil
}
