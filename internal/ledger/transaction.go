package ledger

import (
	"fmt"
	"time"

	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/types"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
)

// TransactionRecord describes a new transaction. When CategoryID is
// nil, the budget's match rules resolve the category from the payee;
// a record that resolves to no category is rejected.
type TransactionRecord struct {
	AccountID  uuid.UUID
	CategoryID *uuid.UUID
	Payee      string
	Note       string
	Amount     types.Cents
	Date       time.Time
	Cleared    bool
}

// TransactionAmendment describes changes to an existing transaction.
// Nil fields stay untouched.
//
// CheckedAt is the UpdatedAt timestamp from when the caller read the
// transaction. When set, the amendment fails with ErrConflict if the
// transaction changed since then.
type TransactionAmendment struct {
	Amount     *types.Cents
	Date       *time.Time
	CategoryID *uuid.UUID
	AccountID  *uuid.UUID
	Payee      *string
	Note       *string
	Cleared    *bool
	CheckedAt  time.Time
}

// RecordTransaction validates and persists a new transaction and
// invalidates the affected category balances. Overspending is allowed:
// the category balance may go negative, that is a signal for the owner,
// not an error.
func (l *Ledger) RecordTransaction(record TransactionRecord) (models.Transaction, error) {
	if record.Amount.IsZero() {
		return models.Transaction{}, fmt.Errorf("%w: the transaction amount must not be zero", ErrValidation)
	}

	if record.Date.IsZero() {
		return models.Transaction{}, fmt.Errorf("%w: the transaction date must be set", ErrValidation)
	}

	account, err := l.activeAccount(record.AccountID)
	if err != nil {
		return models.Transaction{}, err
	}

	categoryID := record.CategoryID
	if categoryID == nil {
		categoryID, err = l.matchCategory(account.BudgetID, record.Payee)
		if err != nil {
			return models.Transaction{}, err
		}
	}

	category, err := l.activeCategory(*categoryID)
	if err != nil {
		return models.Transaction{}, err
	}

	if category.BudgetID != account.BudgetID {
		return models.Transaction{}, fmt.Errorf("%w: the category %s does not belong to the budget of the account %s", ErrInvalidReference, category.ID, account.ID)
	}

	unlock := l.lockWrite(categoryScope(category.ID), accountScope(account.ID))
	defer unlock()

	transaction := models.Transaction{
		AccountID:  account.ID,
		CategoryID: &category.ID,
		Payee:      record.Payee,
		Note:       record.Note,
		Amount:     record.Amount,
		Date:       record.Date.In(time.UTC),
		Cleared:    record.Cleared,
	}

	err = l.store.CreateTransaction(&transaction)
	if err != nil {
		return models.Transaction{}, err
	}

	l.cache.invalidateFrom(category.ID, types.MonthOf(transaction.Date))

	return transaction, nil
}

// RecordTransfer moves money between two accounts as a pair of linked
// transactions with opposite signs. The legs always sum to zero and
// neither has a category, so transfers never affect category balances.
func (l *Ledger) RecordTransfer(from, to uuid.UUID, amount types.Cents, date time.Time, note string) (models.Transaction, models.Transaction, error) {
	if amount <= 0 {
		return models.Transaction{}, models.Transaction{}, fmt.Errorf("%w: the transfer amount must be positive", ErrValidation)
	}

	if date.IsZero() {
		return models.Transaction{}, models.Transaction{}, fmt.Errorf("%w: the transfer date must be set", ErrValidation)
	}

	if from == to {
		return models.Transaction{}, models.Transaction{}, fmt.Errorf("%w: %s", ErrInvalidTransfer, from)
	}

	source, err := l.activeAccount(from)
	if err != nil {
		return models.Transaction{}, models.Transaction{}, err
	}

	destination, err := l.activeAccount(to)
	if err != nil {
		return models.Transaction{}, models.Transaction{}, err
	}

	if source.BudgetID != destination.BudgetID {
		return models.Transaction{}, models.Transaction{}, fmt.Errorf("%w: the accounts %s and %s belong to different budgets", ErrInvalidReference, source.ID, destination.ID)
	}

	unlock := l.lockWrite(accountScope(source.ID), accountScope(destination.ID))
	defer unlock()

	// IDs are generated here so the legs can reference each other on create.
	outgoing := models.Transaction{
		DefaultModel: models.DefaultModel{ID: uuid.New()},
		AccountID:    source.ID,
		Amount:       amount.Neg(),
		Date:         date.In(time.UTC),
		Note:         note,
	}
	incoming := models.Transaction{
		DefaultModel: models.DefaultModel{ID: uuid.New()},
		AccountID:    destination.ID,
		Amount:       amount,
		Date:         date.In(time.UTC),
		Note:         note,
	}
	outgoing.LinkedID = &incoming.ID
	incoming.LinkedID = &outgoing.ID

	err = l.store.CreateTransferPair(&outgoing, &incoming)
	if err != nil {
		return models.Transaction{}, models.Transaction{}, err
	}

	return outgoing, incoming, nil
}

// AmendTransaction updates an existing transaction. Moving a
// transaction across a period boundary shifts carryover for every
// subsequent period, so balance caches are invalidated for both the old
// and the new (category, month).
//
// Amount and date changes on a transfer leg are mirrored onto the
// linked leg so the pair keeps summing to zero; assigning a category to
// a transfer leg is invalid.
func (l *Ledger) AmendTransaction(id uuid.UUID, changes TransactionAmendment) (models.Transaction, error) {
	transaction, err := l.store.Transaction(id)
	if err != nil {
		return models.Transaction{}, err
	}

	if transaction.Void() {
		return models.Transaction{}, fmt.Errorf("%w: a voided transaction cannot be amended", ErrValidation)
	}

	if !changes.CheckedAt.IsZero() && !changes.CheckedAt.Equal(transaction.UpdatedAt) {
		return models.Transaction{}, fmt.Errorf("%w: the transaction was updated at %s", ErrConflict, transaction.UpdatedAt.Format(time.RFC3339))
	}

	if transaction.TransferLeg() {
		return l.amendTransferLeg(transaction, changes)
	}

	scopes := []string{accountScope(transaction.AccountID)}
	if transaction.CategoryID != nil {
		scopes = append(scopes, categoryScope(*transaction.CategoryID))
	}

	oldCategory := transaction.CategoryID
	oldMonth := types.MonthOf(transaction.Date)

	if changes.Amount != nil {
		if changes.Amount.IsZero() {
			return models.Transaction{}, fmt.Errorf("%w: the transaction amount must not be zero", ErrValidation)
		}
		transaction.Amount = *changes.Amount
	}

	if changes.Date != nil {
		if changes.Date.IsZero() {
			return models.Transaction{}, fmt.Errorf("%w: the transaction date must be set", ErrValidation)
		}
		transaction.Date = changes.Date.In(time.UTC)
	}

	if changes.CategoryID != nil {
		category, err := l.activeCategory(*changes.CategoryID)
		if err != nil {
			return models.Transaction{}, err
		}
		transaction.CategoryID = &category.ID
		scopes = append(scopes, categoryScope(category.ID))
	}

	if changes.AccountID != nil {
		account, err := l.activeAccount(*changes.AccountID)
		if err != nil {
			return models.Transaction{}, err
		}
		transaction.AccountID = account.ID
		scopes = append(scopes, accountScope(account.ID))
	}

	// Re-categorizing or moving to another account must not cross
	// budgets, both legs of the derived state live in one budget.
	if (changes.CategoryID != nil || changes.AccountID != nil) && transaction.CategoryID != nil {
		account, err := l.store.Account(transaction.AccountID)
		if err != nil {
			return models.Transaction{}, err
		}

		category, err := l.store.Category(*transaction.CategoryID)
		if err != nil {
			return models.Transaction{}, err
		}

		if category.BudgetID != account.BudgetID {
			return models.Transaction{}, fmt.Errorf("%w: the category %s does not belong to the budget of the account %s", ErrInvalidReference, category.ID, account.ID)
		}
	}

	if changes.Payee != nil {
		transaction.Payee = *changes.Payee
	}
	if changes.Note != nil {
		transaction.Note = *changes.Note
	}
	if changes.Cleared != nil {
		transaction.Cleared = *changes.Cleared
	}

	unlock := l.lockWrite(scopes...)
	defer unlock()

	// Guard against a concurrent amendment between the read above and
	// acquiring the locks.
	current, err := l.store.Transaction(id)
	if err != nil {
		return models.Transaction{}, err
	}
	if !current.UpdatedAt.Equal(transaction.UpdatedAt) {
		return models.Transaction{}, fmt.Errorf("%w: the transaction was updated at %s", ErrConflict, current.UpdatedAt.Format(time.RFC3339))
	}

	err = l.store.SaveTransactions(&transaction)
	if err != nil {
		return models.Transaction{}, err
	}

	newMonth := types.MonthOf(transaction.Date)
	invalidateMonth := oldMonth
	if newMonth.Before(oldMonth) {
		invalidateMonth = newMonth
	}

	if oldCategory != nil {
		l.cache.invalidateFrom(*oldCategory, invalidateMonth)
	}
	if transaction.CategoryID != nil && (oldCategory == nil || *transaction.CategoryID != *oldCategory) {
		l.cache.invalidateFrom(*transaction.CategoryID, invalidateMonth)
	}

	return transaction, nil
}

// VoidTransaction soft-deletes a transaction: it is excluded from all
// balances but kept for audit. Voiding a transfer leg voids both legs.
// Voiding an already voided transaction is a no-op.
func (l *Ledger) VoidTransaction(id uuid.UUID) error {
	transaction, err := l.store.Transaction(id)
	if err != nil {
		return err
	}

	if transaction.Void() {
		return nil
	}

	scopes := []string{accountScope(transaction.AccountID)}
	if transaction.CategoryID != nil {
		scopes = append(scopes, categoryScope(*transaction.CategoryID))
	}

	var linked models.Transaction
	if transaction.TransferLeg() {
		linked, err = l.store.Transaction(*transaction.LinkedID)
		if err != nil {
			return err
		}
		scopes = append(scopes, accountScope(linked.AccountID))
	}

	unlock := l.lockWrite(scopes...)
	defer unlock()

	// Re-read under the lock, another request may have voided it already.
	transaction, err = l.store.Transaction(id)
	if err != nil {
		return err
	}
	if transaction.Void() {
		return nil
	}

	now := time.Now().In(time.UTC)
	transaction.VoidedAt = &now

	legs := []*models.Transaction{&transaction}
	if transaction.TransferLeg() {
		linked, err = l.store.Transaction(*transaction.LinkedID)
		if err != nil {
			return err
		}
		if !linked.Void() {
			linked.VoidedAt = &now
			legs = append(legs, &linked)
		}
	}

	err = l.store.SaveTransactions(legs...)
	if err != nil {
		return err
	}

	if transaction.CategoryID != nil {
		l.cache.invalidateFrom(*transaction.CategoryID, types.MonthOf(transaction.Date))
	}

	return nil
}

// amendTransferLeg applies an amendment to one leg of a transfer and
// mirrors amount and date changes onto the linked leg.
func (l *Ledger) amendTransferLeg(transaction models.Transaction, changes TransactionAmendment) (models.Transaction, error) {
	if changes.CategoryID != nil {
		return models.Transaction{}, fmt.Errorf("%w: a transfer leg cannot be assigned a category", ErrValidation)
	}

	linked, err := l.store.Transaction(*transaction.LinkedID)
	if err != nil {
		return models.Transaction{}, err
	}

	scopes := []string{accountScope(transaction.AccountID), accountScope(linked.AccountID)}

	if changes.Amount != nil {
		if changes.Amount.IsZero() {
			return models.Transaction{}, fmt.Errorf("%w: the transfer amount must not be zero", ErrValidation)
		}
		transaction.Amount = *changes.Amount
		linked.Amount = changes.Amount.Neg()
	}

	if changes.Date != nil {
		if changes.Date.IsZero() {
			return models.Transaction{}, fmt.Errorf("%w: the transfer date must be set", ErrValidation)
		}
		transaction.Date = changes.Date.In(time.UTC)
		linked.Date = transaction.Date
	}

	if changes.AccountID != nil {
		account, err := l.activeAccount(*changes.AccountID)
		if err != nil {
			return models.Transaction{}, err
		}
		if account.ID == linked.AccountID {
			return models.Transaction{}, fmt.Errorf("%w: %s", ErrInvalidTransfer, account.ID)
		}

		other, err := l.store.Account(linked.AccountID)
		if err != nil {
			return models.Transaction{}, err
		}
		if account.BudgetID != other.BudgetID {
			return models.Transaction{}, fmt.Errorf("%w: the accounts %s and %s belong to different budgets", ErrInvalidReference, account.ID, other.ID)
		}

		transaction.AccountID = account.ID
		scopes = append(scopes, accountScope(account.ID))
	}

	if changes.Payee != nil {
		transaction.Payee = *changes.Payee
	}
	if changes.Note != nil {
		transaction.Note = *changes.Note
	}
	if changes.Cleared != nil {
		transaction.Cleared = *changes.Cleared
	}

	unlock := l.lockWrite(scopes...)
	defer unlock()

	current, err := l.store.Transaction(transaction.ID)
	if err != nil {
		return models.Transaction{}, err
	}
	if !current.UpdatedAt.Equal(transaction.UpdatedAt) {
		return models.Transaction{}, fmt.Errorf("%w: the transaction was updated at %s", ErrConflict, current.UpdatedAt.Format(time.RFC3339))
	}

	err = l.store.SaveTransactions(&transaction, &linked)
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// matchCategory resolves a category from the payee via the budget's
// match rules. The first matching rule in priority order wins.
func (l *Ledger) matchCategory(budget uuid.UUID, payee string) (*uuid.UUID, error) {
	if payee != "" {
		rules, err := l.store.MatchRules(budget)
		if err != nil {
			return nil, err
		}

		for _, rule := range rules {
			if glob.Glob(rule.Match, payee) {
				return &rule.CategoryID, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: a transaction needs a category, and no match rule applies to the payee %q", ErrValidation, payee)
}
