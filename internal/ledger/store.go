package ledger

import (
	"time"

	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/types"
	"github.com/google/uuid"
)

// Store is the persistence contract the engine requires. The production
// implementation lives in internal/storage on gorm, tests may substitute
// their own.
//
// Lookup methods return ErrNotFound (wrapped) when no record matches.
// All other failures map to ErrStorageUnavailable. Multi-row writes
// (transfer pairs, allocation moves, mirrored amendments) are atomic:
// both rows or neither.
type Store interface {
	Budget(id uuid.UUID) (models.Budget, error)
	Account(id uuid.UUID) (models.Account, error)
	Category(id uuid.UUID) (models.Category, error)
	Transaction(id uuid.UUID) (models.Transaction, error)

	// Allocation returns the allocation row for the category and month.
	// The bool reports whether a row exists; a missing row is not an error.
	Allocation(category uuid.UUID, month types.Month) (models.Allocation, bool, error)

	// UpsertAllocation creates or replaces the single allocation row
	// for (a.CategoryID, a.Month).
	UpsertAllocation(a models.Allocation) error

	// UpsertAllocations applies several upserts atomically.
	UpsertAllocations(allocations ...models.Allocation) error

	CreateTransaction(t *models.Transaction) error

	// CreateTransferPair persists both legs of a transfer atomically.
	CreateTransferPair(outgoing, incoming *models.Transaction) error

	// SaveTransactions persists updates to one or more transactions
	// atomically.
	SaveTransactions(transactions ...*models.Transaction) error

	// ActivitySum returns the sum of all non-void transaction amounts
	// for the category with a date in the month.
	ActivitySum(category uuid.UUID, month types.Month) (types.Cents, error)

	// AccountSum returns the sum of all non-void transaction amounts on
	// the account with a date before the given time.
	AccountSum(account uuid.UUID, until time.Time) (types.Cents, error)

	// EarliestActivity returns the month of the earliest non-void
	// transaction or allocation of the category. The bool reports
	// whether any activity exists.
	EarliestActivity(category uuid.UUID) (types.Month, bool, error)

	// Categories returns all categories of the budget, archived ones
	// included, ordered by name.
	Categories(budget uuid.UUID) ([]models.Category, error)

	// Accounts returns all accounts of the budget ordered by name.
	Accounts(budget uuid.UUID) ([]models.Account, error)

	// IncomeSum returns the sum of all positive non-void, non-transfer
	// transaction amounts in the budget with a date in the month.
	IncomeSum(budget uuid.UUID, month types.Month) (types.Cents, error)

	// MatchRules returns the budget's match rules ordered by ascending
	// priority.
	MatchRules(budget uuid.UUID) ([]models.MatchRule, error)
}
