// Package storage implements the ledger.Store contract on gorm.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/divvyup/backend/internal/ledger"
	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists ledger records in the database.
type Store struct {
	db *gorm.DB
}

// New returns a Store on the given database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// wrap maps database errors to the engine's error kinds.
func wrap(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrResourceNotFound) {
		return fmt.Errorf("%w: %s", ledger.ErrNotFound, err)
	}

	return fmt.Errorf("%w: %s", ledger.ErrStorageUnavailable, err)
}

func (s *Store) Budget(id uuid.UUID) (models.Budget, error) {
	var budget models.Budget
	err := s.db.First(&budget, id).Error
	return budget, wrap(err)
}

func (s *Store) Account(id uuid.UUID) (models.Account, error) {
	var account models.Account
	err := s.db.First(&account, id).Error
	return account, wrap(err)
}

func (s *Store) Category(id uuid.UUID) (models.Category, error) {
	var category models.Category
	err := s.db.First(&category, id).Error
	return category, wrap(err)
}

func (s *Store) Transaction(id uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.First(&transaction, id).Error
	return transaction, wrap(err)
}

func (s *Store) Allocation(category uuid.UUID, month types.Month) (models.Allocation, bool, error) {
	var allocation models.Allocation
	err := s.db.First(&allocation, &models.Allocation{CategoryID: category, Month: month}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrResourceNotFound) {
		return models.Allocation{}, false, nil
	}
	if err != nil {
		return models.Allocation{}, false, wrap(err)
	}

	return allocation, true, nil
}

func (s *Store) UpsertAllocation(a models.Allocation) error {
	return wrap(s.upsertAllocation(s.db, a))
}

func (s *Store) UpsertAllocations(allocations ...models.Allocation) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, a := range allocations {
			if err := s.upsertAllocation(tx, a); err != nil {
				return err
			}
		}
		return nil
	})

	return wrap(err)
}

// upsertAllocation relies on the (category_id, month) primary key: a
// conflicting insert updates the amount instead.
func (s *Store) upsertAllocation(db *gorm.DB, a models.Allocation) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&a).Error
}

func (s *Store) CreateTransaction(t *models.Transaction) error {
	return wrap(s.db.Create(t).Error)
}

func (s *Store) CreateTransferPair(outgoing, incoming *models.Transaction) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(outgoing).Error; err != nil {
			return err
		}

		return tx.Create(incoming).Error
	})

	return wrap(err)
}

func (s *Store) SaveTransactions(transactions ...*models.Transaction) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, t := range transactions {
			if err := tx.Save(t).Error; err != nil {
				return err
			}
		}
		return nil
	})

	return wrap(err)
}

func (s *Store) ActivitySum(category uuid.UUID, month types.Month) (types.Cents, error) {
	var sum sql.NullInt64

	err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", category).
		Where("voided_at IS NULL").
		Where("transactions.date >= date(?)", time.Time(month)).
		Where("transactions.date < date(?)", time.Time(month.Next())).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return 0, wrap(err)
	}

	if !sum.Valid {
		return 0, nil
	}

	return types.Cents(sum.Int64), nil
}

func (s *Store) AccountSum(account uuid.UUID, until time.Time) (types.Cents, error) {
	var sum sql.NullInt64

	err := s.db.Model(&models.Transaction{}).
		Where("account_id = ?", account).
		Where("voided_at IS NULL").
		Where("datetime(transactions.date) < datetime(?)", until).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return 0, wrap(err)
	}

	if !sum.Valid {
		return 0, nil
	}

	return types.Cents(sum.Int64), nil
}

func (s *Store) EarliestActivity(category uuid.UUID) (types.Month, bool, error) {
	var earliest sql.NullTime

	err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", category).
		Where("voided_at IS NULL").
		Select("MIN(date)").
		Row().
		Scan(&earliest)
	if err != nil {
		return types.Month{}, false, wrap(err)
	}

	var first *types.Month
	if earliest.Valid {
		m := types.MonthOf(earliest.Time.In(time.UTC))
		first = &m
	}

	var earliestAllocation sql.NullTime
	err = s.db.Model(&models.Allocation{}).
		Where(&models.Allocation{CategoryID: category}).
		Select("MIN(month)").
		Row().
		Scan(&earliestAllocation)
	if err != nil {
		return types.Month{}, false, wrap(err)
	}

	if earliestAllocation.Valid {
		m := types.MonthOf(earliestAllocation.Time.In(time.UTC))
		if first == nil || m.Before(*first) {
			first = &m
		}
	}

	if first == nil {
		return types.Month{}, false, nil
	}

	return *first, true, nil
}

func (s *Store) Categories(budget uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.
		Where(&models.Category{BudgetID: budget}).
		Order("name ASC").
		Find(&categories).Error

	return categories, wrap(err)
}

func (s *Store) Accounts(budget uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	err := s.db.
		Where(&models.Account{BudgetID: budget}).
		Order("name ASC").
		Find(&accounts).Error

	return accounts, wrap(err)
}

func (s *Store) IncomeSum(budget uuid.UUID, month types.Month) (types.Cents, error) {
	var sum sql.NullInt64

	err := s.db.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.budget_id = ?", budget).
		Where("transactions.voided_at IS NULL").
		Where("transactions.linked_id IS NULL").
		Where("transactions.amount > 0").
		Where("transactions.date >= date(?)", time.Time(month)).
		Where("transactions.date < date(?)", time.Time(month.Next())).
		Select("SUM(transactions.amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return 0, wrap(err)
	}

	if !sum.Valid {
		return 0, nil
	}

	return types.Cents(sum.Int64), nil
}

func (s *Store) MatchRules(budget uuid.UUID) ([]models.MatchRule, error) {
	var rules []models.MatchRule
	err := s.db.
		Where(&models.MatchRule{BudgetID: budget}).
		Order("priority ASC, match ASC").
		Find(&rules).Error

	return rules, wrap(err)
}
