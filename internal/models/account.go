package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/divvyup/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountKind determines which side of the balance sheet an account is on.
type AccountKind string

const (
	AccountAsset     AccountKind = "asset"
	AccountLiability AccountKind = "liability"
)

// Account represents a holder of money, e.g. a bank account.
type Account struct {
	DefaultModel
	Budget             Budget      `json:"-"`
	BudgetID           uuid.UUID   `json:"budgetId" gorm:"uniqueIndex:account_name_budget_id" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`
	Name               string      `json:"name" gorm:"uniqueIndex:account_name_budget_id" example:"Cash" default:""`
	Note               string      `json:"note" example:"Money in my wallet" default:""`
	Kind               AccountKind `json:"kind" example:"asset" default:"asset"`
	OpeningBalance     types.Cents `json:"openingBalance" example:"10000" default:"0"` // Balance of the account before any transactions, in minor units
	OpeningBalanceDate *time.Time  `json:"openingBalanceDate" example:"2022-04-01T00:00:00Z"`
	Archived           bool        `json:"archived" example:"true" default:"false"`
}

// BeforeSave sets the default kind and trims whitespace.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)

	if a.Kind == "" {
		a.Kind = AccountAsset
	}

	if a.Kind != AccountAsset && a.Kind != AccountLiability {
		return fmt.Errorf("%w: %s", ErrAccountKindInvalid, a.Kind)
	}

	return nil
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)
	return a.checkIntegrity(tx)
}

// BeforeUpdate verifies the state of the account before
// committing an update to the database.
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("BudgetID") {
		return a.checkIntegrity(tx)
	}

	return nil
}

// checkIntegrity verifies references to other resources.
func (a *Account) checkIntegrity(tx *gorm.DB) error {
	return tx.First(&Budget{}, a.BudgetID).Error
}

// Referenced reports whether any transaction references the account.
func (a Account) Referenced(db *gorm.DB) (bool, error) {
	var count int64
	err := db.Unscoped().Model(&Transaction{}).Where(&Transaction{AccountID: a.ID}).Count(&count).Error
	return count > 0, err
}

// Export returns all accounts on this instance.
func (Account) Export() (json.RawMessage, error) {
	var accounts []Account
	err := DB.Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	return json.Marshal(&accounts)
}
