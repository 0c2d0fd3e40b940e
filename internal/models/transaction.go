package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/divvyup/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is a single ledger entry on one account. Transfers
// between accounts are represented as two linked rows with opposite
// signs, so the ledger stays a single append-mostly sequence.
type Transaction struct {
	DefaultModel
	Account    Account    `json:"-"`
	AccountID  uuid.UUID  `json:"accountId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"`
	Category   *Category  `json:"-"`
	CategoryID *uuid.UUID `json:"categoryId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"` // Only nil for transfer legs
	// LinkedID references the other leg of a transfer. Both legs
	// reference each other.
	LinkedID *uuid.UUID  `json:"linkedId" example:"8e16b456-a719-48ce-9fec-e115cfa7cbcc"`
	Payee    string      `json:"payee" example:"Grocery store" default:""`
	Note     string      `json:"note" example:"Lunch" default:""`
	Amount   types.Cents `json:"amount" example:"-1203"`                  // Amount in minor units, negative amounts are outflows
	Date     time.Time   `json:"date" example:"2022-04-02T00:00:00Z"`     // Day of the transaction, time of day is only used for sorting
	Cleared  bool        `json:"cleared" example:"true" default:"false"`  // Has the transaction shown up on the account statement?
	VoidedAt *time.Time  `json:"voidedAt" example:"2022-04-03T08:31:04Z"` // When set, the transaction is excluded from all balances
}

// BeforeSave enforces UTC dates and trims whitespace.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Payee = strings.TrimSpace(t.Payee)
	t.Note = strings.TrimSpace(t.Note)

	// Ensure that the category ID is nil and not a pointer to a nil UUID
	if t.CategoryID != nil && *t.CategoryID == uuid.Nil {
		t.CategoryID = nil
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return nil
}

// AfterFind enforces UTC dates, see Timestamps.AfterFind.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.Timestamps.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	if t.VoidedAt != nil {
		utc := t.VoidedAt.In(time.UTC)
		t.VoidedAt = &utc
	}
	return
}

// Void reports whether the transaction has been voided.
func (t Transaction) Void() bool {
	return t.VoidedAt != nil
}

// TransferLeg reports whether the transaction is one half of a
// transfer between two accounts.
func (t Transaction) TransferLeg() bool {
	return t.LinkedID != nil
}

// Export returns all transactions on this instance, including voided ones.
func (Transaction) Export() (json.RawMessage, error) {
	var transactions []Transaction
	err := DB.Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return json.Marshal(&transactions)
}
