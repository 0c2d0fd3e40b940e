package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	// Fallback timezone database so that validation works on systems
	// without tzdata installed.
	_ "time/tzdata"

	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// Budget is the root resource of one isolated budget. All accounts,
// categories, allocations and transactions reference it directly or
// transitively.
type Budget struct {
	DefaultModel
	Name     string `json:"name" example:"Household Budget" default:""`
	Note     string `json:"note" example:"My personal expenses" default:""`
	Currency string `json:"currency" example:"EUR" default:"EUR"` // ISO 4217 currency code
	TimeZone string `json:"timeZone" example:"Europe/Berlin" default:"UTC"`
}

// BeforeSave validates the currency and timezone and trims whitespace.
func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)
	b.Currency = strings.TrimSpace(b.Currency)
	b.TimeZone = strings.TrimSpace(b.TimeZone)

	if b.Currency == "" {
		b.Currency = "EUR"
	}

	if _, err := currency.ParseISO(b.Currency); err != nil {
		return fmt.Errorf("%w: %s", ErrBudgetCurrencyInvalid, b.Currency)
	}

	if b.TimeZone == "" {
		b.TimeZone = "UTC"
	}

	if _, err := time.LoadLocation(b.TimeZone); err != nil {
		return fmt.Errorf("%w: %s", ErrBudgetTimeZoneInvalid, b.TimeZone)
	}

	return nil
}

// Location returns the timezone the budget owner resolves dates in.
// The timezone is validated on save, so failures to load it here
// fall back to UTC.
func (b Budget) Location() *time.Location {
	loc, err := time.LoadLocation(b.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Referenced reports whether any account or category still belongs
// to the budget.
func (b Budget) Referenced(db *gorm.DB) (bool, error) {
	var count int64
	err := db.Model(&Account{}).Where(&Account{BudgetID: b.ID}).Count(&count).Error
	if err != nil || count > 0 {
		return count > 0, err
	}

	err = db.Model(&Category{}).Where(&Category{BudgetID: b.ID}).Count(&count).Error
	return count > 0, err
}

// Export returns all budgets on this instance.
func (Budget) Export() (json.RawMessage, error) {
	var budgets []Budget
	err := DB.Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	return json.Marshal(&budgets)
}
