package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchRule assigns a category to new transactions whose payee matches
// a glob pattern. Rules are evaluated in ascending priority order, the
// first match wins.
type MatchRule struct {
	DefaultModel
	Budget     Budget    `json:"-"`
	BudgetID   uuid.UUID `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	CategoryID uuid.UUID `json:"categoryId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"`
	Priority   uint      `json:"priority" example:"1"`
	Match      string    `json:"match" example:"Bakery*"`
}

func (r *MatchRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	if r.Match == "" {
		return ErrMatchRulePatternEmpty
	}

	return nil
}

func (r *MatchRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	err := tx.First(&Budget{}, r.BudgetID).Error
	if err != nil {
		return err
	}

	return tx.First(&Category{}, r.CategoryID).Error
}

// Export returns all match rules on this instance.
func (MatchRule) Export() (json.RawMessage, error) {
	var rules []MatchRule
	err := DB.Find(&rules).Error
	if err != nil {
		return nil, err
	}

	return json.Marshal(&rules)
}
