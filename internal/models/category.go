package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a spending envelope: money is allocated to it monthly
// and expenses draw it down.
type Category struct {
	DefaultModel
	Budget   Budget    `json:"-"`
	BudgetID uuid.UUID `json:"budgetId" gorm:"uniqueIndex:category_budget_name" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	Name     string    `json:"name" gorm:"uniqueIndex:category_budget_name" example:"Groceries" default:""`
	Group    string    `json:"group" example:"Daily life" default:""` // Optional grouping of categories
	Note     string    `json:"note" example:"Everything bought at supermarkets" default:""`
	Archived bool      `json:"archived" example:"true" default:"false"`
}

// BeforeSave trims whitespace from all strings.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Group = strings.TrimSpace(c.Group)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)
	return tx.First(&Budget{}, c.BudgetID).Error
}

// Referenced reports whether any transaction or allocation references
// the category. Referenced categories are archived instead of deleted
// to keep history intact.
func (c Category) Referenced(db *gorm.DB) (bool, error) {
	var transactions int64
	err := db.Unscoped().Model(&Transaction{}).Where("category_id = ?", c.ID).Count(&transactions).Error
	if err != nil {
		return false, err
	}

	var allocations int64
	err = db.Unscoped().Model(&Allocation{}).Where(&Allocation{CategoryID: c.ID}).Count(&allocations).Error
	if err != nil {
		return false, err
	}

	return transactions > 0 || allocations > 0, nil
}

// Export returns all categories on this instance.
func (Category) Export() (json.RawMessage, error) {
	var categories []Category
	err := DB.Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return json.Marshal(&categories)
}
