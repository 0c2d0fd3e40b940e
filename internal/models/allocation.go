package models

import (
	"encoding/json"

	"github.com/divvyup/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allocation is the amount of money assigned to a category for one
// month. The composite primary key guarantees at most one row per
// (category, month) at the schema level.
type Allocation struct {
	Timestamps
	Category   Category    `json:"-"`
	CategoryID uuid.UUID   `json:"categoryId" gorm:"primaryKey" example:"10b9705d-3356-459e-9d5a-28d42a6c4547"`
	Month      types.Month `json:"month" gorm:"primaryKey" example:"2022-04-01T00:00:00.000000Z"` // Always set to 00:00 UTC on the first of the month
	Amount     types.Cents `json:"amount" example:"50000" default:"0"`                            // Assigned amount in minor units, may be negative
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	return tx.First(&Category{}, a.CategoryID).Error
}

// Export returns all allocations on this instance.
func (Allocation) Export() (json.RawMessage, error) {
	var allocations []Allocation
	err := DB.Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	return json.Marshal(&allocations)
}
