package v1

import (
	"fmt"
	"time"

	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/types"
	du_uuid "github.com/divvyup/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AllocationEditable struct {
	CategoryID uuid.UUID   `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91f71defe"` // ID of the category the money is allocated to
	Month      types.Month `json:"month" example:"2022-04-01T00:00:00Z"`                      // The month the allocation is for
	Amount     types.Cents `json:"amount" example:"50000"`                                    // The allocated amount in cents
}

type AllocationLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/allocations/3b1ea324-d438-4419-882a-2fc91f71defe/2022-04"` // The allocation itself
	Category string `json:"category" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91f71defe"`      // The category the allocation belongs to
}

// Allocation is the representation of an Allocation in API v1. An
// allocation is identified by its category and month, it has no own ID.
type Allocation struct {
	models.Timestamps
	AllocationEditable
	Links AllocationLinks `json:"links"`
}

// newAllocation returns the API v1 representation of the resource
func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := c.GetString("baseURL")

	return Allocation{
		Timestamps: model.Timestamps,
		AllocationEditable: AllocationEditable{
			CategoryID: model.CategoryID,
			Month:      model.Month,
			Amount:     model.Amount,
		},
		Links: AllocationLinks{
			Self:     fmt.Sprintf("%s/v1/allocations/%s/%s", url, model.CategoryID, model.Month),
			Category: fmt.Sprintf("%s/v1/categories/%s", url, model.CategoryID),
		},
	}
}

type AllocationResponse struct {
	Data  *Allocation `json:"data"`                                                          // Data for the allocation
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AllocationListResponse struct {
	Data       []Allocation `json:"data"`                                                          // List of allocations
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

// AllocationMoveRequest moves allocated money from one category to
// another within a month.
type AllocationMoveRequest struct {
	FromCategoryID uuid.UUID   `json:"fromCategoryId" example:"3b1ea324-d438-4419-882a-2fc91f71defe"` // Category the money is taken from
	ToCategoryID   uuid.UUID   `json:"toCategoryId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"`   // Category the money is moved to
	Month          types.Month `json:"month" example:"2022-04-01T00:00:00Z"`                          // The month the move applies to
	Amount         types.Cents `json:"amount" example:"10000"`                                        // The amount to move in cents, must be positive
}

type AllocationQueryFilter struct {
	CategoryID du_uuid.UUID `form:"category"`                                                     // By category ID
	Month      time.Time    `form:"month" time_format:"2006-01" time_utc:"1" filterField:"false"` // By month
	Offset     uint         `form:"offset" filterField:"false"`                                   // The offset of the first Allocation returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`                                    // Maximum number of Allocations to return. Defaults to 50.
}
