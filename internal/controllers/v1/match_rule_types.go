package v1

import (
	"fmt"

	"github.com/divvyup/backend/internal/httputil"
	"github.com/divvyup/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MatchRuleEditable struct {
	BudgetID   uuid.UUID `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`   // ID of the budget the rule belongs to
	CategoryID uuid.UUID `json:"categoryId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"` // ID of the category the rule assigns
	Priority   uint      `json:"priority" example:"1" default:"0"`                          // The priority of the rule, lower is evaluated first
	Match      string    `json:"match" example:"Bakery*" default:""`                        // The glob pattern to match the payee against
}

// model returns the database resource for the editable fields
func (editable MatchRuleEditable) model() models.MatchRule {
	return models.MatchRule{
		BudgetID:   editable.BudgetID,
		CategoryID: editable.CategoryID,
		Priority:   editable.Priority,
		Match:      editable.Match,
	}
}

type MatchRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/match-rules/95685c82-53c6-455d-b235-f49960b73b21"` // The match rule itself
}

// MatchRule is the representation of a MatchRule in API v1.
type MatchRule struct {
	models.DefaultModel
	MatchRuleEditable
	Links MatchRuleLinks `json:"links"`
}

// newMatchRule returns the API v1 representation of the resource
func newMatchRule(c *gin.Context, model models.MatchRule) MatchRule {
	url := c.GetString("baseURL")

	return MatchRule{
		DefaultModel: model.DefaultModel,
		MatchRuleEditable: MatchRuleEditable{
			BudgetID:   model.BudgetID,
			CategoryID: model.CategoryID,
			Priority:   model.Priority,
			Match:      model.Match,
		},
		Links: MatchRuleLinks{
			Self: fmt.Sprintf("%s/v1/match-rules/%s", url, model.ID),
		},
	}
}

type MatchRuleResponse struct {
	Data  *MatchRule `json:"data"`                                                          // Data for the match rule
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MatchRuleListResponse struct {
	Data       []MatchRule `json:"data"`                                                          // List of match rules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type MatchRuleQueryFilter struct {
	BudgetID   string `form:"budget"`                     // By budget ID
	CategoryID string `form:"category"`                   // By category ID
	Priority   uint   `form:"priority"`                   // By priority
	Match      string `form:"match" filterField:"false"`  // Match pattern contains this string
	Offset     uint   `form:"offset" filterField:"false"` // The offset of the first MatchRule returned. Defaults to 0.
	Limit      int    `form:"limit" filterField:"false"`  // Maximum number of MatchRules to return. Defaults to 50.
}

func (f MatchRuleQueryFilter) model() (models.MatchRule, error) {
	budgetID, err := httputil.UUIDFromString(f.BudgetID)
	if err != nil {
		return models.MatchRule{}, err
	}

	categoryID, err := httputil.UUIDFromString(f.CategoryID)
	if err != nil {
		return models.MatchRule{}, err
	}

	return models.MatchRule{
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Priority:   f.Priority,
	}, nil
}
