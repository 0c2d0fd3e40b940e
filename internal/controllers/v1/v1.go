// Package v1 implements the v1 HTTP API.
package v1

import (
	"net/http"

	"github.com/divvyup/backend/internal/httputil"
	"github.com/divvyup/backend/internal/ledger"
	"github.com/gin-gonic/gin"
)

// engine is the budgeting engine all handlers delegate to. It is set
// once by Register.
var engine *ledger.Ledger

// Register sets the engine and attaches all v1 routes to the group.
func Register(r *gin.RouterGroup, l *ledger.Ledger) {
	engine = l

	r.GET("", Get)
	r.OPTIONS("", Options)

	RegisterBudgetRoutes(r.Group("/budgets"))
	RegisterAccountRoutes(r.Group("/accounts"))
	RegisterCategoryRoutes(r.Group("/categories"))
	RegisterTransactionRoutes(r.Group("/transactions"))
	RegisterAllocationRoutes(r.Group("/allocations"))
	RegisterMonthRoutes(r.Group("/months"))
	RegisterMatchRuleRoutes(r.Group("/match-rules"))
	RegisterExportRoutes(r.Group("/export"))
}

type Response struct {
	Links Links `json:"links"`
}

type Links struct {
	Budgets      string `json:"budgets" example:"https://example.com/api/v1/budgets"`
	Accounts     string `json:"accounts" example:"https://example.com/api/v1/accounts"`
	Categories   string `json:"categories" example:"https://example.com/api/v1/categories"`
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions"`
	Allocations  string `json:"allocations" example:"https://example.com/api/v1/allocations"`
	Months       string `json:"months" example:"https://example.com/api/v1/months"`
	MatchRules   string `json:"matchRules" example:"https://example.com/api/v1/match-rules"`
	Export       string `json:"export" example:"https://example.com/api/v1/export"`
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			v1
// @Success		200	{object}	Response
// @Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString("baseURL") + "/v1"

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Budgets:      url + "/budgets",
			Accounts:     url + "/accounts",
			Categories:   url + "/categories",
			Transactions: url + "/transactions",
			Allocations:  url + "/allocations",
			Months:       url + "/months",
			MatchRules:   url + "/match-rules",
			Export:       url + "/export",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			v1
// @Success		204
// @Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
