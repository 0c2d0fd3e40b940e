package v1

import (
	"fmt"
	"time"

	"github.com/divvyup/backend/internal/httputil"
	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountEditable struct {
	BudgetID           uuid.UUID          `json:"budgetId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the budget this account belongs to
	Name               string             `json:"name" example:"Checking" default:""`                      // Name of the account
	Note               string             `json:"note" example:"Joint account with Ali" default:""`        // A longer description for the account
	Kind               models.AccountKind `json:"kind" example:"asset" default:"asset"`                    // Is the account an asset or a liability?
	OpeningBalance     types.Cents        `json:"openingBalance" example:"17312" default:"0"`              // Balance of the account before any transactions were recorded, in cents
	OpeningBalanceDate *time.Time         `json:"openingBalanceDate" example:"2017-05-12T00:00:00Z"`       // Date of the opening balance
	Archived           bool               `json:"archived" example:"true" default:"false"`                 // Is the account archived?
}

// model returns the database resource for the editable fields
func (editable AccountEditable) model() models.Account {
	return models.Account{
		BudgetID:           editable.BudgetID,
		Name:               editable.Name,
		Note:               editable.Note,
		Kind:               editable.Kind,
		OpeningBalance:     editable.OpeningBalance,
		OpeningBalanceDate: editable.OpeningBalanceDate,
		Archived:           editable.Archived,
	}
}

type AccountLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                     // The account itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Transactions referencing the account
}

// Account is the representation of an Account in API v1.
type Account struct {
	models.DefaultModel
	AccountEditable
	Balance types.Cents  `json:"balance" example:"273517"` // Current balance of the account, in cents
	Links   AccountLinks `json:"links"`
}

// newAccount returns the API v1 representation of the resource. The
// balance is computed over all non-voided transactions up to now.
func newAccount(c *gin.Context, model models.Account) (Account, error) {
	url := c.GetString("baseURL")

	balance, err := engine.AccountBalance(model.ID, time.Now())
	if err != nil {
		return Account{}, err
	}

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			BudgetID:           model.BudgetID,
			Name:               model.Name,
			Note:               model.Note,
			Kind:               model.Kind,
			OpeningBalance:     model.OpeningBalance,
			OpeningBalanceDate: model.OpeningBalanceDate,
			Archived:           model.Archived,
		},
		Balance: balance,
		Links: AccountLinks{
			Self:         fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
		},
	}, nil
}

type AccountResponse struct {
	Data  *Account `json:"data"`                                                          // Data for the account
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AccountListResponse struct {
	Data       []Account   `json:"data"`                                                          // List of accounts
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AccountQueryFilter struct {
	BudgetID string `form:"budget"`                     // By budget ID
	Name     string `form:"name" filterField:"false"`   // Fuzzy filter for the account name
	Note     string `form:"note" filterField:"false"`   // Fuzzy filter for the note
	Kind     string `form:"kind"`                       // By kind
	Archived bool   `form:"archived"`                   // Is the account archived?
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Account returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Accounts to return. Defaults to 50.
}

func (f AccountQueryFilter) model() (models.Account, error) {
	budgetID, err := httputil.UUIDFromString(f.BudgetID)
	if err != nil {
		return models.Account{}, err
	}

	return models.Account{
		BudgetID: budgetID,
		Kind:     models.AccountKind(f.Kind),
		Archived: f.Archived,
	}, nil
}
