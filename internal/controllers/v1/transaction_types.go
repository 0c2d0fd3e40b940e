package v1

import (
	"fmt"
	"time"

	"github.com/divvyup/backend/internal/ledger"
	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/types"
	du_uuid "github.com/divvyup/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransactionEditable struct {
	AccountID  uuid.UUID   `json:"accountId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"`  // ID of the account the transaction belongs to
	CategoryID *uuid.UUID  `json:"categoryId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"` // ID of the category. Resolved via match rules when unset
	Payee      string      `json:"payee" example:"GroceryMart" default:""`                    // The payee
	Note       string      `json:"note" example:"Lunch" default:""`                           // A note
	Amount     types.Cents `json:"amount" example:"-1403"`                                    // The amount in cents, negative for spending
	Date       time.Time   `json:"date" example:"2022-04-12T00:00:00Z"`                       // Date of the transaction
	Cleared    bool        `json:"cleared" example:"true" default:"false"`                    // Has the transaction cleared the account?

	// Transfer moves money between two accounts instead of recording
	// spending or income. The destination account is required and the
	// amount is the positive amount leaving the account.
	Transfer             bool       `json:"transfer" example:"false" default:"false"`
	DestinationAccountID *uuid.UUID `json:"destinationAccountId" example:"8e16b456-a719-48ce-9fec-e115cfa7cbcc"`
}

// record returns the engine input for the editable fields
func (editable TransactionEditable) record() ledger.TransactionRecord {
	return ledger.TransactionRecord{
		AccountID:  editable.AccountID,
		CategoryID: editable.CategoryID,
		Payee:      editable.Payee,
		Note:       editable.Note,
		Amount:     editable.Amount,
		Date:       editable.Date,
		Cleared:    editable.Cleared,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the representation of a Transaction in API v1.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	LinkedID *uuid.UUID       `json:"linkedId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the other leg for transfers
	VoidedAt *time.Time       `json:"voidedAt" example:"2022-04-22T21:01:05.058161Z"`          // When the transaction was voided
	Links    TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString("baseURL")

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			AccountID:  model.AccountID,
			CategoryID: model.CategoryID,
			Payee:      model.Payee,
			Note:       model.Note,
			Amount:     model.Amount,
			Date:       model.Date,
			Cleared:    model.Cleared,
			Transfer:   model.TransferLeg(),
		},
		LinkedID: model.LinkedID,
		VoidedAt: model.VoidedAt,
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                          // Data for the transaction
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// TransactionCreateResponse contains all transactions the request
// created. A transfer creates two linked legs, everything else one
// transaction.
type TransactionCreateResponse struct {
	Data  []Transaction `json:"data"`                                                          // The created transactions
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

// TransactionAmend contains the changes for an amendment. Fields that
// are not set stay untouched. CheckedAt is the updatedAt timestamp the
// caller last read, the amendment is rejected when the transaction
// changed since then.
type TransactionAmend struct {
	Amount     *types.Cents `json:"amount" example:"-1403"`
	Date       *time.Time   `json:"date" example:"2022-04-12T00:00:00Z"`
	CategoryID *uuid.UUID   `json:"categoryId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"`
	AccountID  *uuid.UUID   `json:"accountId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"`
	Payee      *string      `json:"payee" example:"GroceryMart"`
	Note       *string      `json:"note" example:"Lunch"`
	Cleared    *bool        `json:"cleared" example:"true"`
	CheckedAt  time.Time    `json:"checkedAt" example:"2022-04-17T20:14:01.048145Z"`
}

type TransactionQueryFilter struct {
	AccountID         du_uuid.UUID `form:"account"`                               // By account ID
	CategoryID        du_uuid.UUID `form:"category"`                              // By category ID
	BudgetID          du_uuid.UUID `form:"budget" filterField:"false"`            // By budget ID
	Payee             string       `form:"payee" filterField:"false"`             // Payee contains this string
	Note              string       `form:"note" filterField:"false"`              // Note contains this string
	Amount            types.Cents  `form:"amount"`                                // Exact amount in cents
	AmountLessOrEqual *types.Cents `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	AmountMoreOrEqual *types.Cents `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	Date              time.Time    `form:"date" filterField:"false"`              // Exact date. Time is ignored.
	FromDate          time.Time    `form:"fromDate" filterField:"false"`          // From this date. Time is ignored.
	UntilDate         time.Time    `form:"untilDate" filterField:"false"`         // Until this date. Time is ignored.
	Cleared           bool         `form:"cleared"`                               // Has the transaction cleared the account?
	Transfer          bool         `form:"transfer" filterField:"false"`          // Only transfer legs
	IncludeVoided     bool         `form:"includeVoided" filterField:"false"`     // Include voided transactions. Defaults to false.
	Offset            uint         `form:"offset" filterField:"false"`            // The offset of the first Transaction returned. Defaults to 0.
	Limit             int          `form:"limit" filterField:"false"`             // Maximum number of Transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() models.Transaction {
	// If the category is not filtered on, use an actual nil, not uuid.Nil
	var categoryID *uuid.UUID
	if f.CategoryID != du_uuid.Nil {
		categoryID = &f.CategoryID.UUID
	}

	// This does not set the string and range fields since they are
	// handled in the controller function
	return models.Transaction{
		AccountID:  f.AccountID.UUID,
		CategoryID: categoryID,
		Amount:     f.Amount,
		Cleared:    f.Cleared,
	}
}
