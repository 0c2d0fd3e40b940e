package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/divvyup/backend/internal/controllers/v1"
	"github.com/divvyup/backend/internal/types"
	"github.com/divvyup/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestTransactionsOptions() {
	tests := []struct {
		name   string
		id     string // path at the transactions endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No transaction with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Transaction exists", createTestTransaction(suite.T(), v1.TransactionEditable{}).Data[0].ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/transactions", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, tt.status, &r)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	response := createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:  account.Data.ID,
		CategoryID: &category.Data.ID,
		Payee:      "GroceryMart",
		Amount:     -1403,
		Date:       time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC),
	})

	require.Len(suite.T(), response.Data, 1)
	transaction := response.Data[0]

	assert.Equal(suite.T(), "GroceryMart", transaction.Payee)
	assert.Equal(suite.T(), types.Cents(-1403), transaction.Amount)
	assert.False(suite.T(), transaction.Transfer)
	assert.Nil(suite.T(), transaction.LinkedID)
}

func (suite *TestSuiteStandard) TestTransactionsCreateInvalid() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	date := time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken body", `{ "amount": }`, http.StatusBadRequest},
		{
			"Zero amount",
			v1.TransactionEditable{AccountID: account.Data.ID, CategoryID: &category.Data.ID, Date: date},
			http.StatusBadRequest,
		},
		{
			"Unknown account",
			v1.TransactionEditable{AccountID: uuid.New(), CategoryID: &category.Data.ID, Amount: -100, Date: date},
			http.StatusBadRequest,
		},
		{
			"No category and no match rule",
			v1.TransactionEditable{AccountID: account.Data.ID, Payee: "Unknown", Amount: -100, Date: date},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", tt.body)
			test.AssertHTTPStatus(t, tt.status, &r)
		})
	}
}

// TestTransactionsCreateDefaultDate verifies that a transaction
// without a date is recorded for today on the budget's calendar.
func (suite *TestSuiteStandard) TestTransactionsCreateDefaultDate() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{TimeZone: "Europe/Berlin"})
	account := createTestAccount(suite.T(), v1.AccountEditable{BudgetID: budget.Data.ID})
	category := createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: budget.Data.ID})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions", v1.TransactionEditable{
		AccountID:  account.Data.ID,
		CategoryID: &category.Data.ID,
		Amount:     -100,
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &r)

	var response v1.TransactionCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)

	// The date is a midnight timestamp for the owner's current day
	date := response.Data[0].Date
	assert.False(suite.T(), date.IsZero())
	assert.Equal(suite.T(), 0, date.Hour())
	assert.False(suite.T(), date.After(time.Now().Add(24*time.Hour)))
}

// TestTransactionsCreateMatchRule verifies that the category is
// resolved from the payee when it is not set.
func (suite *TestSuiteStandard) TestTransactionsCreateMatchRule() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	account := createTestAccount(suite.T(), v1.AccountEditable{BudgetID: budget.Data.ID})
	category := createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: budget.Data.ID, Name: "Bakery goods"})

	_ = createTestMatchRule(suite.T(), v1.MatchRuleEditable{
		BudgetID:   budget.Data.ID,
		CategoryID: category.Data.ID,
		Match:      "Bakery*",
	})

	response := createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID: account.Data.ID,
		Payee:     "Bakery Smith",
		Amount:    -500,
	})

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), category.Data.ID, *response.Data[0].CategoryID)
}

// TestTransactionsCreateTransfer verifies that a transfer creates two
// linked legs.
func (suite *TestSuiteStandard) TestTransactionsCreateTransfer() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	checking := createTestAccount(suite.T(), v1.AccountEditable{BudgetID: budget.Data.ID, Name: "Checking"})
	savings := createTestAccount(suite.T(), v1.AccountEditable{BudgetID: budget.Data.ID, Name: "Savings"})

	response := createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:            checking.Data.ID,
		Amount:               10000,
		Date:                 time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC),
		Transfer:             true,
		DestinationAccountID: &savings.Data.ID,
	})

	require.Len(suite.T(), response.Data, 2)

	outgoing, incoming := response.Data[0], response.Data[1]
	assert.Equal(suite.T(), types.Cents(-10000), outgoing.Amount)
	assert.Equal(suite.T(), types.Cents(10000), incoming.Amount)
	assert.Equal(suite.T(), incoming.ID, *outgoing.LinkedID)
	assert.Equal(suite.T(), outgoing.ID, *incoming.LinkedID)
	assert.True(suite.T(), outgoing.Transfer)
	assert.Nil(suite.T(), outgoing.CategoryID)
}

func (suite *TestSuiteStandard) TestTransactionsCreateTransferInvalid() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	// Without a destination account the transfer is rejected
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions", v1.TransactionEditable{
		AccountID: account.Data.ID,
		Amount:    10000,
		Date:      time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC),
		Transfer:  true,
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
	assert.Contains(suite.T(), test.DecodeError(suite.T(), r.Body.Bytes()), "destination account")

	// A transfer to the same account is rejected
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions", v1.TransactionEditable{
		AccountID:            account.Data.ID,
		Amount:               10000,
		Date:                 time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC),
		Transfer:             true,
		DestinationAccountID: &account.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestTransactionsGetSingle() {
	tr := createTestTransaction(suite.T(), v1.TransactionEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing transaction", tr.Data[0].ID.String(), http.StatusOK, http.MethodGet},
		{"GET No transaction with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/transactions/%s", tt.id), "")

			var transaction v1.TransactionResponse
			test.DecodeResponse(t, &r, &transaction)
			test.AssertHTTPStatus(t, tt.status, &r)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsGetFilter() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	otherBudget := createTestBudget(suite.T(), v1.BudgetEditable{})

	checking := createTestAccount(suite.T(), v1.AccountEditable{BudgetID: budget.Data.ID, Name: "Checking"})
	savings := createTestAccount(suite.T(), v1.AccountEditable{BudgetID: budget.Data.ID, Name: "Savings"})
	other := createTestAccount(suite.T(), v1.AccountEditable{BudgetID: otherBudget.Data.ID, Name: "Other"})

	groceries := createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: budget.Data.ID, Name: "Groceries"})
	leisure := createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: otherBudget.Data.ID, Name: "Leisure"})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:  checking.Data.ID,
		CategoryID: &groceries.Data.ID,
		Payee:      "GroceryMart",
		Note:       "Weekly shopping",
		Amount:     -2500,
		Date:       time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC),
		Cleared:    true,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:  checking.Data.ID,
		CategoryID: &groceries.Data.ID,
		Payee:      "Bakery",
		Amount:     -500,
		Date:       time.Date(2022, 4, 15, 0, 0, 0, 0, time.UTC),
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:  other.Data.ID,
		CategoryID: &leisure.Data.ID,
		Payee:      "Cinema",
		Amount:     -1200,
		Date:       time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	// A transfer between checking and savings
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:            checking.Data.ID,
		Amount:               10000,
		Date:                 time.Date(2022, 4, 20, 0, 0, 0, 0, time.UTC),
		Transfer:             true,
		DestinationAccountID: &savings.Data.ID,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Account", fmt.Sprintf("account=%s", checking.Data.ID), 3},
		{"Category", fmt.Sprintf("category=%s", groceries.Data.ID), 2},
		{"Budget", fmt.Sprintf("budget=%s", budget.Data.ID), 4},
		{"Other budget", fmt.Sprintf("budget=%s", otherBudget.Data.ID), 1},
		{"Payee", "payee=GroceryMart", 1},
		{"Fuzzy payee", "payee=er", 2},
		{"Empty payee", "payee=", 2},
		{"Note", "note=Weekly", 1},
		{"Amount", "amount=-500", 1},
		{"Amount less or equal", "amountLessOrEqual=-1200", 3},
		{"Amount more or equal", "amountMoreOrEqual=0", 1},
		{"Date", "date=2022-04-15T00:00:00Z", 1},
		{"From date", "fromDate=2022-04-15T00:00:00Z", 4},
		{"Until date", "untilDate=2022-04-15T00:00:00Z", 2},
		{"Cleared", "cleared=true", 1},
		{"Only transfers", "transfer=true", 2},
		{"No transfers", "transfer=false", 3},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=3", 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(t, http.StatusOK, &r)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Response: %#v", response)
		})
	}
}

// TestTransactionsGetVoided verifies that voided transactions are
// hidden from lists unless asked for.
func (suite *TestSuiteStandard) TestTransactionsGetVoided() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{}).Data[0]

	r := test.Request(suite.T(), http.MethodDelete, transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 0)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions?includeVoided=true", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	assert.NotNil(suite.T(), response.Data[0].VoidedAt)
}

func (suite *TestSuiteStandard) TestTransactionsUpdate() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Payee: "Old payee"}).Data[0]

	r := test.Request(suite.T(), http.MethodPatch, transaction.Links.Self, map[string]any{
		"payee": "New payee",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "New payee", response.Data.Payee)
}

// TestTransactionsUpdateConflict verifies that an amendment with a
// stale checkedAt timestamp is rejected.
func (suite *TestSuiteStandard) TestTransactionsUpdateConflict() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{}).Data[0]

	r := test.Request(suite.T(), http.MethodPatch, transaction.Links.Self, map[string]any{
		"payee":     "New payee",
		"checkedAt": transaction.UpdatedAt.Add(-time.Hour).Format(time.RFC3339Nano),
	})
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &r)

	r = test.Request(suite.T(), http.MethodPatch, transaction.Links.Self, map[string]any{
		"payee":     "New payee",
		"checkedAt": transaction.UpdatedAt.Format(time.RFC3339Nano),
	})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)
}

// TestTransactionsUpdateVoided verifies that voided transactions
// cannot be amended.
func (suite *TestSuiteStandard) TestTransactionsUpdateVoided() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{}).Data[0]

	r := test.Request(suite.T(), http.MethodDelete, transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = test.Request(suite.T(), http.MethodPatch, transaction.Links.Self, map[string]any{
		"payee": "New payee",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

// TestTransactionsUpdateTransferCategory verifies that transfer legs
// cannot get a category.
func (suite *TestSuiteStandard) TestTransactionsUpdateTransferCategory() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	checking := createTestAccount(suite.T(), v1.AccountEditable{BudgetID: budget.Data.ID, Name: "Checking"})
	savings := createTestAccount(suite.T(), v1.AccountEditable{BudgetID: budget.Data.ID, Name: "Savings"})
	category := createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: budget.Data.ID})

	response := createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:            checking.Data.ID,
		Amount:               10000,
		Date:                 time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC),
		Transfer:             true,
		DestinationAccountID: &savings.Data.ID,
	})

	r := test.Request(suite.T(), http.MethodPatch, response.Data[0].Links.Self, map[string]any{
		"categoryId": category.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

// TestTransactionsDelete verifies that deletion voids the transaction
// instead of removing it.
func (suite *TestSuiteStandard) TestTransactionsDelete() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{}).Data[0]

	r := test.Request(suite.T(), http.MethodDelete, transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	// The transaction is still readable
	r = test.Request(suite.T(), http.MethodGet, transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.NotNil(suite.T(), response.Data.VoidedAt)

	// Deleting again is a no-op
	r = test.Request(suite.T(), http.MethodDelete, transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)
}
