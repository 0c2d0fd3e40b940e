package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/divvyup/backend/internal/controllers/v1"
	"github.com/divvyup/backend/internal/types"
	"github.com/divvyup/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAllocationsOptions() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	tests := []struct {
		name   string
		path   string
		status int
		allow  string
	}{
		{"List", "http://example.com/v1/allocations", http.StatusNoContent, "OPTIONS, GET, POST"},
		{"Move", "http://example.com/v1/allocations/move", http.StatusNoContent, "OPTIONS, POST"},
		{"Detail", fmt.Sprintf("http://example.com/v1/allocations/%s/2022-04", category.Data.ID), http.StatusNoContent, "OPTIONS, GET"},
		{"Detail with invalid UUID", "http://example.com/v1/allocations/notaUUID/2022-04", http.StatusBadRequest, ""},
		{"Detail with invalid month", fmt.Sprintf("http://example.com/v1/allocations/%s/notamonth", category.Data.ID), http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, tt.path, "")
			test.AssertHTTPStatus(t, tt.status, &r)

			if tt.allow != "" {
				assert.Equal(t, tt.allow, r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsCreate() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	allocation := createTestAllocation(suite.T(), v1.AllocationEditable{
		CategoryID: category.Data.ID,
		Month:      types.NewMonth(2022, 4),
		Amount:     50000,
	})

	assert.Equal(suite.T(), types.Cents(50000), allocation.Data.Amount)
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/allocations/%s/2022-04", category.Data.ID), allocation.Data.Links.Self)
}

// TestAllocationsCreateOverwrites verifies that setting an allocation
// for the same category and month replaces the existing one.
func (suite *TestSuiteStandard) TestAllocationsCreateOverwrites() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	_ = createTestAllocation(suite.T(), v1.AllocationEditable{
		CategoryID: category.Data.ID,
		Month:      types.NewMonth(2022, 4),
		Amount:     50000,
	})

	allocation := createTestAllocation(suite.T(), v1.AllocationEditable{
		CategoryID: category.Data.ID,
		Month:      types.NewMonth(2022, 4),
		Amount:     20000,
	})

	assert.Equal(suite.T(), types.Cents(20000), allocation.Data.Amount)

	// Only one allocation exists for the pair
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations?category=%s", category.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.AllocationListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 1)
}

func (suite *TestSuiteStandard) TestAllocationsCreateInvalid() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken body", `{ "amount": }`, http.StatusBadRequest},
		{"No month", v1.AllocationEditable{CategoryID: category.Data.ID, Amount: 100}, http.StatusBadRequest},
		{"Unknown category", v1.AllocationEditable{CategoryID: uuid.New(), Month: types.NewMonth(2022, 4), Amount: 100}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/allocations", tt.body)
			test.AssertHTTPStatus(t, tt.status, &r)
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsGetFilter() {
	c1 := createTestCategory(suite.T(), v1.CategoryEditable{})
	c2 := createTestCategory(suite.T(), v1.CategoryEditable{})

	_ = createTestAllocation(suite.T(), v1.AllocationEditable{CategoryID: c1.Data.ID, Month: types.NewMonth(2022, 4), Amount: 10000})
	_ = createTestAllocation(suite.T(), v1.AllocationEditable{CategoryID: c1.Data.ID, Month: types.NewMonth(2022, 5), Amount: 20000})
	_ = createTestAllocation(suite.T(), v1.AllocationEditable{CategoryID: c2.Data.ID, Month: types.NewMonth(2022, 4), Amount: 30000})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Category", fmt.Sprintf("category=%s", c1.Data.ID), 2},
		{"Month", "month=2022-04", 2},
		{"Category and month", fmt.Sprintf("category=%s&month=2022-05", c1.Data.ID), 1},
		{"No match", "month=2023-01", 0},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations?%s", tt.query), "")
			test.AssertHTTPStatus(t, http.StatusOK, &r)

			var response v1.AllocationListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Response: %#v", response)
		})
	}
}

// TestAllocationsGetAbsent verifies that months without an explicit
// allocation read as 0.
func (suite *TestSuiteStandard) TestAllocationsGetAbsent() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations/%s/2022-04", category.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), types.Cents(0), response.Data.Amount)
	assert.Equal(suite.T(), category.Data.ID, response.Data.CategoryID)
}

func (suite *TestSuiteStandard) TestAllocationsGetSingle() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	_ = createTestAllocation(suite.T(), v1.AllocationEditable{
		CategoryID: category.Data.ID,
		Month:      types.NewMonth(2022, 4),
		Amount:     50000,
	})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Existing allocation", fmt.Sprintf("%s/2022-04", category.Data.ID), http.StatusOK},
		{"Unknown category", fmt.Sprintf("%s/2022-04", uuid.New()), http.StatusNotFound},
		{"Invalid UUID", "notaUUID/2022-04", http.StatusBadRequest},
		{"Invalid month", fmt.Sprintf("%s/notamonth", category.Data.ID), http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations/%s", tt.path), "")
			test.AssertHTTPStatus(t, tt.status, &r)
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsMove() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	groceries := createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: budget.Data.ID, Name: "Groceries"})
	travel := createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: budget.Data.ID, Name: "Travel"})

	_ = createTestAllocation(suite.T(), v1.AllocationEditable{
		CategoryID: groceries.Data.ID,
		Month:      types.NewMonth(2022, 4),
		Amount:     50000,
	})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/allocations/move", v1.AllocationMoveRequest{
		FromCategoryID: groceries.Data.ID,
		ToCategoryID:   travel.Data.ID,
		Month:          types.NewMonth(2022, 4),
		Amount:         20000,
	})
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations/%s/2022-04", groceries.Data.ID), "")
	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), types.Cents(30000), response.Data.Amount)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations/%s/2022-04", travel.Data.ID), "")
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), types.Cents(20000), response.Data.Amount)
}

func (suite *TestSuiteStandard) TestAllocationsMoveInvalid() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	groceries := createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: budget.Data.ID, Name: "Groceries"})
	travel := createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: budget.Data.ID, Name: "Travel"})

	tests := []struct {
		name string
		body any
	}{
		{"Broken body", `{ "amount": }`},
		{
			"Negative amount",
			v1.AllocationMoveRequest{FromCategoryID: groceries.Data.ID, ToCategoryID: travel.Data.ID, Month: types.NewMonth(2022, 4), Amount: -100},
		},
		{
			"Same category",
			v1.AllocationMoveRequest{FromCategoryID: groceries.Data.ID, ToCategoryID: groceries.Data.ID, Month: types.NewMonth(2022, 4), Amount: 100},
		},
		{
			"Unknown category",
			v1.AllocationMoveRequest{FromCategoryID: uuid.New(), ToCategoryID: travel.Data.ID, Month: types.NewMonth(2022, 4), Amount: 100},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/allocations/move", tt.body)
			test.AssertHTTPStatus(t, http.StatusBadRequest, &r)
		})
	}
}
