package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/divvyup/backend/internal/controllers/v1"
	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCategoriesDBClosed() {
	b := createTestBudget(suite.T(), v1.BudgetEditable{})

	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestCategory(t, v1.CategoryEditable{BudgetID: b.Data.ID}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/categories", "")
				test.AssertHTTPStatus(t, http.StatusInternalServerError, &recorder)

				var response v1.CategoryListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesOptions() {
	tests := []struct {
		name   string
		id     string // path at the categories endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No category with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Category exists", createTestCategory(suite.T(), v1.CategoryEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/categories", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, tt.status, &r)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesCreate() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	category := createTestCategory(suite.T(), v1.CategoryEditable{
		BudgetID: budget.Data.ID,
		Name:     "Groceries",
		Group:    "Everyday expenses",
		Note:     "Everything for the kitchen",
	})

	assert.Equal(suite.T(), "Groceries", category.Data.Name)
	assert.Equal(suite.T(), "Everyday expenses", category.Data.Group)
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/transactions?category=%s", category.Data.ID), category.Data.Links.Transactions)
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/allocations?category=%s", category.Data.ID), category.Data.Links.Allocations)
}

func (suite *TestSuiteStandard) TestCategoriesCreateInvalid() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken body", `{ "name": }`, http.StatusBadRequest},
		{"No budget", v1.CategoryEditable{Name: "No budget"}, http.StatusNotFound},
		{"Unknown budget", v1.CategoryEditable{BudgetID: uuid.New(), Name: "Unknown budget"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/categories", tt.body)
			test.AssertHTTPStatus(t, tt.status, &r)
		})
	}
}

// TestCategoriesCreateDuplicateName verifies that category names are
// unique per budget.
func (suite *TestSuiteStandard) TestCategoriesCreateDuplicateName() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	_ = createTestCategory(suite.T(), v1.CategoryEditable{BudgetID: budget.Data.ID, Name: "Groceries"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/categories", v1.CategoryEditable{
		BudgetID: budget.Data.ID,
		Name:     "Groceries",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
	assert.Contains(suite.T(), test.DecodeError(suite.T(), r.Body.Bytes()), models.ErrCategoryNameNotUnique.Error())
}

func (suite *TestSuiteStandard) TestCategoriesGetSingle() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing category", c.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No category with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/categories/%s", tt.id), "")

			var category v1.CategoryResponse
			test.DecodeResponse(t, &r, &category)
			test.AssertHTTPStatus(t, tt.status, &r)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesGetFilter() {
	b1 := createTestBudget(suite.T(), v1.BudgetEditable{})
	b2 := createTestBudget(suite.T(), v1.BudgetEditable{})

	_ = createTestCategory(suite.T(), v1.CategoryEditable{
		BudgetID: b1.Data.ID,
		Name:     "Groceries",
		Group:    "Everyday",
		Note:     "For the kitchen",
	})

	_ = createTestCategory(suite.T(), v1.CategoryEditable{
		BudgetID: b1.Data.ID,
		Name:     "Rent",
		Group:    "Fixed costs",
		Archived: true,
	})

	_ = createTestCategory(suite.T(), v1.CategoryEditable{
		BudgetID: b2.Data.ID,
		Name:     "Travel",
		Group:    "Everyday",
		Note:     "Going places",
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Budget 1", fmt.Sprintf("budget=%s", b1.Data.ID), 2},
		{"Group", "group=Everyday", 2},
		{"Archived", "archived=true", 1},
		{"Not archived", "archived=false", 2},
		{"Fuzzy name", "name=Gro", 1},
		{"Empty note", "note=", 1},
		{"Fuzzy note", "note=the", 1},
		{"Search", "search=places", 1},
		{"Offset and limit", "offset=1&limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/categories?%s", tt.query), "")
			test.AssertHTTPStatus(t, http.StatusOK, &r)

			var response v1.CategoryListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Response: %#v", response)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesUpdate() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Old name", Group: "Old group"})

	r := test.Request(suite.T(), http.MethodPatch, category.Data.Links.Self, map[string]any{
		"name":  "New name",
		"group": "",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var updated v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &updated)

	assert.Equal(suite.T(), "New name", updated.Data.Name)
	assert.Equal(suite.T(), "", updated.Data.Group)
}

// TestCategoriesDelete verifies that categories without references are
// deleted and referenced ones are archived instead.
func (suite *TestSuiteStandard) TestCategoriesDelete() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	r := test.Request(suite.T(), http.MethodDelete, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = test.Request(suite.T(), http.MethodGet, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}

func (suite *TestSuiteStandard) TestCategoriesDeleteReferencedArchives() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		CategoryID: &category.Data.ID,
		Amount:     -100,
	})

	r := test.Request(suite.T(), http.MethodDelete, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	// The category is archived, not deleted
	r = test.Request(suite.T(), http.MethodGet, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.Archived)
}
