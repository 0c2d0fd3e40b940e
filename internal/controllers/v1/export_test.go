package v1_test

import (
	"encoding/json"
	"net/http"
	"time"

	v1 "github.com/divvyup/backend/internal/controllers/v1"
	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExport verifies that the export works correctly
//
// Thorough checks are only executed for the non-data fields since
// the data fields are populated by the Export() methods of the models
func (suite *TestSuiteStandard) TestExport() {
	t := suite.T()

	b := createTestBudget(t, v1.BudgetEditable{})
	c := createTestCategory(t, v1.CategoryEditable{BudgetID: b.Data.ID})

	recorder := test.Request(t, http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(t, http.StatusOK, &recorder)

	var response v1.ExportResponse
	test.DecodeResponse(t, &recorder, &response)

	assert.Equal(t, "0.0.0", response.Version)

	// Not sure if this is a good test, if it ever fails we'll re-evaluate
	now := time.Now()
	difference := response.CreationTime.Sub(now).Seconds()
	assert.Less(t, difference, float64(1))

	// Basic tests for the data fields. Full testing is done in the respective Export() methods
	// of the models
	assert.Len(t, response.Data, len(models.Registry), "Number of models in export does not match registry")

	// CreatedAt check for budget
	var budgets []models.Budget
	require.Nil(t, json.Unmarshal(response.Data["Budget"], &budgets))
	require.Len(t, budgets, 1, "Number of budgets in export must be 1")
	assert.Equal(t, b.Data.CreatedAt, budgets[0].CreatedAt)

	// CreatedAt check for category
	var categories []models.Category
	require.Nil(t, json.Unmarshal(response.Data["Category"], &categories))
	require.Len(t, categories, 1, "Number of categories in export must be 1")
	assert.Equal(t, c.Data.CreatedAt, categories[0].CreatedAt)
}

func (suite *TestSuiteStandard) TestExportOptions() {
	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)
	assert.Equal(suite.T(), "OPTIONS, GET", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestExportDBClosed() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), http.StatusInternalServerError, &recorder)
}
