package models_test

import (
	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/types"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCategoryNameUniquePerBudget() {
	budget := suite.createTestBudget(models.Budget{})
	_ = suite.createTestCategory(models.Category{BudgetID: budget.ID, Name: "Groceries"})

	err := models.DB.Create(&models.Category{BudgetID: budget.ID, Name: "Groceries"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrCategoryNameNotUnique)

	// The same name in another budget is allowed
	other := suite.createTestBudget(models.Budget{})
	_ = suite.createTestCategory(models.Category{BudgetID: other.ID, Name: "Groceries"})
}

func (suite *TestSuiteStandard) TestCategoryReferencedByTransaction() {
	budget := suite.createTestBudget(models.Budget{})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID})
	category := suite.createTestCategory(models.Category{BudgetID: budget.ID})

	referenced, err := category.Referenced(models.DB)
	assert.Nil(suite.T(), err)
	assert.False(suite.T(), referenced)

	_ = suite.createTestTransaction(models.Transaction{
		AccountID:  account.ID,
		CategoryID: &category.ID,
		Amount:     -500,
	})

	referenced, err = category.Referenced(models.DB)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), referenced)
}

func (suite *TestSuiteStandard) TestCategoryReferencedByAllocation() {
	budget := suite.createTestBudget(models.Budget{})
	category := suite.createTestCategory(models.Category{BudgetID: budget.ID})

	_ = suite.createTestAllocation(models.Allocation{
		CategoryID: category.ID,
		Month:      types.NewMonth(2022, 4),
		Amount:     50000,
	})

	referenced, err := category.Referenced(models.DB)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), referenced)
}
