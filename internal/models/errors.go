package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrReferenceInvalid = errors.New("there is no resource for the ID you specified in the reference to another resource")

	ErrAccountNameNotUnique  = errors.New("the account name must be unique for the budget")
	ErrAccountKindInvalid    = errors.New("the account kind must be asset or liability")
	ErrCategoryNameNotUnique = errors.New("the category name must be unique for the budget")
	ErrAllocationNotUnique   = errors.New("there can only be one allocation per category and month")
	ErrBudgetCurrencyInvalid = errors.New("the budget currency must be a valid ISO 4217 code")
	ErrBudgetTimeZoneInvalid = errors.New("the budget timezone must be a valid IANA timezone name")
	ErrMatchRulePatternEmpty = errors.New("the match rule pattern must not be empty")
)
