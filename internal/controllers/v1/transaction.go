package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/divvyup/backend/internal/httputil"
	"github.com/divvyup/backend/internal/ledger"
	"github.com/divvyup/backend/internal/models"
	du_uuid "github.com/divvyup/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Transaction{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create transaction
// @Description	Creates a new transaction. With transfer: true, money is moved between two accounts and both linked legs are returned.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionCreateResponse
// @Failure		400			{object}	TransactionCreateResponse
// @Failure		404			{object}	TransactionCreateResponse
// @Failure		500			{object}	TransactionCreateResponse
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions [post]
func CreateTransaction(c *gin.Context) {
	var editable TransactionEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionCreateResponse{
			Error: &s,
		})
		return
	}

	// A transaction without a date is recorded for "today" on the
	// budget owner's calendar, resolved in the budget's timezone.
	if editable.Date.IsZero() {
		date, err := defaultTransactionDate(editable.AccountID)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionCreateResponse{
				Error: &s,
			})
			return
		}
		editable.Date = date
	}

	if editable.Transfer {
		if editable.DestinationAccountID == nil {
			s := errNoDestinationSet.Error()
			c.JSON(http.StatusBadRequest, TransactionCreateResponse{
				Error: &s,
			})
			return
		}

		outgoing, incoming, err := engine.RecordTransfer(editable.AccountID, *editable.DestinationAccountID, editable.Amount, editable.Date, editable.Note)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionCreateResponse{
				Error: &s,
			})
			return
		}

		c.JSON(http.StatusCreated, TransactionCreateResponse{
			Data: []Transaction{newTransaction(c, outgoing), newTransaction(c, incoming)},
		})
		return
	}

	transaction, err := engine.RecordTransaction(editable.record())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionCreateResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, TransactionCreateResponse{
		Data: []Transaction{newTransaction(c, transaction)},
	})
}

// @Summary		List transactions
// @Description	Returns a list of transactions
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			account				query	string	false	"Filter by account ID"
// @Param			category			query	string	false	"Filter by category ID"
// @Param			budget				query	string	false	"Filter by budget ID"
// @Param			payee				query	string	false	"Payee contains this string"
// @Param			note				query	string	false	"Note contains this string"
// @Param			amount				query	int64	false	"Exact amount in cents"
// @Param			amountLessOrEqual	query	int64	false	"Amount less than or equal to this"
// @Param			amountMoreOrEqual	query	int64	false	"Amount more than or equal to this"
// @Param			date				query	string	false	"Date of the transaction. Ignores exact time, matches on the day of the RFC3339 timestamp provided."
// @Param			fromDate			query	string	false	"Transactions at and after this date. Ignores exact time, matches on the day of the RFC3339 timestamp provided."
// @Param			untilDate			query	string	false	"Transactions before and at this date. Ignores exact time, matches on the day of the RFC3339 timestamp provided."
// @Param			cleared				query	bool	false	"Has the transaction cleared the account?"
// @Param			transfer			query	bool	false	"Only transfer legs, or only regular transactions with transfer=false"
// @Param			includeVoided		query	bool	false	"Include voided transactions. Defaults to false."
// @Param			offset				query	uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of Transactions to return. Defaults to 50."
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()

	q := models.DB.
		Model(&models.Transaction{}).
		Order("date(transactions.date) DESC, datetime(transactions.created_at) DESC").
		Where(&filterModel, queryFields...)

	// Voided transactions are hidden unless asked for
	if !filter.IncludeVoided {
		q = q.Where("transactions.voided_at IS NULL")
	}

	if slices.Contains(setFields, "Transfer") {
		if filter.Transfer {
			q = q.Where("transactions.linked_id IS NOT NULL")
		} else {
			q = q.Where("transactions.linked_id IS NULL")
		}
	}

	if filter.BudgetID != du_uuid.Nil {
		q = q.
			Joins("JOIN accounts ON accounts.id = transactions.account_id").
			Where("accounts.budget_id = ?", filter.BudgetID.UUID)
	}

	if filter.Payee != "" {
		q = q.Where("transactions.payee LIKE ?", fmt.Sprintf("%%%s%%", filter.Payee))
	} else if slices.Contains(setFields, "Payee") {
		q = q.Where("transactions.payee = ''")
	}

	if filter.Note != "" {
		q = q.Where("transactions.note LIKE ?", fmt.Sprintf("%%%s%%", filter.Note))
	} else if slices.Contains(setFields, "Note") {
		q = q.Where("transactions.note = ''")
	}

	if filter.AmountLessOrEqual != nil {
		q = q.Where("transactions.amount <= ?", *filter.AmountLessOrEqual)
	}

	if filter.AmountMoreOrEqual != nil {
		q = q.Where("transactions.amount >= ?", *filter.AmountMoreOrEqual)
	}

	if !filter.Date.IsZero() {
		date := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("transactions.date >= date(?)", date).Where("transactions.date < date(?)", date.AddDate(0, 0, 1))
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("transactions.date >= date(?)", time.Date(filter.FromDate.Year(), filter.FromDate.Month(), filter.FromDate.Day(), 0, 0, 0, 0, time.UTC))
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("transactions.date < date(?)", time.Date(filter.UntilDate.Year(), filter.UntilDate.Month(), filter.UntilDate.Day()+1, 0, 0, 0, 0, time.UTC))
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Transactions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var transactions []models.Transaction
	err := q.Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Update transaction
// @Description	Amends an existing transaction. Only values to be updated need to be specified. Amending a transfer leg keeps both legs consistent.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		409			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionAmend	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var amend TransactionAmend
	err = httputil.BindData(c, &amend)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	transaction, err := engine.AmendTransaction(uri.ID.UUID, ledger.TransactionAmendment{
		Amount:     amend.Amount,
		Date:       amend.Date,
		CategoryID: amend.CategoryID,
		AccountID:  amend.AccountID,
		Payee:      amend.Payee,
		Note:       amend.Note,
		Cleared:    amend.Cleared,
		CheckedAt:  amend.CheckedAt,
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Void transaction
// @Description	Voids a transaction. The record is kept for the audit trail and no longer counts into any balance. Voiding a transfer leg voids both legs. Voiding a voided transaction is a no-op.
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = engine.VoidTransaction(uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// defaultTransactionDate resolves "today" for the budget that owns the
// account. A transaction entered late at night still lands on the
// owner's calendar day, not the server's.
func defaultTransactionDate(account uuid.UUID) (time.Time, error) {
	var a models.Account
	err := models.DB.First(&a, account).Error
	if err != nil {
		return time.Time{}, err
	}

	var b models.Budget
	err = models.DB.First(&b, a.BudgetID).Error
	if err != nil {
		return time.Time{}, err
	}

	now := time.Now().In(b.Location())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}
