package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"financetracker/internal/errors"
	"financetracker/internal/repository"
	"financetracker/internal/service"
)

// TransactionHandler handles transaction endpoints.
type TransactionHandler struct {
	svc service.TransactionService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(svc service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// TransactionRequest represents a transaction create or update request.
// The owner is always the caller; a user_id in the body is ignored.
type TransactionRequest struct {
	Description string          `json:"description" validate:"required,max=255"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"-12.50"`
	OccurredAt  *time.Time      `json:"occurred_at"`
	CategoryID  uint            `json:"category_id" validate:"required"`
}

func (r TransactionRequest) input() service.TransactionInput {
	in := service.TransactionInput{
		Description: r.Description,
		Amount:      r.Amount,
		CategoryID:  r.CategoryID,
	}
	if r.OccurredAt != nil {
		in.OccurredAt = *r.OccurredAt
	}
	return in
}

// Create godoc
// @Summary Record a transaction for the caller
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Transaction"
// @Success 201 {object} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	var req TransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	txn, err := h.svc.Create(c.Request().Context(), currentIdentity(c), req.input())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, txn)
}

// List godoc
// @Summary List the caller's transactions, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "Only this category"
// @Success 200 {array} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	var filter repository.TransactionFilter
	if err := echo.QueryParamsBinder(c).Uint("category_id", &filter.CategoryID).BindError(); err != nil {
		return httpError(errors.Invalid("invalid category_id"))
	}
	txns, err := h.svc.List(c.Request().Context(), currentIdentity(c), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, txns)
}

// Get godoc
// @Summary Get transaction by id
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} model.Transaction
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	txn, err := h.svc.Get(c.Request().Context(), currentIdentity(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, txn)
}

// Update godoc
// @Summary Update transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body TransactionRequest true "Transaction"
// @Success 200 {object} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req TransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	txn, err := h.svc.Update(c.Request().Context(), currentIdentity(c), id, req.input())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, txn)
}

// Delete godoc
// @Summary Delete transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), currentIdentity(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
