package controller

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

type TransactionHandler struct {
	transactions *service.TransactionService
}

func NewTransactionHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type transactionRequest struct {
	Type        string           `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        string           `json:"date"` // YYYY-MM-DD
	StudentID   *uuid.UUID       `json:"student_id"`
	Quantity    *decimal.Decimal `json:"quantity"`
	BusinessID  string           `json:"business_id"`
}

func (r transactionRequest) input(actorID uuid.UUID) (service.TransactionInput, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return service.TransactionInput{}, service.ErrValidation
	}

	return service.TransactionInput{
		Type:        model.TransactionType(r.Type),
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        date,
		StudentID:   r.StudentID,
		Quantity:    r.Quantity,
		BusinessID:  r.BusinessID,
		ActorID:     actorID,
	}, nil
}

// List GET /transactions?business_id=&from=&to=&type=&student_id=
func (h *TransactionHandler) List(c echo.Context) error {
	filter := repository.TransactionFilter{BusinessID: businessParam(c)}

	if v := c.QueryParam("from"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return writeError(c, service.ErrValidation)
		}
		filter.From = &parsed
	}
	if v := c.QueryParam("to"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return writeError(c, service.ErrValidation)
		}
		end := parsed.AddDate(0, 0, 1)
		filter.To = &end
	}
	if v := c.QueryParam("type"); v != "" {
		t := model.TransactionType(v)
		filter.Type = &t
	}
	if v := c.QueryParam("student_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return writeError(c, service.ErrValidation)
		}
		filter.StudentID = &id
	}

	txns, err := h.transactions.List(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, txns)
}

// Create POST /transactions
func (h *TransactionHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	actorID, err := claims.ActorID()
	if err != nil {
		return writeError(c, err)
	}

	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrValidation)
	}

	in, err := req.input(actorID)
	if err != nil {
		return writeError(c, err)
	}

	txn, err := h.transactions.Record(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, txn)
}

// Update PUT /transactions/:id
func (h *TransactionHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	actorID, err := claims.ActorID()
	if err != nil {
		return writeError(c, err)
	}

	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrValidation)
	}

	in, err := req.input(actorID)
	if err != nil {
		return writeError(c, err)
	}

	txn, err := h.transactions.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}

// Delete DELETE /transactions/:id
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.transactions.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
