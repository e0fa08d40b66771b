package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/export"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/request"
	"github.com/Dan9191/finance-service/internal/response"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

func (h *Handler) transactions(ctx context.Context, req request.Request) (response.Response, error) {
	userID, err := req.UserID()
	if err != nil {
		return response.Response{}, err
	}

	switch req.Method {
	case http.MethodGet:
		return h.readTransactions(ctx, userID, req)

	case http.MethodPost:
		f, err := req.Fields()
		if err != nil {
			return response.Response{}, err
		}
		txn, err := h.svc.CreateTransaction(ctx, userID, f)
		if err != nil {
			return response.Response{}, err
		}
		return response.Created("transaction", txn, nil), nil

	case http.MethodPut:
		f, err := req.Fields()
		if err != nil {
			return response.Response{}, err
		}
		id, err := bodyID(f, "Transaction ID is required", "Invalid transaction ID")
		if err != nil {
			return response.Response{}, err
		}
		txn, err := h.svc.UpdateTransaction(ctx, userID, id, f)
		if err != nil {
			return response.Response{}, err
		}
		return response.OK("transaction", txn, nil), nil

	case http.MethodDelete:
		raw := req.QueryParam("id")
		if raw == "" {
			return response.Response{}, apperr.New(apperr.MissingField, "Transaction ID is required")
		}
		id, err := parseQueryID(raw, "Invalid transaction ID")
		if err != nil {
			return response.Response{}, err
		}
		if err := h.svc.DeleteTransaction(ctx, userID, id); err != nil {
			return response.Response{}, err
		}
		return response.Deleted("Transaction deleted"), nil

	default:
		return response.MethodNotAllowed(), nil
	}
}

// readTransactions dispatches on ?action; anything unrecognized lists
func (h *Handler) readTransactions(ctx context.Context, userID int64, req request.Request) (response.Response, error) {
	switch req.QueryParam("action") {
	case "stats":
		stats, err := h.svc.Statistics(ctx, userID)
		if err != nil {
			return response.Response{}, err
		}
		return response.Aggregate(stats), nil

	case "categories":
		summary, err := h.svc.CategorySummary(ctx, userID)
		if err != nil {
			return response.Response{}, err
		}
		return response.Aggregate(summary), nil

	case "export":
		filter, err := transactionFilter(req)
		if err != nil {
			return response.Response{}, err
		}
		out, err := h.svc.ExportTransactions(ctx, userID, filter)
		if err != nil {
			return response.Response{}, err
		}
		return response.Raw(http.StatusOK, export.ContentType, out).
			Header("Content-Disposition", `attachment; filename="transactions.xml"`), nil

	default:
		filter, err := transactionFilter(req)
		if err != nil {
			return response.Response{}, err
		}
		limit, err := pageParam(req, "limit", defaultPageSize, "Invalid limit")
		if err != nil {
			return response.Response{}, err
		}
		limit = min(limit, maxPageSize)
		offset, err := pageParam(req, "offset", 0, "Invalid offset")
		if err != nil {
			return response.Response{}, err
		}
		filter.Limit = &limit
		filter.Offset = offset

		txns, err := h.svc.ListTransactions(ctx, userID, filter)
		if err != nil {
			return response.Response{}, err
		}
		return response.OK("transactions", txns, map[string]any{
			"total":  len(txns),
			"limit":  limit,
			"offset": offset,
		}), nil
	}
}

func transactionFilter(req request.Request) (models.TransactionFilter, error) {
	filter := models.TransactionFilter{Category: req.QueryParam("category")}
	if raw := req.QueryParam("type"); raw != "" {
		typ := models.TransactionType(raw)
		if !typ.Valid() {
			return models.TransactionFilter{}, apperr.New(apperr.InvalidEnum, `Type must be "income" or "expense"`)
		}
		filter.Type = typ
	}
	return filter, nil
}

func pageParam(req request.Request, name string, def int, invalid string) (int, error) {
	raw := req.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.New(apperr.MalformedInput, invalid)
	}
	return n, nil
}
