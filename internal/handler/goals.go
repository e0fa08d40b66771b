package handler

import (
	"context"
	"net/http"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/request"
	"github.com/Dan9191/finance-service/internal/response"
)

func (h *Handler) goals(ctx context.Context, req request.Request) (response.Response, error) {
	userID, err := req.UserID()
	if err != nil {
		return response.Response{}, err
	}

	switch req.Method {
	case http.MethodGet:
		if raw := req.QueryParam("id"); raw != "" {
			id, err := parseQueryID(raw, "Invalid goal ID")
			if err != nil {
				return response.Response{}, err
			}
			goal, err := h.svc.GetGoal(ctx, userID, id)
			if err != nil {
				return response.Response{}, err
			}
			return response.OK("goal", goal, nil), nil
		}

		status := models.ParseGoalStatus(req.QueryParam("status"))
		goals, err := h.svc.ListGoals(ctx, userID, status)
		if err != nil {
			return response.Response{}, err
		}
		return response.OK("goals", goals, map[string]any{"total": len(goals)}), nil

	case http.MethodPost:
		f, err := req.Fields()
		if err != nil {
			return response.Response{}, err
		}
		goal, err := h.svc.CreateGoal(ctx, userID, f)
		if err != nil {
			return response.Response{}, err
		}
		return response.Created("goal", goal, nil), nil

	case http.MethodPut:
		f, err := req.Fields()
		if err != nil {
			return response.Response{}, err
		}
		id, err := bodyID(f, "Goal ID is required", "Invalid goal ID")
		if err != nil {
			return response.Response{}, err
		}
		goal, err := h.svc.UpdateGoal(ctx, userID, id, f)
		if err != nil {
			return response.Response{}, err
		}
		return response.OK("goal", goal, nil), nil

	case http.MethodDelete:
		raw := req.QueryParam("id")
		if raw == "" {
			return response.Response{}, apperr.New(apperr.MissingField, "Goal ID is required")
		}
		id, err := parseQueryID(raw, "Invalid goal ID")
		if err != nil {
			return response.Response{}, err
		}
		if err := h.svc.DeleteGoal(ctx, userID, id); err != nil {
			return response.Response{}, err
		}
		return response.Deleted("Goal deleted"), nil

	default:
		return response.MethodNotAllowed(), nil
	}
}

func parseQueryID(raw, invalid string) (int64, error) {
	id, err := request.ParseID(raw)
	if err != nil {
		return 0, apperr.Wrap(apperr.InvalidID, invalid, err)
	}
	return id, nil
}

func bodyID(f request.Fields, missing, invalid string) (int64, error) {
	id, present, err := f.ID("id")
	if !present {
		return 0, apperr.New(apperr.MissingField, missing)
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.InvalidID, invalid, err)
	}
	return id, nil
}
