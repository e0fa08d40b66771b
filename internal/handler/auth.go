package handler

import (
	"context"
	"net/http"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/request"
	"github.com/Dan9191/finance-service/internal/response"
	"github.com/Dan9191/finance-service/internal/validation"
)

func (h *Handler) auth(ctx context.Context, req request.Request) (response.Response, error) {
	if req.Method != http.MethodPost {
		return response.MethodNotAllowed(), nil
	}
	f, err := req.Fields()
	if err != nil {
		return response.Response{}, err
	}

	action, _ := f.String("action")
	switch action {
	case "login":
		creds, err := validation.NewCredentials(f)
		if err != nil {
			return response.Response{}, err
		}
		res, err := h.svc.Login(ctx, creds)
		if err != nil {
			return response.Response{}, err
		}
		return response.OK("user", res.User, map[string]any{"token": res.Token}), nil

	case "register":
		reg, err := validation.NewRegistration(f)
		if err != nil {
			return response.Response{}, err
		}
		res, err := h.svc.Register(ctx, reg)
		if err != nil {
			return response.Response{}, err
		}
		return response.Created("user", res.User, map[string]any{"token": res.Token}), nil

	default:
		return response.Response{}, apperr.New(apperr.InvalidAction, "Invalid action")
	}
}
