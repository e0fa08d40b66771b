package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/middleware"
	"github.com/Dan9191/finance-service/internal/request"
	"github.com/Dan9191/finance-service/internal/response"
	"github.com/Dan9191/finance-service/internal/service"
)

const (
	authMethods     = "POST, OPTIONS"
	resourceMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowedHeaders  = "Content-Type, Authorization, X-User-ID"
	preflightMaxAge = "86400"
)

// Endpoint serves one endpoint group
type Endpoint func(ctx context.Context, req request.Request) response.Response

type Handler struct {
	svc    *service.Service
	log    *logrus.Logger
	origin string
	tokens middleware.TokenParser
}

// NewHandler wires the endpoint groups to svc. Responses allow origin; a
// nil tokens disables bearer identity on the API Gateway path.
func NewHandler(svc *service.Service, log *logrus.Logger, origin string, tokens middleware.TokenParser) *Handler {
	if origin == "" {
		origin = "*"
	}
	return &Handler{svc: svc, log: log, origin: origin, tokens: tokens}
}

// Auth handles login and registration
func (h *Handler) Auth(ctx context.Context, req request.Request) response.Response {
	return h.serve(ctx, req, authMethods, h.auth)
}

// Goals handles goal CRUD
func (h *Handler) Goals(ctx context.Context, req request.Request) response.Response {
	return h.serve(ctx, req, resourceMethods, h.goals)
}

// Transactions handles transaction CRUD, statistics and export
func (h *Handler) Transactions(ctx context.Context, req request.Request) response.Response {
	return h.serve(ctx, req, resourceMethods, h.transactions)
}

func (h *Handler) serve(ctx context.Context, req request.Request, methods string,
	fn func(context.Context, request.Request) (response.Response, error)) response.Response {
	if req.Method == http.MethodOptions {
		return h.preflight(methods)
	}
	resp, err := fn(ctx, req)
	if err != nil {
		resp = h.fail(ctx, req, err)
	}
	return resp.Header("Access-Control-Allow-Origin", h.origin)
}

func (h *Handler) preflight(methods string) response.Response {
	return response.Empty(http.StatusOK).
		Header("Access-Control-Allow-Origin", h.origin).
		Header("Access-Control-Allow-Methods", methods).
		Header("Access-Control-Allow-Headers", allowedHeaders).
		Header("Access-Control-Max-Age", preflightMaxAge)
}

// fail renders err, logging anything the client only sees as a 5xx
func (h *Handler) fail(ctx context.Context, req request.Request, err error) response.Response {
	resp := response.Error(err)
	if resp.StatusCode >= http.StatusInternalServerError {
		h.log.WithFields(logrus.Fields{
			"request_id": middleware.RequestID(ctx),
			"request":    req.String(),
			"kind":       apperr.KindOf(err).String(),
		}).WithError(err).Error("Request failed")
	}
	return resp
}

// HTTP adapts an endpoint group to net/http
func (h *Handler) HTTP(endpoint Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := request.FromHTTP(r)
		if err != nil {
			h.fail(r.Context(), req, err).Header("Access-Control-Allow-Origin", h.origin).Write(w)
			return
		}
		endpoint(r.Context(), req).Write(w)
	}
}

// Route picks the endpoint group from the last path segment
func (h *Handler) Route(path string) (Endpoint, bool) {
	path = strings.TrimRight(path, "/")
	switch path[strings.LastIndex(path, "/")+1:] {
	case "auth":
		return h.Auth, true
	case "goals":
		return h.Goals, true
	case "transactions":
		return h.Transactions, true
	default:
		return nil, false
	}
}

// Lambda serves an API Gateway proxy event
func (h *Handler) Lambda(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := ev.RequestContext.RequestID
	if requestID == "" {
		requestID = middleware.NewRequestID()
	}
	ctx = middleware.WithRequestID(ctx, requestID)

	req, err := request.FromAPIGateway(ctx, ev)
	if err != nil {
		return h.fail(ctx, req, err).Header("Access-Control-Allow-Origin", h.origin).APIGateway(), nil
	}

	endpoint, ok := h.Route(req.Path)
	if !ok {
		resp := response.Error(apperr.New(apperr.NotFound, "Not found"))
		return resp.Header("Access-Control-Allow-Origin", h.origin).APIGateway(), nil
	}

	if h.tokens != nil && req.Method != http.MethodOptions {
		if err := middleware.ApplyBearer(h.tokens, &req); err != nil {
			return h.fail(ctx, req, err).Header("Access-Control-Allow-Origin", h.origin).APIGateway(), nil
		}
	}

	resp := endpoint(ctx, req)
	h.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     req.Method,
		"path":       req.Path,
		"status":     resp.StatusCode,
	}).Info("Request completed")
	return resp.APIGateway(), nil
}
