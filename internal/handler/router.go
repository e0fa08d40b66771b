package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/response"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter mounts the endpoint groups and a health check. Each group
// answers every method itself so preflight and 405 replies stay uniform.
func NewRouter(h *Handler, db Pinger, mw ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(mw...)

	r.Handle("/auth", h.HTTP(h.Auth))
	r.Handle("/goals", h.HTTP(h.Goals))
	r.Handle("/transactions", h.HTTP(h.Transactions))
	r.HandleFunc("/healthz", h.health(db)).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(apperr.New(apperr.NotFound, "Not found")).
			Header("Access-Control-Allow-Origin", h.origin).
			Write(w)
	})
	return r
}

func (h *Handler) health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			h.log.WithError(err).Error("Health check failed")
			response.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}).Write(w)
			return
		}
		response.JSON(http.StatusOK, map[string]string{"status": "ok"}).Write(w)
	}
}
