package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Dan9191/finance-service/internal/apperr"
	"github.com/Dan9191/finance-service/internal/request"
	"github.com/Dan9191/finance-service/internal/response"
)

// TokenParser verifies a bearer token and returns its user id
type TokenParser interface {
	Parse(token string) (int64, error)
}

var errInternal = apperr.New(apperr.Internal, "panic")

// ApplyBearer replaces the identity header with the subject of a valid bearer
// token. Requests without a bearer token are left alone.
func ApplyBearer(parser TokenParser, req *request.Request) error {
	token, ok := bearerToken(req.Header("Authorization"))
	if !ok {
		return nil
	}
	userID, err := parser.Parse(token)
	if err != nil {
		return apperr.Wrap(apperr.Unauthenticated, "Invalid or expired token", err)
	}
	req.SetHeader(request.UserIDHeader, strconv.FormatInt(userID, 10))
	return nil
}

// Bearer is ApplyBearer for net/http. Preflight requests pass untouched.
func Bearer(parser TokenParser, origin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := parser.Parse(token)
			if err != nil {
				writeError(w, origin, apperr.Wrap(apperr.Unauthenticated, "Invalid or expired token", err))
				return
			}
			r.Header.Set(request.UserIDHeader, strconv.FormatInt(userID, 10))
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(w http.ResponseWriter, origin string, err error) {
	response.Error(err).Header("Access-Control-Allow-Origin", origin).Write(w)
}
