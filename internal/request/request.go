// Package request normalizes inbound events from any front door into a
// single Request value.
package request

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/Dan9191/finance-service/internal/apperr"
)

// UserIDHeader carries the acting user's id
const UserIDHeader = "X-User-ID"

// maxBodyBytes bounds the body read from an HTTP request
const maxBodyBytes = 1 << 20

// Request is a transport-neutral view of an inbound call
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]string
	Body    string
}

// Header returns the first header matching name case-insensitively
func (r Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// SetHeader replaces every header matching name case-insensitively
func (r *Request) SetHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	for k := range r.Headers {
		if strings.EqualFold(k, name) {
			delete(r.Headers, k)
		}
	}
	r.Headers[name] = value
}

// QueryParam returns a trimmed query parameter
func (r Request) QueryParam(name string) string {
	return strings.TrimSpace(r.Query[name])
}

// UserID resolves the acting user from the identity header
func (r Request) UserID() (int64, error) {
	raw := strings.TrimSpace(r.Header(UserIDHeader))
	if raw == "" {
		return 0, apperr.New(apperr.Unauthenticated, "User ID required in X-User-ID header")
	}
	id, err := ParseID(raw)
	if err != nil {
		return 0, apperr.New(apperr.InvalidUserID, "Invalid user ID")
	}
	return id, nil
}

// Fields decodes the body as a JSON object. An empty body yields no fields.
func (r Request) Fields() (Fields, error) {
	if strings.TrimSpace(r.Body) == "" {
		return Fields{}, nil
	}
	var f Fields
	if err := json.Unmarshal([]byte(r.Body), &f); err != nil {
		return nil, apperr.Wrap(apperr.MalformedInput, "Invalid JSON", err)
	}
	if f == nil {
		f = Fields{}
	}
	return f, nil
}

// FromHTTP converts a net/http request
func FromHTTP(r *http.Request) (Request, error) {
	req := Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: make(map[string]string, len(r.Header)),
		Query:   make(map[string]string),
	}
	for k, v := range r.Header {
		if len(v) > 0 {
			req.Headers[k] = v[0]
		}
	}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			req.Query[k] = v[0]
		}
	}
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return Request{}, apperr.Wrap(apperr.MalformedInput, "Invalid request body", err)
		}
		req.Body = string(body)
	}
	return req, nil
}

// FromAPIGateway converts an API Gateway proxy event
func FromAPIGateway(_ context.Context, ev events.APIGatewayProxyRequest) (Request, error) {
	req := Request{
		Method:  ev.HTTPMethod,
		Path:    ev.Path,
		Headers: make(map[string]string, len(ev.Headers)),
		Query:   make(map[string]string, len(ev.QueryStringParameters)),
		Body:    ev.Body,
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	for k, v := range ev.Headers {
		req.Headers[k] = v
	}
	for k, v := range ev.QueryStringParameters {
		req.Query[k] = v
	}
	if ev.IsBase64Encoded {
		body, err := decodeBase64(ev.Body)
		if err != nil {
			return Request{}, apperr.Wrap(apperr.MalformedInput, "Invalid request body", err)
		}
		req.Body = body
	}
	return req, nil
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s", r.Method, r.Path)
}
