// Package response maps handler outcomes onto (status, JSON body) pairs and
// writes them to the available front doors.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/Dan9191/finance-service/internal/apperr"
)

const contentTypeJSON = "application/json"

// Response is a transport-neutral reply
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Header sets a response header
func (r Response) Header(name, value string) Response {
	headers := make(map[string]string, len(r.Headers)+1)
	for k, v := range r.Headers {
		headers[k] = v
	}
	headers[name] = value
	r.Headers = headers
	return r
}

// JSON encodes body as the reply
func JSON(status int, body any) Response {
	raw, err := json.Marshal(body)
	if err != nil {
		return Error(apperr.Wrap(apperr.Internal, "encode response", err))
	}
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       raw,
	}
}

// Success renders {"success": true, key: payload} plus any extra fields
func Success(status int, key string, payload any, extra map[string]any) Response {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	if key != "" {
		body[key] = payload
	}
	return JSON(status, body)
}

// Created renders a 201 success
func Created(key string, payload any, extra map[string]any) Response {
	return Success(http.StatusCreated, key, payload, extra)
}

// OK renders a 200 success
func OK(key string, payload any, extra map[string]any) Response {
	return Success(http.StatusOK, key, payload, extra)
}

// Deleted renders a 200 delete confirmation
func Deleted(message string) Response {
	return JSON(http.StatusOK, map[string]any{"success": true, "message": message})
}

// Aggregate renders an aggregate object at the top level of the body
func Aggregate(v any) Response {
	return JSON(http.StatusOK, v)
}

// Error renders {"error": message} with the status of the error's kind
func Error(err error) Response {
	status := apperr.Status(apperr.KindOf(err))
	raw, _ := json.Marshal(map[string]string{"error": apperr.PublicMessage(err)})
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       raw,
	}
}

// MethodNotAllowed renders a 405
func MethodNotAllowed() Response {
	return Error(apperr.New(apperr.UnsupportedMethod, "Method not allowed"))
}

// Raw renders a non-JSON body
func Raw(status int, contentType string, body []byte) Response {
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": contentType},
		Body:       body,
	}
}

// Empty renders a bodiless reply
func Empty(status int) Response {
	return Response{StatusCode: status, Headers: map[string]string{}}
}

// Write sends the reply through an http.ResponseWriter
func (r Response) Write(w http.ResponseWriter) {
	for name, value := range r.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(r.StatusCode)
	if len(r.Body) > 0 {
		_, _ = w.Write(r.Body)
	}
}

// APIGateway converts the reply into an API Gateway proxy response
func (r Response) APIGateway() events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		headers[k] = v
	}
	return events.APIGatewayProxyResponse{
		StatusCode:      r.StatusCode,
		Headers:         headers,
		Body:            string(r.Body),
		IsBase64Encoded: false,
	}
}
