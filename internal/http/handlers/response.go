// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities used across all endpoints.
// Two error shapes exist:
//
//   - ErrorResponse, a {request_id, code, message} envelope for transport
//     failures (unknown route, wrong method, panics, 5xx).
//   - ValidationResponse, a {"detail": [...]} list returned with 422 for
//     every input or domain rejection, each entry naming the offending field.
//
// Example validation response:
//
//	HTTP/1.1 422 Unprocessable Entity
//	{
//	  "detail": [
//	    {"loc": ["body", "pk"], "msg": "The specified PK already exists.", "type": "duplicate"}
//	  ]
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-dog-catalog/internal/http/middleware"
)

// ErrorResponse is the standard error envelope for non-validation failures.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"route not found"`
}

// ValidationDetail names one rejected input.
type ValidationDetail struct {
	// Location of the field, e.g. ["body","pk"] or ["query","kind"]
	Loc []string `json:"loc" example:"body,pk"`
	// Human-readable reason
	Msg string `json:"msg" example:"The specified PK already exists."`
	// Machine-readable category
	Type string `json:"type" example:"duplicate"`
}

// ValidationResponse is the 422 body.
type ValidationResponse struct {
	Detail []ValidationDetail `json:"detail"`
}

// fail aborts the request with a structured error and logs server-side errors.
//
// Server errors (>=500) are logged using the request-scoped logger from middleware.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// unprocessable aborts with 422 and the given details.
func unprocessable(c *gin.Context, details ...ValidationDetail) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationResponse{Detail: details})
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
