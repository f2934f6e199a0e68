package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
)

// errorResponse is the JSON envelope for every API error. Code is a stable
// machine-readable identifier; Error is meant for humans.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// domainError binds a sentinel to its HTTP status and error code. When message
// is empty the wrapped error text is returned so callers see which field or
// transition failed.
type domainError struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: the first match wins.
var domainErrors = []domainError{
	{domain.ErrShipmentNotFound, http.StatusNotFound, "shipment_not_found", "shipment not found"},
	{domain.ErrConflict, http.StatusConflict, "concurrent_update", "shipment was modified concurrently, retry the request"},
	{domain.ErrDuplicateShipment, http.StatusConflict, "duplicate_shipment", "shipment already exists"},
	{domain.ErrInvalidCoordinate, http.StatusBadRequest, "invalid_coordinate", ""},
	{domain.ErrInvalidLocation, http.StatusBadRequest, "invalid_location", ""},
	{domain.ErrInvalidStatus, http.StatusBadRequest, "invalid_status", ""},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, "invalid_transition", ""},
	{domain.ErrTerminalStatus, http.StatusUnprocessableEntity, "terminal_status", ""},
	{domain.ErrStaleUpdate, http.StatusUnprocessableEntity, "stale_update", ""},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain errors
// to status codes and hides unexpected failures behind a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		body.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Bind failures, validation errors and router 404/405.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{
			Error: fmt.Sprintf("%v", he.Message),
			Code:  httpErrorCode(he.Code),
		}
	}

	for _, de := range domainErrors {
		if errors.Is(err, de.target) {
			msg := de.message
			if msg == "" {
				msg = err.Error()
			}
			return de.status, errorResponse{Error: msg, Code: de.code}
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal"}
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		if status >= http.StatusInternalServerError {
			return "internal"
		}
		return "request_error"
	}
}
