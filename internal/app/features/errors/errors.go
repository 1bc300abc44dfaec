// internal/app/features/errors/errors.go
package errors

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/subtracker/internal/app/system/httperr"
	"github.com/dalemusser/subtracker/internal/app/system/respond"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandlerFunc is an HTTP handler that reports failure by returning an error
// instead of writing the response itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handler is the central error handler. It is the only place that turns a
// returned error into a response.
type Handler struct {
	ErrLog *ErrorLogger
}

// NewHandler constructs an errors Handler.
func NewHandler(errLog *ErrorLogger) *Handler {
	return &Handler{ErrLog: errLog}
}

// Wrap adapts fn to http.HandlerFunc, sending any returned error to Handle.
func (h *Handler) Wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.Handle(w, r, err)
		}
	}
}

// Handle writes the JSON error response for err:
//
//	{ "success": false, "error": "<message>" }
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := Classify(err)
	if h.ErrLog != nil {
		h.ErrLog.LogError(r, status, err)
	}
	respond.JSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// Classify maps err to a status and client-safe message.
func Classify(err error) (int, string) {
	var he *httperr.Error
	switch {
	case stderrors.As(err, &he):
		return httperr.StatusOf(he), he.Message
	case stderrors.Is(err, mongo.ErrNoDocuments), stderrors.Is(err, primitive.ErrInvalidHex):
		return http.StatusNotFound, "Resource not found"
	case wafflemongo.IsDup(err):
		return http.StatusBadRequest, "Duplicate field value entered"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out"
	default:
		return http.StatusInternalServerError, "Server Error"
	}
}
