package errors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/subtracker/internal/app/features/errors"
	"github.com/dalemusser/subtracker/internal/app/system/httperr"
	"github.com/dalemusser/subtracker/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler() *uierrors.Handler {
	return uierrors.NewHandler(uierrors.NewErrorLogger(zap.NewNop()))
}

func TestClassify(t *testing.T) {
	_, hexErr := primitive.ObjectIDFromHex("nope")

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"typed not found", httperr.NotFound("User not found"), http.StatusNotFound, "User not found"},
		{"wrapped typed", fmt.Errorf("get: %w", httperr.Conflict("User already exists")), http.StatusConflict, "User already exists"},
		{"no documents", mongo.ErrNoDocuments, http.StatusNotFound, "Resource not found"},
		{"bad object id", hexErr, http.StatusNotFound, "Resource not found"},
		{"deadline", fmt.Errorf("find: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Request timed out"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := uierrors.Classify(tt.err)
			if status != tt.status || msg != tt.msg {
				t.Errorf("Classify() = (%d, %q), want (%d, %q)", status, msg, tt.status, tt.msg)
			}
		})
	}
}

func TestWrap_WritesErrorEnvelope(t *testing.T) {
	h := newTestHandler()

	handler := h.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return httperr.NotFound("User not found")
	})

	rec := testutil.NewRecorder()
	handler(rec, testutil.NewRequest("GET", "/api/v1/users/x"))

	rec.AssertStatus(t, http.StatusNotFound)
	body := rec.DecodeJSON(t)
	if body["success"] != false {
		t.Errorf("success: got %v, want false", body["success"])
	}
	if body["error"] != "User not found" {
		t.Errorf("error: got %v", body["error"])
	}
}

func TestWrap_NoErrorLeavesResponseAlone(t *testing.T) {
	h := newTestHandler()

	handler := h.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	})

	rec := testutil.NewRecorder()
	handler(rec, testutil.NewRequest("GET", "/"))
	rec.AssertStatus(t, http.StatusNoContent)
}

func TestHandle_HidesInternalDetail(t *testing.T) {
	h := newTestHandler()

	rec := testutil.NewRecorder()
	h.Handle(rec, testutil.NewRequest("GET", "/"), errors.New("dial tcp 10.0.0.5:27017: refused"))

	rec.AssertStatus(t, http.StatusInternalServerError)
	if body := rec.DecodeJSON(t); body["error"] != "Server Error" {
		t.Errorf("error: got %v", body["error"])
	}
}
