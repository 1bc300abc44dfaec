// internal/app/features/users/get.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/subtracker/internal/app/system/auth"
	"github.com/dalemusser/subtracker/internal/app/system/httperr"
	"github.com/dalemusser/subtracker/internal/app/system/respond"
	"github.com/dalemusser/subtracker/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const forbiddenMessage = "You do not have permission to access this user's data"

// GetUser handles GET /api/v1/users/{id}. Callers may only read their own
// record; the password is never loaded.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) error {
	caller, ok := auth.CurrentUser(r)
	if !ok {
		return httperr.Unauthorized("Unauthorized")
	}

	id := chi.URLParam(r, "id")
	if id != caller.ID.Hex() {
		h.Log.Debug("user read denied",
			zap.String("caller_id", caller.ID.Hex()),
			zap.String("target_id", id))
		respond.Message(w, http.StatusForbidden, forbiddenMessage)
		return nil
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return httperr.NotFound("User not found")
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return httperr.NotFound("User not found")
	}
	if err != nil {
		return err
	}

	respond.Success(w, http.StatusOK, u)
	return nil
}
