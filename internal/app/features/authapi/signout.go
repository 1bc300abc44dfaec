// internal/app/features/authapi/signout.go
package authapi

import (
	"net/http"

	"github.com/dalemusser/subtracker/internal/app/system/auth"
	"github.com/dalemusser/subtracker/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SignOut handles POST /api/v1/auth/sign-out by expiring the session cookie.
// Bearer tokens stay valid until they expire.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) error {
	if err := h.Sessions.SignOut(w, r); err != nil {
		return err
	}

	var userID *primitive.ObjectID
	if u, ok := auth.CurrentUser(r); ok {
		userID = &u.ID
	}
	h.Audit.SignOut(r.Context(), r, userID)

	respond.SuccessMessage(w, http.StatusOK, "User signed out successfully", nil)
	return nil
}
