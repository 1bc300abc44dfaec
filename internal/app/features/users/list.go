// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/subtracker/internal/app/system/respond"
	"github.com/dalemusser/subtracker/internal/app/system/timeouts"
)

// ListUsers handles GET /api/v1/users.
//
//	{ "success": true, "data": ["Alice", "Bob"] }
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	names, err := h.Users.ListNames(ctx)
	if err != nil {
		return err
	}

	respond.Success(w, http.StatusOK, names)
	return nil
}
