// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/subtracker/internal/app/system/auth"
	"github.com/dalemusser/subtracker/internal/app/system/respond"
)

// Handler reports who the caller is, if anyone.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ServeUserInfo returns the caller's authentication status and identity.
// It never fails; anonymous callers get isAuthenticated=false.
//
//	{ "isAuthenticated": bool, "id": "...", "name": "...", "email": "..." }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.JSON(w, http.StatusOK, map[string]any{
			"isAuthenticated": false,
			"id":              "",
			"name":            "",
			"email":           "",
		})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": true,
		"id":              user.ID.Hex(),
		"name":            user.Name,
		"email":           user.Email,
	})
}
