// internal/app/features/users/routes.go
package users

import (
	uierrors "github.com/dalemusser/subtracker/internal/app/features/errors"
	"github.com/dalemusser/subtracker/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter mounted under /api/v1/users. Listing is public;
// reading a single record requires a signed-in caller.
func Routes(h *Handler, errH *uierrors.Handler, sm *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", errH.Wrap(h.ListUsers))

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/{id}", errH.Wrap(h.GetUser))
	})
	return r
}
