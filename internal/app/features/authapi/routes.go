// internal/app/features/authapi/routes.go
package authapi

import (
	uierrors "github.com/dalemusser/subtracker/internal/app/features/errors"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter mounted under /api/v1/auth.
func Routes(h *Handler, errH *uierrors.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/sign-up", errH.Wrap(h.SignUp))
	r.Post("/sign-out", errH.Wrap(h.SignOut))

	r.Group(func(pr chi.Router) {
		if h.Limiter != nil {
			pr.Use(h.Limiter.Middleware)
		}
		pr.Post("/sign-in", errH.Wrap(h.SignIn))
	})
	return r
}
