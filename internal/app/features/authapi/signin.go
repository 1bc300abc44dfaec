// internal/app/features/authapi/signin.go
package authapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/subtracker/internal/app/system/authutil"
	"github.com/dalemusser/subtracker/internal/app/system/httperr"
	"github.com/dalemusser/subtracker/internal/app/system/normalize"
	"github.com/dalemusser/subtracker/internal/app/system/ratelimit"
	"github.com/dalemusser/subtracker/internal/app/system/respond"
	"github.com/dalemusser/subtracker/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /api/v1/auth/sign-in. On success it returns a bearer
// token and also sets the session cookie.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) error {
	var in signInRequest
	if err := bindJSON(w, r, &in); err != nil {
		return err
	}

	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		return httperr.BadRequest("Email and password are required")
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Audit.SignInFailedUserNotFound(ctx, r, email)
		return httperr.NotFound("User not found")
	}
	if err != nil {
		return err
	}

	if !authutil.CheckPassword(in.Password, u.Password) {
		h.Audit.SignInFailedWrongPassword(ctx, r, u.ID)
		return httperr.Unauthorized("Invalid password")
	}

	id := u.ID.Hex()
	token, err := h.Sessions.Tokens().Issue(id)
	if err != nil {
		return err
	}
	if err := h.Sessions.SignIn(w, r, id); err != nil {
		return err
	}
	if h.Limiter != nil {
		h.Limiter.Reset(ratelimit.ClientIP(r))
	}

	h.Log.Info("user signed in", zap.String("user_id", id))
	h.Audit.SignInSuccess(ctx, r, u.ID)

	u.Password = ""
	respond.SuccessMessage(w, http.StatusOK, "User signed in successfully", authPayload{Token: token, User: u})
	return nil
}
