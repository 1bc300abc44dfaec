// internal/app/features/authapi/signup.go
package authapi

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/subtracker/internal/app/store/users"
	"github.com/dalemusser/subtracker/internal/app/system/authutil"
	"github.com/dalemusser/subtracker/internal/app/system/htmlsanitize"
	"github.com/dalemusser/subtracker/internal/app/system/httperr"
	"github.com/dalemusser/subtracker/internal/app/system/mailer"
	"github.com/dalemusser/subtracker/internal/app/system/normalize"
	"github.com/dalemusser/subtracker/internal/app/system/respond"
	"github.com/dalemusser/subtracker/internal/app/system/timeouts"
	"github.com/dalemusser/subtracker/internal/domain/models"
	"go.uber.org/zap"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /api/v1/auth/sign-up.
//
//	201 { "success": true, "message": "User created successfully",
//	      "data": { "token": "...", "user": { ... } } }
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) error {
	var in signUpRequest
	if err := bindJSON(w, r, &in); err != nil {
		return err
	}

	name := normalize.Name(htmlsanitize.PlainText(in.Name))
	email := normalize.Email(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return httperr.BadRequest("Name, email and password are required")
	}
	if !authutil.IsValidEmail(email) {
		return httperr.BadRequest("Please provide a valid email address")
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		return httperr.Wrap(err, http.StatusBadRequest, err.Error())
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{Name: name, Email: email, Password: hash})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return httperr.Conflict("User already exists")
	}
	if err != nil {
		return err
	}

	token, err := h.Sessions.Tokens().Issue(u.ID.Hex())
	if err != nil {
		return err
	}

	h.Log.Info("user signed up", zap.String("user_id", u.ID.Hex()))
	h.Audit.SignUp(ctx, r, u.ID)
	h.sendWelcome(u)

	u.Password = ""
	respond.SuccessMessage(w, http.StatusCreated, "User created successfully", authPayload{Token: token, User: &u})
	return nil
}

// sendWelcome mails the new user in the background. Failures are logged only.
func (h *Handler) sendWelcome(u models.User) {
	if h.Mail == nil {
		return
	}
	msg := mailer.Email{
		To:       u.Email,
		Subject:  "Welcome to SubTracker",
		TextBody: "Hi " + u.Name + ",\n\nYour SubTracker account is ready.\n",
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer cancel()
		if err := h.Mail.Send(ctx, msg); err != nil {
			h.Log.Warn("welcome email failed",
				zap.String("user_id", u.ID.Hex()),
				zap.Error(err))
		}
	}()
}
