// internal/app/features/authapi/handler.go
package authapi

import (
	"context"

	uierrors "github.com/dalemusser/subtracker/internal/app/features/errors"
	userstore "github.com/dalemusser/subtracker/internal/app/store/users"
	"github.com/dalemusser/subtracker/internal/app/system/auditlog"
	"github.com/dalemusser/subtracker/internal/app/system/auth"
	"github.com/dalemusser/subtracker/internal/app/system/mailer"
	"github.com/dalemusser/subtracker/internal/app/system/ratelimit"
	"github.com/dalemusser/subtracker/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// accounts is the part of the user store sign-up and sign-in need.
type accounts interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
}

// mailSender delivers one message. *mailer.Transport satisfies it.
type mailSender interface {
	Send(ctx context.Context, e mailer.Email) error
}

// Handler owns the sign-up, sign-in and sign-out endpoints.
type Handler struct {
	Users    accounts
	Sessions *auth.Manager
	Limiter  *ratelimit.Limiter
	Mail     mailSender // optional; nil disables the welcome message
	Audit    *auditlog.Logger
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs an auth API Handler. mail may be nil.
func NewHandler(db *mongo.Database, sessions *auth.Manager, limiter *ratelimit.Limiter, mail *mailer.Transport, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	h := &Handler{
		Users:    userstore.New(db),
		Sessions: sessions,
		Limiter:  limiter,
		Audit:    audit,
		Log:      logger,
		ErrLog:   errLog,
	}
	if mail != nil {
		h.Mail = mail
	}
	return h
}

// authPayload is the data returned by sign-up and sign-in.
type authPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
