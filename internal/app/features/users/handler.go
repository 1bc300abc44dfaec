// internal/app/features/users/handler.go
package users

import (
	"context"

	uierrors "github.com/dalemusser/subtracker/internal/app/features/errors"
	userstore "github.com/dalemusser/subtracker/internal/app/store/users"
	"github.com/dalemusser/subtracker/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// userReader is the part of the user store the handlers read from.
type userReader interface {
	ListNames(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Handler owns the user read endpoints.
type Handler struct {
	Users  userReader
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a users Handler backed by the users collection.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
