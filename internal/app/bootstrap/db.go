// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/subtracker/internal/app/store/audit"
	"github.com/dalemusser/subtracker/internal/app/system/indexes"
	"github.com/dalemusser/subtracker/internal/app/system/mailer"
	"github.com/dalemusser/subtracker/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second
	schemaTimeout  = 30 * time.Second
)

// ConnectDB opens the MongoDB client and builds the mail transport.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize))

	mail, err := newMailer(appCfg, logger)
	if err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Mailer:        mail,
	}, nil
}

// newMailer builds the shared mail transport, or returns nil when no account
// is configured.
func newMailer(appCfg AppConfig, logger *zap.Logger) (*mailer.Transport, error) {
	if appCfg.EmailAccount == "" {
		logger.Info("mail transport disabled (no email_account)")
		return nil, nil
	}
	t, err := mailer.NewTransport(mailer.Config{
		Service:  appCfg.EmailService,
		Account:  appCfg.EmailAccount,
		Password: appCfg.EmailPassword,
		From:     appCfg.EmailFrom,
		FromName: "SubTracker",
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("mail transport: %w", err)
	}
	logger.Info("mail transport ready",
		zap.String("service", appCfg.EmailService),
		zap.String("addr", t.Addr()),
		zap.String("from", t.From()))
	return t, nil
}

// EnsureSchema attaches collection validators and reconciles indexes,
// including those of the audit_events collection.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()

	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("collection validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	if err := audit.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		logger.Error("audit index setup failed", zap.Error(err))
		return err
	}
	return nil
}
