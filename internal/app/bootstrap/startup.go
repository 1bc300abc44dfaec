// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/subtracker/internal/app/store/audit"
	"github.com/dalemusser/subtracker/internal/app/system/timeouts"
	"github.com/dalemusser/subtracker/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// auditPurge is started in Startup and stopped in Shutdown.
var auditPurge *workers.AuditPurge

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})
	cur := timeouts.Current()
	logger.Info("store timeouts",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium))

	switch {
	case appCfg.AuditRetention <= 0:
		logger.Info("audit retention disabled; events are kept forever")
	case appCfg.AuditLogAuth == "log" || appCfg.AuditLogAuth == "off":
		// nothing is written to the audit collection
	default:
		auditPurge = workers.NewAuditPurge(
			audit.New(deps.MongoDatabase),
			logger,
			appCfg.AuditPurgeInterval,
			appCfg.AuditRetention,
		)
		auditPurge.Start()
	}
	return nil
}
