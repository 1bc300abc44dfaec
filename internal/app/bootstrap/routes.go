// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	authapifeature "github.com/dalemusser/subtracker/internal/app/features/authapi"
	errorsfeature "github.com/dalemusser/subtracker/internal/app/features/errors"
	healthfeature "github.com/dalemusser/subtracker/internal/app/features/health"
	userinfofeature "github.com/dalemusser/subtracker/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/subtracker/internal/app/features/users"
	"github.com/dalemusser/subtracker/internal/app/store/audit"
	userstore "github.com/dalemusser/subtracker/internal/app/store/users"
	"github.com/dalemusser/subtracker/internal/app/system/auditlog"
	"github.com/dalemusser/subtracker/internal/app/system/auth"
	"github.com/dalemusser/subtracker/internal/app/system/httperr"
	"github.com/dalemusser/subtracker/internal/app/system/ratelimit"
	"github.com/dalemusser/subtracker/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// signInLimiter is stopped in Shutdown.
var signInLimiter *ratelimit.Limiter

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. SubTracker builds the token issuer and
// session manager, installs request middleware, and mounts the health, auth,
// users and userinfo routes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokens([]byte(appCfg.JWTSecret), appCfg.JWTExpiresIn)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewManager(tokens, appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Re-read the user on each request so deleted accounts lose access immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	auditLog := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{Auth: appCfg.AuditLogAuth})

	errLog := errorsfeature.NewErrorLogger(logger)
	errH := errorsfeature.NewHandler(errLog)

	signInLimiter = ratelimit.New(rate.Limit(float64(appCfg.SignInPerMinute)/60), appCfg.SignInBurst, 5*time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(reqlog.Middleware(logger))
	r.Use(middleware.Recoverer)

	// Loads SessionUser into context when a token or cookie is present.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api/v1", func(api chi.Router) {
		authHandler := authapifeature.NewHandler(deps.MongoDatabase, sessionMgr, signInLimiter, deps.Mailer, auditLog, errLog, logger)
		api.Mount("/auth", authapifeature.Routes(authHandler, errH))

		usersHandler := usersfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		api.Mount("/users", usersfeature.Routes(usersHandler, errH, sessionMgr))

		userinfofeature.MountRoutes(api, userinfofeature.NewHandler())
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errH.Handle(w, req, httperr.NotFound("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		errH.Handle(w, req, httperr.New(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	return r, nil
}
