// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authfeature "github.com/dalemusser/collabboard/internal/app/features/auth"
	authgooglefeature "github.com/dalemusser/collabboard/internal/app/features/authgoogle"
	healthfeature "github.com/dalemusser/collabboard/internal/app/features/health"
	notificationsfeature "github.com/dalemusser/collabboard/internal/app/features/notifications"
	postsfeature "github.com/dalemusser/collabboard/internal/app/features/posts"
	profilefeature "github.com/dalemusser/collabboard/internal/app/features/profile"
	notificationstore "github.com/dalemusser/collabboard/internal/app/store/notifications"
	"github.com/dalemusser/collabboard/internal/app/store/oauthstate"
	poststore "github.com/dalemusser/collabboard/internal/app/store/posts"
	"github.com/dalemusser/collabboard/internal/app/store/resettokens"
	userstore "github.com/dalemusser/collabboard/internal/app/store/users"
	"github.com/dalemusser/collabboard/internal/app/system/auth"
	"github.com/dalemusser/collabboard/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It creates the session manager, the
// stores, and the feature handlers, and mounts each feature's subrouter.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	posts := poststore.New(deps.MongoDatabase)
	notifications := notificationstore.New(deps.MongoDatabase)
	states := oauthstate.New(deps.MongoDatabase)
	resets := resettokens.New(deps.MongoDatabase, appCfg.ResetTokenExpiry)

	mail := mailer.New(
		appCfg.MailSMTPHost,
		appCfg.MailSMTPPort,
		appCfg.MailSMTPUser,
		appCfg.MailSMTPPass,
		appCfg.MailFrom,
		logger,
	)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	authHandler := authfeature.NewHandler(
		users, resets, sessionMgr, mail,
		appCfg.BaseURL, appCfg.SiteName, appCfg.ResetTokenExpiry, logger)
	r.Mount("/api/auth", authfeature.Routes(authHandler))

	googleHandler := authgooglefeature.NewHandler(
		users, states, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Profile resolution and completion
	profileHandler := profilefeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/api/profile", profilefeature.Routes(profileHandler))

	// The post board
	postsHandler := postsfeature.NewHandler(posts, users, notifications, feedHub, logger)
	r.Mount("/api/posts", postsfeature.Routes(postsHandler))

	// Notification inbox
	notificationsHandler := notificationsfeature.NewHandler(notifications, logger)
	r.Mount("/api/notifications", notificationsfeature.Routes(notificationsHandler))

	return r, nil
}
