// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	poststore "github.com/dalemusser/collabboard/internal/app/store/posts"
	"github.com/dalemusser/collabboard/internal/app/system/livefeed"
	"github.com/dalemusser/collabboard/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Long-lived pieces created in Startup and shared with BuildHandler and
// Shutdown.
var (
	feedHub         *livefeed.Hub
	retentionWorker *workers.RetentionSweep
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to start background workers and any app-wide state that depends on
// config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	feedHub = livefeed.NewHub(logger)

	retentionWorker = workers.NewRetentionSweep(
		poststore.New(deps.MongoDatabase),
		logger,
		appCfg.RetentionSweepInterval,
		appCfg.PostRetention,
	)
	retentionWorker.Start()

	return nil
}
