package internal

import (
	"context"

	"github.com/apiarycd/reposync/internal/config"
	"github.com/apiarycd/reposync/internal/credentials"
	"github.com/apiarycd/reposync/internal/events"
	"github.com/apiarycd/reposync/internal/fetches"
	"github.com/apiarycd/reposync/internal/git"
	"github.com/apiarycd/reposync/internal/repository"
	"github.com/apiarycd/reposync/internal/server"
	"github.com/apiarycd/reposync/internal/watcher"
	"github.com/apiarycd/reposync/pkg/badgerfx"
	"github.com/apiarycd/reposync/pkg/openapifx"
	"github.com/capcom6/go-infra-fx/validator"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/fiberfx/health"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		healthfx.Module(),
		fiberfx.Module(),
		openapifx.Module(),
		validator.Module,
		//
		// APP MODULES
		config.Module(),
		server.Module(),
		events.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() health.Version { return health.Version{Version: "0.1.0", ReleaseID: 1} }),
		credentials.Module(),
		git.Module(),
		watcher.Module(),
		fetches.Module(),
		repository.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("🚀 reposync starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("🛑 reposync shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
