package repository

import (
	"context"

	"github.com/apiarycd/reposync/internal/fetches"
	"github.com/apiarycd/reposync/internal/watcher"
	"github.com/go-core-fx/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"repository",
		logger.WithNamedLogger("repository"),
		fx.Provide(NewGitAdapter, fx.Private),
		fx.Provide(func(w *watcher.Service) Watcher { return w }, fx.Private),
		fx.Provide(func(f *fetches.Service) FetchRecorder { return f }, fx.Private),
		fx.Provide(func() *Metrics { return NewMetrics(prometheus.DefaultRegisterer) }, fx.Private),
		fx.Provide(NewService),
		fx.Invoke(func(svc *Service, logger *zap.Logger, lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					svc.OpenConfigured(ctx)
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("closing repositories")
					svc.CloseAll()
					return nil
				},
			})
		}),
	)
}
