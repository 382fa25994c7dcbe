package watcher

import (
	"context"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"watcher",
		logger.WithNamedLogger("watcher"),
		fx.Provide(NewService),
		fx.Invoke(func(svc *Service, logger *zap.Logger, lifecycle fx.Lifecycle) {
			lifecycle.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					logger.Info("stopping watchers")
					svc.Close()
					return nil
				},
			})
		}),
	)
}
