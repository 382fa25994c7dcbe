package badgerfx

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"badgerfx",
		logger.WithNamedLogger("badgerfx"),
		fx.Provide(New),
		fx.Invoke(func(db *badger.DB, logger *zap.Logger, lifecycle fx.Lifecycle) {
			lifecycle.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					logger.Info("closing badger")
					if err := db.Close(); err != nil {
						return fmt.Errorf("failed to close BadgerDB: %w", err)
					}
					return nil
				},
			})
		}),
	)
}
