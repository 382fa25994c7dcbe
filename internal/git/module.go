package git

import (
	"github.com/apiarycd/reposync/internal/credentials"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"git",
		logger.WithNamedLogger("git"),
		fx.Provide(func(config Config, prompter *credentials.Service, logger *zap.Logger) *Service {
			return NewService(config, prompter, logger)
		}),
	)
}
