package fetches

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"fetches",
		logger.WithNamedLogger("fetches"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewService),
	)
}
