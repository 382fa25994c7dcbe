package credentials

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"credentials",
		logger.WithNamedLogger("credentials"),
		fx.Provide(NewService),
	)
}
