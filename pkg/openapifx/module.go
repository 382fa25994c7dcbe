package openapifx

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

// Module provides the OpenAPI Handler. It expects a Config and the
// *swag.Spec of the generated docs package.
func Module() fx.Option {
	return fx.Module(
		"openapifx",
		logger.WithNamedLogger("openapifx"),
		fx.Provide(New),
	)
}
