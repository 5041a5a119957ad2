package httpapi

import (
	"fmt"

	"go.uber.org/fx"
)

// NewModule provides the API handler under the DI name used by the listener
// module of the same name.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string) fx.Option {
	return fx.Provide(
		fx.Annotate(NewHandler, fx.ResultTags(fmt.Sprintf(`name:"%s"`, name))),
	)
}
