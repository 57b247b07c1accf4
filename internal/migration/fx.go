package migration

import (
	"go.uber.org/fx"
)

var Module = fx.Module("migrations",
	fx.Provide(func() SetupScript { return SetupScript(SetupSQL()) }),
)

// SetupScript is the remediation SQL shown to operators.
type SetupScript string
