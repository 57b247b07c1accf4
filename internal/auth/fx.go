package auth

import (
	"github.com/smallbiznis/iomreport/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	session.Module,
	fx.Provide(NewGate),
)
