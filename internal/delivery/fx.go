package delivery

import (
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/internal/delivery/repository"
	"github.com/smallbiznis/iomreport/internal/delivery/service"
	"go.uber.org/fx"
)

var Module = fx.Module("delivery",
	fx.Provide(
		fx.Annotate(repository.NewOpener, fx.As(new(domain.Opener))),
		service.NewFactory,
	),
)
