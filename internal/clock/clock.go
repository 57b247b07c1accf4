package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock is the time source for anything that stamps or expires state.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System reads the wall clock.
var System Clock = systemClock{}

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return System }),
)
