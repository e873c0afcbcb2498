package sheet

import "go.uber.org/fx"

var Module = fx.Module("sheet",
	fx.Provide(NewFetcher),
)
