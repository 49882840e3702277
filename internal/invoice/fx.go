package invoice

import (
	"github.com/invoicepress/invoicepress/internal/invoice/aggregate"
	"github.com/invoicepress/invoicepress/internal/invoice/compute"
	"github.com/invoicepress/invoicepress/internal/invoice/format"
	"github.com/invoicepress/invoicepress/internal/invoice/render"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice",
	fx.Provide(aggregate.New),
	fx.Provide(compute.New),
	fx.Provide(format.New),
	fx.Provide(
		fx.Annotate(render.NewRenderer, fx.As(new(render.Renderer))),
	),
)
