package main

import (
	"context"
	"os"

	"github.com/invoicepress/invoicepress/internal/clock"
	"github.com/invoicepress/invoicepress/internal/config"
	"github.com/invoicepress/invoicepress/internal/invoice"
	"github.com/invoicepress/invoicepress/internal/logger"
	"github.com/invoicepress/invoicepress/internal/output"
	"github.com/invoicepress/invoicepress/internal/pipeline"
	"github.com/invoicepress/invoicepress/internal/source"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	var exitCode int

	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		source.Module,
		invoice.Module,
		output.Module,
		pipeline.Module,

		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, p *pipeline.Pipeline, log *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						summary, err := p.Run(context.Background())
						if err != nil {
							log.Error("batch aborted", zap.Error(err))
							exitCode = 1
						} else if summary.Failed > 0 {
							exitCode = 1
						}
						_ = shutdowner.Shutdown()
					}()
					return nil
				},
			})
		}),
	)

	app.Run()
	os.Exit(exitCode)
}
