package output

import (
	"github.com/invoicepress/invoicepress/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewPDFEngine selects the converter for the configured engine.
func NewPDFEngine(cfg config.Config, log *zap.Logger) PDFEngine {
	if cfg.Output.PDFEngine == config.PDFEngineNative {
		return NewNativeEngine(log)
	}
	return NewWeasyPrintEngine(cfg, log)
}

var Module = fx.Module("output",
	fx.Provide(NewHTMLWriter),
	fx.Provide(NewPDFEngine),
	fx.Provide(NewDispatcher),
)
