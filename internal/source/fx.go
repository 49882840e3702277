package source

import (
	"fmt"

	"github.com/invoicepress/invoicepress/internal/config"
	sourcecsv "github.com/invoicepress/invoicepress/internal/source/csv"
	"github.com/invoicepress/invoicepress/internal/source/domain"
	"github.com/invoicepress/invoicepress/internal/source/wave"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewProvider selects the source adapter for the configured kind.
func NewProvider(cfg config.Config, log *zap.Logger) (domain.Provider, error) {
	switch cfg.Source.Kind {
	case config.SourceCSV:
		return sourcecsv.NewAdapter(cfg, log), nil
	case config.SourceWave:
		return wave.NewClient(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

var Module = fx.Module("source",
	fx.Provide(NewProvider),
)
