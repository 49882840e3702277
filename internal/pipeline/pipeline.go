// Package pipeline runs one batch: load sources, aggregate, compute,
// format, render and write outputs, then report.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invoicepress/invoicepress/internal/clock"
	"github.com/invoicepress/invoicepress/internal/config"
	"github.com/invoicepress/invoicepress/internal/invoice/aggregate"
	"github.com/invoicepress/invoicepress/internal/invoice/compute"
	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
	"github.com/invoicepress/invoicepress/internal/invoice/format"
	"github.com/invoicepress/invoicepress/internal/output"
	sourcedomain "github.com/invoicepress/invoicepress/internal/source/domain"
	taxdomain "github.com/invoicepress/invoicepress/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Summary is the outcome of one pipeline run.
type Summary struct {
	RunID    string
	Invoices int
	Outputs  int
	Failed   int
	Elapsed  time.Duration
}

type Param struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	Clock      clock.Clock
	Provider   sourcedomain.Provider
	Aggregator *aggregate.Aggregator
	Calculator *compute.Calculator
	Formatter  *format.Formatter
	Dispatcher *output.Dispatcher
}

type Pipeline struct {
	cfg        config.Config
	log        *zap.Logger
	clk        clock.Clock
	provider   sourcedomain.Provider
	aggregator *aggregate.Aggregator
	calculator *compute.Calculator
	formatter  *format.Formatter
	dispatcher *output.Dispatcher
}

func New(p Param) *Pipeline {
	return &Pipeline{
		cfg:        p.Config,
		log:        p.Log.Named("pipeline"),
		clk:        p.Clock,
		provider:   p.Provider,
		aggregator: p.Aggregator,
		calculator: p.Calculator,
		formatter:  p.Formatter,
		dispatcher: p.Dispatcher,
	}
}

// Run executes the whole batch once. Input loading failures abort before
// any invoice is processed; per-invoice output failures are isolated.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	log := p.log.With(zap.String("run_id", runID))
	start := p.clk.Now()

	lines, customers, taxes, err := p.loadSources(ctx)
	if err != nil {
		return Summary{RunID: runID}, err
	}
	log.Info("sources loaded",
		zap.Int("line_records", len(lines)),
		zap.Int("customers", len(customers)),
		zap.Int("taxes", len(taxes)))

	invoices, err := p.aggregator.Aggregate(lines, customers, taxes)
	if err != nil {
		return Summary{RunID: runID}, err
	}

	computed := make([]*invoicedomain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if err := p.calculator.Compute(inv); err != nil {
			if p.cfg.FailFast {
				return Summary{RunID: runID}, err
			}
			log.Warn("skipping invoice", zap.String("invoice", inv.Number), zap.Error(err))
			continue
		}
		p.formatter.Format(inv)
		computed = append(computed, inv)
	}

	results := p.dispatcher.Dispatch(ctx, computed)

	summary := Summary{
		RunID:    runID,
		Invoices: len(computed),
		Elapsed:  p.clk.Now().Sub(start),
	}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Outputs++
		}
	}

	log.Info("batch complete",
		zap.Int("invoices", summary.Invoices),
		zap.Int("outputs", summary.Outputs),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// loadSources fires all three loads concurrently and waits for all of them.
// Any failure aborts the batch; partial input is never aggregated.
func (p *Pipeline) loadSources(ctx context.Context) (
	[]sourcedomain.LineRecord,
	map[string]sourcedomain.CustomerRecord,
	taxdomain.Table,
	error,
) {
	var (
		wg        sync.WaitGroup
		lines     []sourcedomain.LineRecord
		customers map[string]sourcedomain.CustomerRecord
		taxes     taxdomain.Table

		linesErr, customersErr, taxesErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		lines, linesErr = p.provider.LoadLineRecords(ctx)
	}()
	go func() {
		defer wg.Done()
		customers, customersErr = p.provider.LoadCustomers(ctx)
	}()
	go func() {
		defer wg.Done()
		taxes, taxesErr = p.provider.LoadTaxDefinitions(ctx)
	}()
	wg.Wait()

	for _, err := range []error{linesErr, customersErr, taxesErr} {
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load sources: %w", err)
		}
	}
	return lines, customers, taxes, nil
}
