package output

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/invoicepress/invoicepress/internal/config"
	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
	"github.com/invoicepress/invoicepress/internal/invoice/render"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sink identifiers used in results and logs.
const (
	SinkHTML = "html"
	SinkPDF  = "pdf"
)

// Result reports one sink's outcome for one invoice.
type Result struct {
	Invoice string
	Sink    string
	Path    string
	Err     error
}

type DispatcherParam struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	Renderer render.Renderer
	Writer   *HTMLWriter
	Engine   PDFEngine
}

// Dispatcher renders each computed invoice once and feeds the result to the
// enabled sinks. Invoices share no mutable state after aggregation, so they
// are dispatched concurrently; sinks for one invoice are independent of each
// other, and a PDF failure never rolls back the HTML file.
type Dispatcher struct {
	cfg      config.OutputConfig
	log      *zap.Logger
	renderer render.Renderer
	writer   *HTMLWriter
	engine   PDFEngine
}

func NewDispatcher(p DispatcherParam) *Dispatcher {
	return &Dispatcher{
		cfg:      p.Config.Output,
		log:      p.Log.Named("output.dispatch"),
		renderer: p.Renderer,
		writer:   p.Writer,
		engine:   p.Engine,
	}
}

// Dispatch processes all invoices and returns one Result per attempted
// sink, in no particular order.
func (d *Dispatcher) Dispatch(ctx context.Context, invoices []*invoicedomain.Invoice) []Result {
	var wg sync.WaitGroup
	results := make(chan Result, len(invoices)*2)

	for _, inv := range invoices {
		wg.Add(1)
		go func(inv *invoicedomain.Invoice) {
			defer wg.Done()
			for _, r := range d.dispatchOne(ctx, inv) {
				results <- r
			}
		}(inv)
	}

	wg.Wait()
	close(results)

	var out []Result
	for r := range results {
		if r.Err != nil {
			d.log.Error("sink failed",
				zap.String("invoice", r.Invoice),
				zap.String("sink", r.Sink),
				zap.Error(r.Err))
		} else {
			d.log.Info("output written",
				zap.String("invoice", r.Invoice),
				zap.String("sink", r.Sink),
				zap.String("path", r.Path))
		}
		out = append(out, r)
	}
	return out
}

func (d *Dispatcher) dispatchOne(ctx context.Context, inv *invoicedomain.Invoice) []Result {
	html, err := d.renderer.Render(render.BuildView(inv))
	if err != nil {
		// Nothing to feed the sinks with; report one failure per enabled sink.
		var results []Result
		if d.cfg.GenerateHTML {
			results = append(results, Result{Invoice: inv.Number, Sink: SinkHTML, Err: err})
		}
		if d.cfg.GeneratePDF {
			results = append(results, Result{Invoice: inv.Number, Sink: SinkPDF, Err: err})
		}
		return results
	}

	var results []Result
	var htmlPath string

	if d.cfg.GenerateHTML {
		path := filepath.Join(d.cfg.HTMLDirectory, FileName(inv.Number, ".html"))
		if err := d.writer.Write(path, html); err != nil {
			results = append(results, Result{Invoice: inv.Number, Sink: SinkHTML, Err: err})
		} else {
			htmlPath = path
			results = append(results, Result{Invoice: inv.Number, Sink: SinkHTML, Path: path})
		}
	}

	if d.cfg.GeneratePDF {
		path := filepath.Join(d.cfg.PDFDirectory, FileName(inv.Number, ".pdf"))
		job := PDFJob{
			Invoice:    inv,
			HTML:       html,
			HTMLPath:   htmlPath,
			OutputPath: path,
		}
		if err := d.engine.Convert(ctx, job); err != nil {
			results = append(results, Result{Invoice: inv.Number, Sink: SinkPDF, Err: err})
		} else {
			results = append(results, Result{Invoice: inv.Number, Sink: SinkPDF, Path: path})
		}
	}
	return results
}
