package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
	"go.uber.org/zap"
)

// NativeEngine draws the PDF directly from the computed invoice, for
// deployments without an external HTML-to-PDF converter installed.
type NativeEngine struct {
	log *zap.Logger
}

func NewNativeEngine(log *zap.Logger) *NativeEngine {
	return &NativeEngine{log: log.Named("output.pdf")}
}

func (e *NativeEngine) Convert(ctx context.Context, job PDFJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return fmt.Errorf("create %s: %v: %w", filepath.Dir(job.OutputPath), err, ErrOutputWriteFailure)
	}

	doc, err := buildDocument(job.Invoice)
	if err != nil {
		return fmt.Errorf("build pdf for %s: %v: %w", job.Invoice.Number, err, ErrOutputWriteFailure)
	}
	if err := doc.Save(job.OutputPath); err != nil {
		os.Remove(job.OutputPath)
		return fmt.Errorf("save %s: %v: %w", job.OutputPath, err, ErrOutputWriteFailure)
	}

	e.log.Debug("generated pdf", zap.String("invoice", job.Invoice.Number), zap.String("path", job.OutputPath))
	return nil
}

func buildDocument(inv *invoicedomain.Invoice) (core.Document, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, "Invoice", props.Text{Size: 20, Style: fontstyle.Bold}),
		text.NewCol(4, inv.Business.Name, props.Text{Size: 12, Align: align.Right}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Invoice number: "+inv.Number, props.Text{Top: 0}),
			text.New("Date of issue: "+inv.DateFormatted, props.Text{Top: 4}),
			text.New("Date due: "+inv.DueFormatted, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Bill to: "+inv.Customer.Name, props.Text{Top: 0, Align: align.Right}),
			text.New(inv.Customer.Address.Line1, props.Text{Top: 4, Align: align.Right}),
			text.New(customerCityLine(inv), props.Text{Top: 8, Align: align.Right}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit Price", props.Text{Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, line := range inv.Lines {
		label := line.Product
		if line.Description != "" {
			label = label + " - " + line.Description
		}
		m.AddRow(7,
			text.NewCol(6, label),
			text.NewCol(2, line.QuantityFormatted, props.Text{Align: align.Right}),
			text.NewCol(2, line.UnitAmountFormatted, props.Text{Align: align.Right}),
			text.NewCol(2, line.TotalFormatted, props.Text{Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Align: align.Right}),
		text.NewCol(2, inv.SubtotalFormatted, props.Text{Align: align.Right}),
	)
	for _, t := range inv.Taxes {
		m.AddRow(7,
			col.New(8),
			text.NewCol(2, fmt.Sprintf("%s (%s%%)", t.Name, t.PercentFormatted), props.Text{Align: align.Right}),
			text.NewCol(2, t.AmountFormatted, props.Text{Align: align.Right}),
		)
	}
	m.AddRow(9,
		col.New(8),
		text.NewCol(2, "Total "+inv.Currency, props.Text{Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, inv.TotalFormatted, props.Text{Style: fontstyle.Bold, Align: align.Right}),
	)

	return m.Generate()
}

func customerCityLine(inv *invoicedomain.Invoice) string {
	a := inv.Customer.Address
	province := a.ProvinceDisplay
	if province == "" {
		province = a.Province
	}
	return fmt.Sprintf("%s, %s %s", a.City, province, a.PostalCode)
}
