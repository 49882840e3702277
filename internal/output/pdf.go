package output

import (
	"context"

	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
)

// PDFJob carries everything an engine may need: the rendered HTML (and its
// on-disk path when the HTML sink already wrote it) plus the computed
// invoice for engines that draw the document directly.
type PDFJob struct {
	Invoice    *invoicedomain.Invoice
	HTML       string
	HTMLPath   string
	OutputPath string
}

// PDFEngine converts one invoice to a PDF file. Conversion failures are
// isolated per invoice; the dispatcher reports them and moves on.
type PDFEngine interface {
	Convert(ctx context.Context, job PDFJob) error
}
