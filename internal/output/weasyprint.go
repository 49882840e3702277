package output

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/invoicepress/invoicepress/internal/config"
	"go.uber.org/zap"
)

const defaultConvertTimeout = 30 * time.Second

// WeasyPrintEngine shells out to an external HTML-to-PDF converter
// (weasyprint by default). The binary is resolved lazily so a missing
// converter only fails the invoices that actually request a PDF.
type WeasyPrintEngine struct {
	binary  string
	timeout time.Duration
	log     *zap.Logger
}

func NewWeasyPrintEngine(cfg config.Config, log *zap.Logger) *WeasyPrintEngine {
	return &WeasyPrintEngine{
		binary:  cfg.Output.PDFBinary,
		timeout: defaultConvertTimeout,
		log:     log.Named("output.weasyprint"),
	}
}

func (e *WeasyPrintEngine) Convert(ctx context.Context, job PDFJob) error {
	binary, err := exec.LookPath(e.binary)
	if err != nil {
		return fmt.Errorf("converter binary %q not found: %w", e.binary, ErrOutputWriteFailure)
	}

	htmlPath := job.HTMLPath
	if htmlPath == "" {
		// HTML sink disabled; feed the converter from a temp file.
		tmp, err := os.CreateTemp("", "invoice-*.html")
		if err != nil {
			return fmt.Errorf("create temp html: %v: %w", err, ErrOutputWriteFailure)
		}
		htmlPath = tmp.Name()
		defer os.Remove(htmlPath)

		if _, err := tmp.WriteString(job.HTML); err != nil {
			tmp.Close()
			return fmt.Errorf("write temp html: %v: %w", err, ErrOutputWriteFailure)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("close temp html: %v: %w", err, ErrOutputWriteFailure)
		}
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return fmt.Errorf("create %s: %v: %w", filepath.Dir(job.OutputPath), err, ErrOutputWriteFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, binary, htmlPath, job.OutputPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Remove whatever the converter left behind; a failed conversion
		// must not leave a partial output file.
		os.Remove(job.OutputPath)
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("convert %s: %s: %w", job.Invoice.Number, detail, ErrOutputWriteFailure)
	}

	e.log.Debug("converted invoice to pdf",
		zap.String("invoice", job.Invoice.Number),
		zap.String("path", job.OutputPath),
		zap.Duration("took", time.Since(start)))
	return nil
}
