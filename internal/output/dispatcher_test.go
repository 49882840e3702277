package output

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/invoicepress/invoicepress/internal/config"
	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
	"github.com/invoicepress/invoicepress/internal/invoice/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(view render.View) (string, error) {
	args := m.Called(view)
	return args.String(0), args.Error(1)
}

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Convert(ctx context.Context, job PDFJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func newTestDispatcher(out config.OutputConfig, renderer render.Renderer, engine PDFEngine) *Dispatcher {
	return &Dispatcher{
		cfg:      out,
		log:      zap.NewNop(),
		renderer: renderer,
		writer:   NewHTMLWriter(),
		engine:   engine,
	}
}

func invoiceNumbered(number string) *invoicedomain.Invoice {
	return &invoicedomain.Invoice{Number: number}
}

func TestDispatchWritesHTML(t *testing.T) {
	dir := t.TempDir()

	renderer := &mockRenderer{}
	renderer.On("Render", mock.Anything).Return("<html>INV-001</html>", nil)

	d := newTestDispatcher(config.OutputConfig{
		GenerateHTML:  true,
		HTMLDirectory: dir,
	}, renderer, nil)

	results := d.Dispatch(context.Background(), []*invoicedomain.Invoice{invoiceNumbered("INV-001")})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, SinkHTML, results[0].Sink)

	content, err := os.ReadFile(filepath.Join(dir, "inv-001.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>INV-001</html>", string(content))
}

func TestDispatchPDFFailureDoesNotAffectHTML(t *testing.T) {
	dir := t.TempDir()

	renderer := &mockRenderer{}
	renderer.On("Render", mock.Anything).Return("<html>INV-001</html>", nil)

	engine := &mockEngine{}
	engine.On("Convert", mock.Anything, mock.Anything).Return(errors.New("converter exploded"))

	d := newTestDispatcher(config.OutputConfig{
		GenerateHTML:  true,
		GeneratePDF:   true,
		HTMLDirectory: filepath.Join(dir, "html"),
		PDFDirectory:  filepath.Join(dir, "pdf"),
	}, renderer, engine)

	results := d.Dispatch(context.Background(), []*invoicedomain.Invoice{invoiceNumbered("INV-001")})
	require.Len(t, results, 2)

	var htmlResult, pdfResult Result
	for _, r := range results {
		switch r.Sink {
		case SinkHTML:
			htmlResult = r
		case SinkPDF:
			pdfResult = r
		}
	}

	assert.NoError(t, htmlResult.Err)
	assert.Error(t, pdfResult.Err)

	// The HTML file survived the PDF failure.
	_, err := os.Stat(filepath.Join(dir, "html", "inv-001.html"))
	assert.NoError(t, err)
}

func TestDispatchPDFWithoutHTMLSink(t *testing.T) {
	renderer := &mockRenderer{}
	renderer.On("Render", mock.Anything).Return("<html>INV-001</html>", nil)

	engine := &mockEngine{}
	engine.On("Convert", mock.Anything, mock.MatchedBy(func(job PDFJob) bool {
		return job.HTMLPath == "" && job.HTML != ""
	})).Return(nil)

	d := newTestDispatcher(config.OutputConfig{
		GeneratePDF:  true,
		PDFDirectory: t.TempDir(),
	}, renderer, engine)

	results := d.Dispatch(context.Background(), []*invoicedomain.Invoice{invoiceNumbered("INV-001")})
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	engine.AssertExpectations(t)
}

func TestDispatchRenderFailureReportsAllSinks(t *testing.T) {
	renderer := &mockRenderer{}
	renderer.On("Render", mock.Anything).Return("", errors.New("bad template"))

	d := newTestDispatcher(config.OutputConfig{
		GenerateHTML:  true,
		GeneratePDF:   true,
		HTMLDirectory: t.TempDir(),
		PDFDirectory:  t.TempDir(),
	}, renderer, &mockEngine{})

	results := d.Dispatch(context.Background(), []*invoicedomain.Invoice{invoiceNumbered("INV-001")})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Error(t, r.Err)
	}
}

func TestDispatchProcessesInvoicesIndependently(t *testing.T) {
	dir := t.TempDir()

	renderer := &mockRenderer{}
	renderer.On("Render", mock.MatchedBy(func(v render.View) bool { return v.Number == "INV-001" })).
		Return("", errors.New("render failed"))
	renderer.On("Render", mock.MatchedBy(func(v render.View) bool { return v.Number == "INV-002" })).
		Return("<html>two</html>", nil)

	d := newTestDispatcher(config.OutputConfig{
		GenerateHTML:  true,
		HTMLDirectory: dir,
	}, renderer, nil)

	results := d.Dispatch(context.Background(), []*invoicedomain.Invoice{
		invoiceNumbered("INV-001"),
		invoiceNumbered("INV-002"),
	})
	require.Len(t, results, 2)

	_, err := os.Stat(filepath.Join(dir, "inv-002.html"))
	assert.NoError(t, err)
}
