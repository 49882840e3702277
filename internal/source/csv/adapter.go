// Package csv reads line, customer and tax records from a directory of
// CSV exports (lines.csv, customers.csv, taxes.csv).
package csv

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/invoicepress/invoicepress/internal/config"
	sourcedomain "github.com/invoicepress/invoicepress/internal/source/domain"
	taxdomain "github.com/invoicepress/invoicepress/internal/tax/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	linesFile     = "lines.csv"
	customersFile = "customers.csv"
	taxesFile     = "taxes.csv"

	dateLayout = "2006-01-02"
)

// taxNameSeparator splits the taxes column of lines.csv.
const taxNameSeparator = ";"

type Adapter struct {
	dir string
	log *zap.Logger
}

func NewAdapter(cfg config.Config, log *zap.Logger) *Adapter {
	return &Adapter{
		dir: cfg.Source.CSVDir,
		log: log.Named("source.csv"),
	}
}

func (a *Adapter) LoadLineRecords(ctx context.Context) ([]sourcedomain.LineRecord, error) {
	rows, err := a.readTable(ctx, linesFile, []string{
		"invoice_number", "customer", "description", "product",
		"unit_amount", "quantity", "currency", "invoice_date", "due_date", "taxes",
	})
	if err != nil {
		return nil, err
	}

	records := make([]sourcedomain.LineRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := parseLineRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", linesFile, i+2, err)
		}
		records = append(records, rec)
	}
	a.log.Debug("loaded line records", zap.Int("count", len(records)))
	return records, nil
}

func (a *Adapter) LoadCustomers(ctx context.Context) (map[string]sourcedomain.CustomerRecord, error) {
	rows, err := a.readTable(ctx, customersFile, []string{"name"})
	if err != nil {
		return nil, err
	}

	customers := make(map[string]sourcedomain.CustomerRecord, len(rows))
	for _, row := range rows {
		c := sourcedomain.CustomerRecord{
			Name:      row["name"],
			FirstName: row["first_name"],
			LastName:  row["last_name"],
			Email:     row["email"],
			Phone:     row["phone"],
			Mobile:    row["mobile"],
			Website:   row["website"],
			Address: sourcedomain.Address{
				Line1:      row["address_line1"],
				Line2:      row["address_line2"],
				City:       row["city"],
				Province:   row["province"],
				Country:    row["country"],
				PostalCode: row["postal_code"],
			},
		}
		customers[c.Name] = c
	}
	return customers, nil
}

func (a *Adapter) LoadTaxDefinitions(ctx context.Context) (taxdomain.Table, error) {
	rows, err := a.readTable(ctx, taxesFile, []string{"name", "rate"})
	if err != nil {
		return nil, err
	}

	table := make(taxdomain.Table, len(rows))
	for i, row := range rows {
		rate, err := strconv.ParseFloat(row["rate"], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: rate %q: %w", taxesFile, i+2, row["rate"], sourcedomain.ErrSourceMalformed)
		}
		def := taxdomain.TaxDefinition{
			Name:               row["name"],
			Rate:               rate,
			RegistrationNumber: row["number"],
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", taxesFile, i+2, err)
		}
		table[def.Name] = def
	}
	return table, nil
}

// readTable reads one CSV file into header-keyed rows. Missing files map to
// ErrSourceUnavailable, missing required columns to ErrSourceMalformed.
func (a *Adapter) readTable(ctx context.Context, name string, required []string) ([]map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(a.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, sourcedomain.ErrSourceUnavailable)
	}
	defer f.Close()

	buf := bufio.NewReader(f)
	stripBOM(buf)

	r := csv.NewReader(buf)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %v: %w", name, err, sourcedomain.ErrSourceMalformed)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s is missing column %q: %w", name, col, sourcedomain.ErrSourceMalformed)
		}
	}

	var rows []map[string]string
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %v: %w", name, err, sourcedomain.ErrSourceMalformed)
		}
		row := make(map[string]string, len(index))
		for col, i := range index {
			if i < len(fields) {
				row[col] = strings.TrimSpace(fields[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseLineRecord(row map[string]string) (sourcedomain.LineRecord, error) {
	unit, err := parseCents(row["unit_amount"])
	if err != nil {
		return sourcedomain.LineRecord{}, fmt.Errorf("unit_amount %q: %w", row["unit_amount"], sourcedomain.ErrSourceMalformed)
	}

	qty, err := decimal.NewFromString(row["quantity"])
	if err != nil {
		return sourcedomain.LineRecord{}, fmt.Errorf("quantity %q: %w", row["quantity"], sourcedomain.ErrSourceMalformed)
	}

	invoiceDate, err := time.Parse(dateLayout, row["invoice_date"])
	if err != nil {
		return sourcedomain.LineRecord{}, fmt.Errorf("invoice_date %q: %w", row["invoice_date"], sourcedomain.ErrSourceMalformed)
	}
	dueDate, err := time.Parse(dateLayout, row["due_date"])
	if err != nil {
		return sourcedomain.LineRecord{}, fmt.Errorf("due_date %q: %w", row["due_date"], sourcedomain.ErrSourceMalformed)
	}

	return sourcedomain.LineRecord{
		InvoiceNumber: row["invoice_number"],
		CustomerKey:   row["customer"],
		Description:   row["description"],
		ProductName:   row["product"],
		UnitAmountRaw: unit,
		Quantity:      qty,
		Currency:      row["currency"],
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		TaxNames:      splitTaxNames(row["taxes"]),
	}, nil
}

// parseCents converts a major-unit decimal string ("100.00") to integer
// cents, rounding once half away from zero if the input carries fractional
// cents.
func parseCents(value string) (int64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func splitTaxNames(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, taxNameSeparator)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		names = append(names, p)
	}
	return names
}

// stripBOM discards a leading UTF-8 byte order mark if present.
func stripBOM(r *bufio.Reader) {
	head, err := r.Peek(3)
	if err != nil {
		return
	}
	if len(head) == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = r.Discard(3)
	}
}
