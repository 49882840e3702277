// Package wave loads invoice data from the Wave public GraphQL API and
// flattens it into the normalized source records.
package wave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/invoicepress/invoicepress/internal/config"
	sourcedomain "github.com/invoicepress/invoicepress/internal/source/domain"
	taxdomain "github.com/invoicepress/invoicepress/internal/tax/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Client struct {
	endpoint string
	token    string
	pageSize int
	http     *http.Client
	log      *zap.Logger

	once    sync.Once
	fetched []invoiceNode
	fetchEr error
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		endpoint: cfg.Source.Endpoint,
		token:    cfg.Source.Token,
		pageSize: cfg.Source.PageSize,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log.Named("source.wave"),
	}
}

func (c *Client) LoadLineRecords(ctx context.Context) ([]sourcedomain.LineRecord, error) {
	invoices, err := c.invoices(ctx)
	if err != nil {
		return nil, err
	}

	var records []sourcedomain.LineRecord
	for _, inv := range invoices {
		invoiceDate, err := time.Parse(dateLayout, inv.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: invoiceDate %q: %w", inv.InvoiceNumber, inv.InvoiceDate, sourcedomain.ErrSourceMalformed)
		}
		dueDate, err := time.Parse(dateLayout, inv.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: dueDate %q: %w", inv.InvoiceNumber, inv.DueDate, sourcedomain.ErrSourceMalformed)
		}

		for _, item := range inv.Items {
			unitPrice, err := decimal.NewFromString(item.UnitPrice)
			if err != nil {
				return nil, fmt.Errorf("invoice %s: unitPrice %q: %w", inv.InvoiceNumber, item.UnitPrice, sourcedomain.ErrSourceMalformed)
			}

			rec := sourcedomain.LineRecord{
				InvoiceNumber: inv.InvoiceNumber,
				CustomerKey:   inv.Customer.Name,
				Description:   item.Description,
				ProductName:   item.Product.Name,
				UnitAmountRaw: unitPrice.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
				Quantity:      decimal.NewFromFloat(item.Quantity),
				Currency:      inv.Currency.Code,
				InvoiceDate:   invoiceDate,
				DueDate:       dueDate,
			}
			for _, t := range item.Taxes {
				rec.ItemTaxes = append(rec.ItemTaxes, sourcedomain.ItemTax{
					Name:               t.SalesTax.Name,
					Rate:               t.SalesTax.Rate,
					RegistrationNumber: t.SalesTax.TaxNumber,
					AmountRaw:          t.Amount.Raw,
				})
			}
			records = append(records, rec)
		}
	}
	c.log.Debug("loaded line records", zap.Int("count", len(records)))
	return records, nil
}

func (c *Client) LoadCustomers(ctx context.Context) (map[string]sourcedomain.CustomerRecord, error) {
	invoices, err := c.invoices(ctx)
	if err != nil {
		return nil, err
	}

	customers := make(map[string]sourcedomain.CustomerRecord)
	for _, inv := range invoices {
		cust := inv.Customer
		if cust.Name == "" {
			continue
		}
		if _, ok := customers[cust.Name]; ok {
			continue
		}
		customers[cust.Name] = sourcedomain.CustomerRecord{
			Name:      cust.Name,
			FirstName: cust.FirstName,
			LastName:  cust.LastName,
			Email:     cust.Email,
			Phone:     cust.Phone,
			Mobile:    cust.Mobile,
			Website:   cust.Website,
			Address:   mapAddress(cust.Address),
		}
	}
	return customers, nil
}

// LoadTaxDefinitions builds the tax table from the sales taxes embedded in
// the itemized breakdowns. Wave data is self-contained, so every referenced
// tax is present by construction.
func (c *Client) LoadTaxDefinitions(ctx context.Context) (taxdomain.Table, error) {
	invoices, err := c.invoices(ctx)
	if err != nil {
		return nil, err
	}

	table := make(taxdomain.Table)
	for _, inv := range invoices {
		for _, item := range inv.Items {
			for _, t := range item.Taxes {
				if _, ok := table[t.SalesTax.Name]; ok {
					continue
				}
				table[t.SalesTax.Name] = taxdomain.TaxDefinition{
					Name:               t.SalesTax.Name,
					Rate:               t.SalesTax.Rate,
					RegistrationNumber: t.SalesTax.TaxNumber,
				}
			}
		}
	}
	return table, nil
}

// invoices fetches the GraphQL payload once and shares it across the three
// concurrent Provider loads.
func (c *Client) invoices(ctx context.Context) ([]invoiceNode, error) {
	c.once.Do(func() {
		c.fetched, c.fetchEr = c.fetch(ctx)
	})
	return c.fetched, c.fetchEr
}

func (c *Client) fetch(ctx context.Context) ([]invoiceNode, error) {
	body, err := json.Marshal(graphqlRequest{
		Query:     invoicesQuery(c.pageSize),
		Variables: map[string]any{},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %v: %w", c.endpoint, err, sourcedomain.ErrSourceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("post %s: status %d: %w", c.endpoint, resp.StatusCode, sourcedomain.ErrSourceUnavailable)
	}

	var payload graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %v: %w", err, sourcedomain.ErrSourceMalformed)
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("graphql: %s: %w", payload.Errors[0].Message, sourcedomain.ErrSourceMalformed)
	}

	var invoices []invoiceNode
	for _, b := range payload.Data.Businesses.Edges {
		for _, e := range b.Node.Invoices.Edges {
			invoices = append(invoices, e.Node)
		}
	}
	c.log.Debug("fetched invoices", zap.Int("count", len(invoices)))
	return invoices, nil
}

func mapAddress(a addressNode) sourcedomain.Address {
	return sourcedomain.Address{
		Line1:      a.AddressLine1,
		Line2:      a.AddressLine2,
		City:       a.City,
		Province:   a.Province.Name,
		Country:    a.Country.Name,
		PostalCode: a.PostalCode,
	}
}
