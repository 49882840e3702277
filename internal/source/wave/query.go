package wave

import "fmt"

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Businesses struct {
			Edges []struct {
				Node struct {
					Invoices struct {
						Edges []struct {
							Node invoiceNode `json:"node"`
						} `json:"edges"`
					} `json:"invoices"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"businesses"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type moneyNode struct {
	Raw   int64   `json:"raw"`
	Value float64 `json:"value"`
}

type addressNode struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Province     struct {
		Name string `json:"name"`
	} `json:"province"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
	PostalCode string `json:"postalCode"`
}

type salesTaxNode struct {
	Name      string  `json:"name"`
	TaxNumber string  `json:"taxNumber"`
	Rate      float64 `json:"rate"`
}

type itemTaxNode struct {
	Amount   moneyNode    `json:"amount"`
	Rate     float64      `json:"rate"`
	SalesTax salesTaxNode `json:"salesTax"`
}

type itemNode struct {
	Description string        `json:"description"`
	Quantity    float64       `json:"quantity"`
	UnitPrice   string        `json:"unitPrice"`
	Subtotal    moneyNode     `json:"subtotal"`
	Taxes       []itemTaxNode `json:"taxes"`
	Product     struct {
		Name string `json:"name"`
	} `json:"product"`
}

type partyNode struct {
	Name      string      `json:"name"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Mobile    string      `json:"mobile"`
	Phone     string      `json:"phone"`
	Website   string      `json:"website"`
	Address   addressNode `json:"address"`
}

type invoiceNode struct {
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"`
	DueDate       string `json:"dueDate"`
	Currency      struct {
		Code string `json:"code"`
	} `json:"currency"`
	Items    []itemNode `json:"items"`
	Customer partyNode  `json:"customer"`
}

func invoicesQuery(pageSize int) string {
	return fmt.Sprintf(`
query {
  businesses {
    edges {
      node {
        invoices(page: 1, pageSize: %d) {
          edges {
            node {
              invoiceNumber
              invoiceDate
              dueDate
              currency { code }
              items {
                description
                quantity
                unitPrice
                subtotal { ...money }
                taxes {
                  amount { ...money }
                  rate
                  salesTax { name taxNumber rate }
                }
                product { name }
              }
              customer {
                name
                firstName
                lastName
                email
                mobile
                phone
                website
                address { ...address }
              }
            }
          }
        }
      }
    }
  }
}

fragment money on Money {
  raw
  value
}

fragment address on Address {
  addressLine1
  addressLine2
  city
  province { name }
  country { name }
  postalCode
}`, pageSize)
}
