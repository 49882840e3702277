// Package config loads the application configuration once at startup.
// The resulting Config value is immutable; components receive it by value
// so concurrent runs with different locales cannot interfere.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Source kinds understood by the pipeline.
const (
	SourceCSV  = "csv"
	SourceWave = "wave"
)

// PDF engines understood by the output stage.
const (
	PDFEngineWeasyPrint = "weasyprint"
	PDFEngineNative     = "native"
)

// TaxConfig declares a named tax with its rate (fraction, e.g. 0.05 for 5%)
// and the registration number printed on invoices.
type TaxConfig struct {
	Rate   float64 `mapstructure:"rate"`
	Number string  `mapstructure:"number"`
}

// BusinessConfig holds the static header fields of the issuing business.
type BusinessConfig struct {
	Name       string `mapstructure:"name"`
	Phone      string `mapstructure:"phone"`
	Website    string `mapstructure:"website"`
	Line1      string `mapstructure:"addressLine1"`
	Line2      string `mapstructure:"addressLine2"`
	City       string `mapstructure:"city"`
	Province   string `mapstructure:"province"`
	Country    string `mapstructure:"country"`
	PostalCode string `mapstructure:"postalCode"`
}

// SourceConfig selects and parameterizes the record source.
type SourceConfig struct {
	Kind string `mapstructure:"kind"`

	// CSVDir is the directory holding lines.csv, customers.csv and taxes.csv.
	CSVDir string `mapstructure:"csvDir"`

	// Wave GraphQL settings.
	Token    string `mapstructure:"token"`
	Endpoint string `mapstructure:"endpoint"`
	PageSize int    `mapstructure:"pageSize"`
}

// OutputConfig controls the sinks fed by the render dispatcher.
type OutputConfig struct {
	GenerateHTML  bool   `mapstructure:"generateHTML"`
	GeneratePDF   bool   `mapstructure:"generatePDF"`
	HTMLDirectory string `mapstructure:"htmlDirectory"`
	PDFDirectory  string `mapstructure:"pdfDirectory"`

	PDFEngine string `mapstructure:"pdfEngine"`
	PDFBinary string `mapstructure:"pdfBinary"`
}

// Config is the full application configuration.
type Config struct {
	Locale         string               `mapstructure:"locale"`
	CurrencyFormat string               `mapstructure:"currencyFormat"`
	DateFormat     string               `mapstructure:"dateFormat"`
	Template       string               `mapstructure:"template"`
	FailFast       bool                 `mapstructure:"failFast"`
	LogLevel       string               `mapstructure:"logLevel"`
	Taxes          map[string]TaxConfig `mapstructure:"taxes"`
	Business       BusinessConfig       `mapstructure:"business"`
	Source         SourceConfig         `mapstructure:"source"`
	Output         OutputConfig         `mapstructure:"output"`
}

// Load reads invoicepress.yml (working directory or /etc/invoicepress) with
// INVOICEPRESS_* environment overrides. A missing file falls back to defaults
// plus environment; a malformed file is an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("invoicepress")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/invoicepress")

	v.SetEnvPrefix("INVOICEPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("locale", "en")
	v.SetDefault("currencyFormat", "$0,0.00")
	v.SetDefault("dateFormat", "MMMM D, YYYY")
	v.SetDefault("failFast", true)
	v.SetDefault("logLevel", "info")
	v.SetDefault("source.kind", SourceCSV)
	v.SetDefault("source.endpoint", "https://gql.waveapps.com/graphql/public")
	v.SetDefault("source.pageSize", 5)
	v.SetDefault("output.generateHTML", true)
	v.SetDefault("output.generatePDF", false)
	v.SetDefault("output.htmlDirectory", "out/html")
	v.SetDefault("output.pdfDirectory", "out/pdf")
	v.SetDefault("output.pdfEngine", PDFEngineWeasyPrint)
	v.SetDefault("output.pdfBinary", "weasyprint")
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.CSVDir == "" {
			return errors.New("source.csvDir is required for the csv source")
		}
	case SourceWave:
		if c.Source.Token == "" {
			return errors.New("source.token is required for the wave source")
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}

	if !c.Output.GenerateHTML && !c.Output.GeneratePDF {
		return errors.New("at least one of output.generateHTML or output.generatePDF must be enabled")
	}
	if c.Output.GeneratePDF {
		switch c.Output.PDFEngine {
		case PDFEngineWeasyPrint, PDFEngineNative:
		default:
			return fmt.Errorf("unknown output.pdfEngine %q", c.Output.PDFEngine)
		}
	}

	for name, tax := range c.Taxes {
		if tax.Rate < 0 || tax.Rate > 1 {
			return fmt.Errorf("tax %q has rate %v outside [0, 1]", name, tax.Rate)
		}
	}
	return nil
}
