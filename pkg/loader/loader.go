// Package loader reads the four input CSV files into tables.
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rocketlaunchr/dataframe-go/imports"

	"github.com/mimir-aip/kraljic-go/pkg/pipeline"
	"github.com/mimir-aip/kraljic-go/pkg/table"
)

// Files names the input CSV of each table, relative to the data directory
type Files struct {
	Price    string `yaml:"price"`
	Supplier string `yaml:"supplier"`
	Shipment string `yaml:"shipment"`
	Quality  string `yaml:"quality"`
}

// DefaultFiles returns the conventional input file names
func DefaultFiles() Files {
	return Files{
		Price:    "price_data.csv",
		Supplier: "supplier_data.csv",
		Shipment: "shipment_data.csv",
		Quality:  "product_quality_data.csv",
	}
}

// CSVLoader loads CSV files through dataframe-go. Every column is read as
// text; typing happens in the stages. Empty cells are always missing.
type CSVLoader struct {
	DataDir       string
	Delimiter     rune
	MissingTokens []string
}

// NewCSVLoader creates a loader rooted at dataDir
func NewCSVLoader(dataDir string) *CSVLoader {
	return &CSVLoader{
		DataDir:       dataDir,
		Delimiter:     ',',
		MissingTokens: table.DefaultMissingTokens,
	}
}

// Load reads the four tables named by files
func (l *CSVLoader) Load(ctx context.Context, files Files) (pipeline.Inputs, error) {
	var in pipeline.Inputs
	specs := []struct {
		name string
		file string
		dst  **table.Table
	}{
		{"price", files.Price, &in.Prices},
		{"supplier", files.Supplier, &in.Suppliers},
		{"shipment", files.Shipment, &in.Shipments},
		{"product_quality", files.Quality, &in.Quality},
	}

	for _, s := range specs {
		t, err := l.LoadFile(ctx, s.name, s.file)
		if err != nil {
			return pipeline.Inputs{}, err
		}
		*s.dst = t
	}
	return in, nil
}

// LoadFile reads one CSV file into a table called name
func (l *CSVLoader) LoadFile(ctx context.Context, name, file string) (*table.Table, error) {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.DataDir, file)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s table: %w", name, err)
	}
	defer f.Close()

	return l.Read(ctx, name, f)
}

// Read parses CSV from r into a table called name
func (l *CSVLoader) Read(ctx context.Context, name string, r io.ReadSeeker) (*table.Table, error) {
	delimiter := l.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}
	empty := ""
	df, err := imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		Comma:            delimiter,
		TrimLeadingSpace: true,
		NilValue:         &empty,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s table: %w", name, err)
	}
	tokens := l.MissingTokens
	if tokens == nil {
		tokens = table.DefaultMissingTokens
	}
	return table.NewWithMissing(name, df, tokens), nil
}
