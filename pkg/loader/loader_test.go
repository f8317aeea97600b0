package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/kraljic-go/pkg/pipeline"
)

const (
	priceCSV = `product_id,price,currency,price_fluct
P1,10,USD,0.1
P2,20,EUR,0.3
`
	supplierCSV = `supplier_id,location,risk_index,rating
S1,Berlin,0.2,4
S2,Oslo,0.8,3
S3,NA,0.5,5
`
	shipmentCSV = `shipment_id,supplier_id,product_id,on_time,shipment_date,number_of_product_shipped,lead_time
SH1,S1,P1,Yes,2023-01-05,100,2
SH2,S1,P2,Yes,2023-01-06,50,3
SH3,S2,P1,No,2023-02-01,10,9
SH4,S2,P9,No,2023-02-03,5,10
SH5,S4,P1,Yes,2023-03-01,7,4
`
	qualityCSV = `product_id,quality_score,defect_rate
P1,90,0.01
P2,70,0.05
P9,50,0.5
`
)

func TestRead(t *testing.T) {
	l := NewCSVLoader("")

	tbl, err := l.Read(context.Background(), "supplier", strings.NewReader(supplierCSV))
	require.NoError(t, err)

	assert.Equal(t, "supplier", tbl.Name())
	assert.Equal(t, 3, tbl.NRows())
	assert.ElementsMatch(t, []string{"supplier_id", "location", "risk_index", "rating"}, tbl.Columns())
	assert.Equal(t, []int{0, 1}, tbl.CompleteRows())

	risk, ok, err := tbl.Float(1, "risk_index")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.8, risk)
}

func TestReadDelimiterAndTokens(t *testing.T) {
	l := &CSVLoader{Delimiter: ';', MissingTokens: []string{"", "-"}}

	tbl, err := l.Read(context.Background(), "price", strings.NewReader("product_id;price;currency;price_fluct\nP1;-;USD;0.1\nP2;5;NA;0.2\n"))
	require.NoError(t, err)

	assert.True(t, tbl.Missing(0, "price"))
	assert.False(t, tbl.Missing(1, "currency"))
}

func writeInputs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"price_data.csv":           priceCSV,
		"supplier_data.csv":        supplierCSV,
		"shipment_data.csv":        shipmentCSV,
		"product_quality_data.csv": qualityCSV,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeInputs(t)

	in, err := NewCSVLoader(dir).Load(context.Background(), DefaultFiles())
	require.NoError(t, err)

	assert.Equal(t, 2, in.Prices.NRows())
	assert.Equal(t, 3, in.Suppliers.NRows())
	assert.Equal(t, 5, in.Shipments.NRows())
	assert.Equal(t, 3, in.Quality.NRows())
	assert.Equal(t, "product_quality", in.Quality.Name())
}

func TestDefaultFiles(t *testing.T) {
	assert.Equal(t, Files{
		Price:    "price_data.csv",
		Supplier: "supplier_data.csv",
		Shipment: "shipment_data.csv",
		Quality:  "product_quality_data.csv",
	}, DefaultFiles())
}

func TestLoadMissingFile(t *testing.T) {
	files := DefaultFiles()
	files.Quality = "nope.csv"

	_, err := NewCSVLoader(writeInputs(t)).Load(context.Background(), files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open product_quality table")
}

func TestLoadAndRun(t *testing.T) {
	in, err := NewCSVLoader(writeInputs(t)).Load(context.Background(), DefaultFiles())
	require.NoError(t, err)

	res, err := pipeline.NewService(pipeline.DefaultOptions(), nil, nil).Run(in)
	require.NoError(t, err)

	got := map[string]string{}
	for _, c := range res.ClassifiedSuppliers {
		got[c.Key] = c.Category
	}
	assert.Equal(t, map[string]string{"S1": "Leverage Supplier", "S2": "Bottleneck Supplier"}, got)
	assert.Len(t, res.Facts, 3)
}
