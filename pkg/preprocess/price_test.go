package preprocess

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/table"
)

func rawPrices() *table.Table {
	return table.Build("price",
		table.Floats("product_id", 101.0, 102.0, 103.0, 104.0, 105.0),
		table.Floats("price", 10.0, 20.0, nil, 5.5, 8.0),
		table.Strings("currency", "EUR", "USD", "EUR", "GBP", "EUR"),
		table.Floats("price_fluct", 0.1, 0.2, 0.3, 0.4, 0.5),
	)
}

func TestNormalizePrices(t *testing.T) {
	res, err := NormalizePrices(rawPrices(), DefaultCurrencyOptions())
	require.NoError(t, err)

	require.Len(t, res.Records, 4)
	assert.Equal(t, 1, res.Report.Dropped[models.DropMissingValue])
	assert.Equal(t, 5, res.Report.RowsIn)
	assert.Equal(t, 4, res.Report.RowsOut)

	first := res.Records[0]
	assert.Equal(t, "101", first.ProductID)
	assert.Equal(t, 10.0*1.08, first.Price)
	assert.Equal(t, 0.1, first.PriceFluctuation)

	assert.Equal(t, 20.0, res.Records[1].Price)
	assert.Equal(t, 8.0*1.08, res.Records[3].Price)

	for _, rec := range res.Records {
		assert.Equal(t, "USD", rec.Currency)
	}
}

func TestNormalizePricesUnknownCurrencyPassesThrough(t *testing.T) {
	res, err := NormalizePrices(rawPrices(), CurrencyOptions{})
	require.NoError(t, err)

	gbp := res.Records[2]
	assert.Equal(t, "104", gbp.ProductID)
	assert.Equal(t, 5.5, gbp.Price)
	assert.Equal(t, "USD", gbp.Currency)
	assert.Equal(t, 1, res.Report.Flagged[models.FlagUnconvertedCurrency])
}

func TestNormalizePricesUnknownCurrencyRejected(t *testing.T) {
	opts := DefaultCurrencyOptions()
	opts.UnknownPolicy = CurrencyReject

	_, err := NormalizePrices(rawPrices(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnknownCurrency))
	assert.Contains(t, err.Error(), "GBP")
}

func TestNormalizePricesCustomRates(t *testing.T) {
	opts := CurrencyOptions{Rates: map[string]float64{"GBP": 1.25, "EUR": 1.08}}

	res, err := NormalizePrices(rawPrices(), opts)
	require.NoError(t, err)
	assert.Equal(t, 5.5*1.25, res.Records[2].Price)
	assert.Empty(t, res.Report.Flagged)
}

func TestNormalizePricesSchemaError(t *testing.T) {
	raw := table.Build("price",
		table.Strings("product_id", "1"),
		table.Floats("price", 1.0),
		table.Strings("currency", "USD"),
	)

	_, err := NormalizePrices(raw, DefaultCurrencyOptions())
	var se *models.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "price", se.Table)
	assert.Equal(t, "price_fluct", se.Column)
}

func TestNormalizePricesBadNumber(t *testing.T) {
	raw := table.Build("price",
		table.Strings("product_id", "1"),
		table.Strings("price", "ten"),
		table.Strings("currency", "USD"),
		table.Strings("price_fluct", "0.1"),
	)

	_, err := NormalizePrices(raw, DefaultCurrencyOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnparseable))
}

func TestNormalizePricesDoesNotMutateInput(t *testing.T) {
	raw := rawPrices()
	_, err := NormalizePrices(raw, DefaultCurrencyOptions())
	require.NoError(t, err)

	p, ok, err := raw.Float(0, "price")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10.0, p)
	assert.False(t, raw.Has("price_fluctuation"))
}
