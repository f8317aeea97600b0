package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

func sampleTable() *Table {
	return Build("price",
		Strings("product_id", "101", "102", "NA", "104"),
		Floats("price", 10.5, nil, 3.0, 7.0),
		Strings("currency", "EUR", "USD", "USD", ""),
	)
}

func TestRequire(t *testing.T) {
	tbl := sampleTable()

	require.NoError(t, tbl.Require("product_id", "price"))

	err := tbl.Require("product_id", "price_fluct")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingColumn))

	var se *models.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "price", se.Table)
	assert.Equal(t, "price_fluct", se.Column)
}

func TestMissingDetection(t *testing.T) {
	tbl := sampleTable()

	assert.False(t, tbl.Missing(0, "price"))
	assert.True(t, tbl.Missing(1, "price"), "nil float is missing")
	assert.True(t, tbl.Missing(2, "product_id"), "NA token is missing")
	assert.True(t, tbl.Missing(3, "currency"), "empty string is missing")
	assert.True(t, tbl.Missing(0, "no_such_column"))

	assert.Equal(t, []int{0}, tbl.CompleteRows())
	assert.Equal(t, []string{"101"}, tbl.CompleteValues("product_id"))
}

func TestCustomMissingTokens(t *testing.T) {
	df := Build("t", Strings("a", "x", "-", "")).Frame()
	tbl := NewWithMissing("t", df, []string{"-"})

	assert.False(t, tbl.Missing(0, "a"))
	assert.True(t, tbl.Missing(1, "a"))
	assert.False(t, tbl.Missing(2, "a"), "empty is present when not a token")
}

func TestTextCoercion(t *testing.T) {
	tbl := Build("t",
		Floats("f", 101.0, 2.5),
		Ints("i", int64(7), int64(8)),
		Strings("s", " 42 ", "abc"),
	)

	v, ok := tbl.Text(0, "f")
	require.True(t, ok)
	assert.Equal(t, "101", v)

	v, _ = tbl.Text(1, "f")
	assert.Equal(t, "2.5", v)

	v, _ = tbl.Text(0, "i")
	assert.Equal(t, "7", v)

	v, _ = tbl.Text(0, "s")
	assert.Equal(t, "42", v)
}

func TestFloatAndInt(t *testing.T) {
	tbl := Build("shipment",
		Strings("qty", "12", "3.5", "many"),
		Floats("lead", 4.0, 5.5, nil),
	)

	f, ok, err := tbl.Float(0, "qty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 12.0, f)

	_, ok, err = tbl.Float(2, "lead")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = tbl.Float(2, "qty")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnparseable))

	n, ok, err := tbl.Int(0, "qty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)

	_, _, err = tbl.Int(1, "qty")
	assert.True(t, errors.Is(err, models.ErrUnparseable))
}

func TestColumnsAndRows(t *testing.T) {
	tbl := sampleTable()
	assert.Equal(t, "price", tbl.Name())
	assert.Equal(t, 4, tbl.NRows())
	assert.Equal(t, []string{"product_id", "price", "currency"}, tbl.Columns())
	assert.True(t, tbl.Has("currency"))
	assert.False(t, tbl.Has("price_fluct"))
}
