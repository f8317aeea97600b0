package fact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

func shipment(supplier, product int, revenue float64, priced bool) models.ShipmentRecord {
	return models.ShipmentRecord{
		SupplierID:  supplier,
		SupplierKey: string(rune('A' + supplier)),
		ProductID:   product,
		ProductKey:  string(rune('p' + product)),
		LeadTime:    float64(supplier + product),
		Revenue:     revenue,
		Priced:      priced,
	}
}

func TestCombine(t *testing.T) {
	shipments := []models.ShipmentRecord{
		shipment(0, 0, 100, true),
		shipment(1, 1, 50, true),
		shipment(5, 0, 10, true), // unknown supplier
		shipment(0, 7, 20, true), // unknown product
		shipment(1, 0, 0, false), // unpriced
	}
	suppliers := []models.SupplierRecord{
		{SupplierID: 0, RiskIndex: 0.5},
		{SupplierID: 1, RiskIndex: -0.5},
	}
	quality := []models.QualityRecord{
		{ProductID: 0, DefectRate: 1.2},
		{ProductID: 1, DefectRate: -1.2},
	}

	res := Combine(shipments, suppliers, quality)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, models.FactRow{
		SupplierID: 0, SupplierKey: "A", ProductID: 0, ProductKey: "p",
		Revenue: 100, LeadTime: 0, RiskIndex: 0.5, DefectRate: 1.2,
	}, res.Rows[0])
	assert.Equal(t, -0.5, res.Rows[1].RiskIndex)
	assert.Equal(t, -1.2, res.Rows[1].DefectRate)

	assert.Equal(t, 5, res.Report.RowsIn)
	assert.Equal(t, 2, res.Report.RowsOut)
	assert.Equal(t, 1, res.Report.Dropped[models.DropNoSupplierMatch])
	assert.Equal(t, 1, res.Report.Dropped[models.DropNoProductMatch])
	assert.Equal(t, 1, res.Report.Dropped[models.DropMissingRevenue])
	assert.Equal(t, 3, res.Report.TotalDropped())
}

func TestCombineDropReasonPrecedence(t *testing.T) {
	// no supplier, no product and no price: counted once as no_supplier_match
	res := Combine([]models.ShipmentRecord{shipment(9, 9, 0, false)}, nil, nil)

	assert.Empty(t, res.Rows)
	assert.Equal(t, map[models.DropReason]int{models.DropNoSupplierMatch: 1}, res.Report.Dropped)
}

func TestCombineManyToMany(t *testing.T) {
	shipments := []models.ShipmentRecord{shipment(0, 0, 10, true)}
	suppliers := []models.SupplierRecord{
		{SupplierID: 0, RiskIndex: 1},
		{SupplierID: 0, RiskIndex: 2},
	}
	quality := []models.QualityRecord{
		{ProductID: 0, DefectRate: 3},
		{ProductID: 0, DefectRate: 4},
	}

	res := Combine(shipments, suppliers, quality)

	require.Len(t, res.Rows, 4)
	got := make([][2]float64, 0, 4)
	for _, r := range res.Rows {
		got = append(got, [2]float64{r.RiskIndex, r.DefectRate})
	}
	assert.Equal(t, [][2]float64{{1, 3}, {1, 4}, {2, 3}, {2, 4}}, got)
}

func TestCombineDoesNotMutateInputs(t *testing.T) {
	shipments := []models.ShipmentRecord{shipment(0, 0, 10, true)}
	before := shipments[0]

	Combine(shipments, []models.SupplierRecord{{SupplierID: 0}}, []models.QualityRecord{{ProductID: 0}})
	assert.Equal(t, before, shipments[0])
}
