package fact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

func factRows() []models.FactRow {
	return []models.FactRow{
		{SupplierID: 2, SupplierKey: "S3", ProductID: 0, ProductKey: "101", Revenue: 300, LeadTime: 1, RiskIndex: 1, DefectRate: 1},
		{SupplierID: 0, SupplierKey: "S1", ProductID: 0, ProductKey: "101", Revenue: 100, LeadTime: -1, RiskIndex: -1, DefectRate: 1},
		{SupplierID: 0, SupplierKey: "S1", ProductID: 1, ProductKey: "102", Revenue: 300, LeadTime: 1, RiskIndex: -1, DefectRate: -1},
		{SupplierID: 1, SupplierKey: "S2", ProductID: 1, ProductKey: "102", Revenue: 200, LeadTime: 0, RiskIndex: 0, DefectRate: -1},
	}
}

func TestAggregateBySupplier(t *testing.T) {
	vectors := Aggregate(factRows(), models.EntitySupplier)

	require.Len(t, vectors, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{vectors[0].ID, vectors[1].ID, vectors[2].ID})
	assert.Equal(t, "S1", vectors[0].Key)
	assert.Equal(t, 2, vectors[0].Rows)
	assert.Equal(t, 1, vectors[2].Rows)

	// supplier 0 means: revenue 200, lead 0, risk -1, defect 0
	assert.Equal(t, 200.0, vectors[0].Revenue)
	assert.Equal(t, 0.0, vectors[0].LeadTime)
	assert.Equal(t, -1.0, vectors[0].RiskIndex)
	assert.Equal(t, 0.0, vectors[0].DefectRate)

	// revenue means 200, 200, 300
	mean, std := 700.0/3, math.Sqrt((2*math.Pow(200-700.0/3, 2)+math.Pow(300-700.0/3, 2))/3)
	assert.InDelta(t, (200-mean)/std, vectors[0].RevenueStd, 1e-12)
	assert.InDelta(t, (300-mean)/std, vectors[2].RevenueStd, 1e-12)

	for _, v := range vectors {
		want := (v.RiskIndexStd + v.LeadTimeStd + v.DefectRateStd) / 3
		assert.InDelta(t, want, v.CompositeRiskStd, 1e-12)
	}
}

func TestAggregateByProduct(t *testing.T) {
	vectors := Aggregate(factRows(), models.EntityProduct)

	require.Len(t, vectors, 2)
	assert.Equal(t, "101", vectors[0].Key)
	assert.Equal(t, "102", vectors[1].Key)
	assert.Equal(t, 200.0, vectors[0].Revenue)
	assert.Equal(t, 250.0, vectors[1].Revenue)

	// two groups standardize to exactly -1 and 1
	assert.InDelta(t, -1.0, vectors[0].RevenueStd, 1e-12)
	assert.InDelta(t, 1.0, vectors[1].RevenueStd, 1e-12)
}

func TestAggregateStandardizedColumns(t *testing.T) {
	vectors := Aggregate(factRows(), models.EntitySupplier)

	cols := map[string][]float64{}
	for _, v := range vectors {
		cols["revenue"] = append(cols["revenue"], v.RevenueStd)
		cols["risk"] = append(cols["risk"], v.RiskIndexStd)
		cols["lead"] = append(cols["lead"], v.LeadTimeStd)
		cols["defect"] = append(cols["defect"], v.DefectRateStd)
	}
	for name, col := range cols {
		var sum, ss float64
		for _, x := range col {
			sum += x
		}
		mean := sum / float64(len(col))
		for _, x := range col {
			ss += (x - mean) * (x - mean)
		}
		assert.InDelta(t, 0, mean, 1e-9, name)
		assert.InDelta(t, 1, math.Sqrt(ss/float64(len(col))), 1e-9, name)
	}
}

func TestAggregateSingleEntity(t *testing.T) {
	rows := []models.FactRow{{SupplierID: 4, SupplierKey: "S", Revenue: 10, RiskIndex: 2}}

	vectors := Aggregate(rows, models.EntitySupplier)
	require.Len(t, vectors, 1)
	assert.Equal(t, 0.0, vectors[0].RevenueStd)
	assert.Equal(t, 0.0, vectors[0].CompositeRiskStd)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, models.EntityProduct))
}
