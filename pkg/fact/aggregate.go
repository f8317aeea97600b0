package fact

import (
	"sort"

	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/stats"
)

type group struct {
	id      int
	key     string
	revenue []float64
	risk    []float64
	lead    []float64
	defect  []float64
}

// Aggregate groups rows by the entity's code, averages the four features per
// group and standardizes each mean column across groups. The composite risk is
// the mean of the standardized risk_index, lead_time and defect_rate; revenue
// is the impact axis and stays out of it.
//
// Vectors are returned in ascending id order.
func Aggregate(rows []models.FactRow, by models.EntityType) []models.EntityFeatureVector {
	groups := make(map[int]*group)
	for _, r := range rows {
		id, key := r.SupplierID, r.SupplierKey
		if by == models.EntityProduct {
			id, key = r.ProductID, r.ProductKey
		}
		g, ok := groups[id]
		if !ok {
			g = &group{id: id, key: key}
			groups[id] = g
		}
		g.revenue = append(g.revenue, r.Revenue)
		g.risk = append(g.risk, r.RiskIndex)
		g.lead = append(g.lead, r.LeadTime)
		g.defect = append(g.defect, r.DefectRate)
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].id < ordered[j].id })

	n := len(ordered)
	revenue := make([]float64, n)
	risk := make([]float64, n)
	lead := make([]float64, n)
	defect := make([]float64, n)
	for i, g := range ordered {
		revenue[i] = stats.Mean(g.revenue)
		risk[i] = stats.Mean(g.risk)
		lead[i] = stats.Mean(g.lead)
		defect[i] = stats.Mean(g.defect)
	}

	revenueStd := stats.Standardize(revenue)
	riskStd := stats.Standardize(risk)
	leadStd := stats.Standardize(lead)
	defectStd := stats.Standardize(defect)
	composite := stats.RowMean(riskStd, leadStd, defectStd)

	vectors := make([]models.EntityFeatureVector, n)
	for i, g := range ordered {
		vectors[i] = models.EntityFeatureVector{
			ID:               g.id,
			Key:              g.key,
			Rows:             len(g.revenue),
			Revenue:          revenue[i],
			RiskIndex:        risk[i],
			LeadTime:         lead[i],
			DefectRate:       defect[i],
			RevenueStd:       revenueStd[i],
			RiskIndexStd:     riskStd[i],
			LeadTimeStd:      leadStd[i],
			DefectRateStd:    defectStd[i],
			CompositeRiskStd: composite[i],
		}
	}
	return vectors
}
