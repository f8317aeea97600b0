// Package classify assigns Kraljic quadrants to entity feature vectors.
package classify

import (
	"fmt"
	"math"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

// Thresholds are the split points on the two axes. A score equal to its
// threshold counts as high.
type Thresholds struct {
	Risk   float64 `yaml:"risk" json:"risk"`
	Impact float64 `yaml:"impact" json:"impact"`
}

// DefaultThresholds splits both standardized axes at zero
func DefaultThresholds() Thresholds {
	return Thresholds{}
}

type rule struct {
	riskHigh   bool
	impactHigh bool
	quadrant   models.Quadrant
}

// decisionTable covers every combination of the two axes exactly once
var decisionTable = []rule{
	{riskHigh: true, impactHigh: true, quadrant: models.QuadrantStrategic},
	{riskHigh: false, impactHigh: true, quadrant: models.QuadrantLeverage},
	{riskHigh: true, impactHigh: false, quadrant: models.QuadrantBottleneck},
	{riskHigh: false, impactHigh: false, quadrant: models.QuadrantNonCritical},
}

// Quadrant returns the quadrant for a (risk, impact) pair
func Quadrant(risk, impact float64, th Thresholds) (models.Quadrant, error) {
	if !finite(risk) || !finite(impact) {
		return 0, fmt.Errorf("%w: risk=%v impact=%v", models.ErrNonFiniteScore, risk, impact)
	}
	riskHigh := risk >= th.Risk
	impactHigh := impact >= th.Impact
	for _, r := range decisionTable {
		if r.riskHigh == riskHigh && r.impactHigh == impactHigh {
			return r.quadrant, nil
		}
	}
	// unreachable while decisionTable is complete
	return 0, fmt.Errorf("no rule for risk_high=%t impact_high=%t", riskHigh, impactHigh)
}

// Label returns the category label, e.g. "Leverage Supplier"
func Label(risk, impact float64, entity models.EntityType, th Thresholds) (string, error) {
	q, err := Quadrant(risk, impact, th)
	if err != nil {
		return "", err
	}
	return q.Label(entity), nil
}

// Classify labels every vector using its composite risk and standardized
// revenue. The output keeps the input order.
func Classify(vectors []models.EntityFeatureVector, entity models.EntityType, th Thresholds) ([]models.ClassifiedEntity, error) {
	out := make([]models.ClassifiedEntity, len(vectors))
	for i, v := range vectors {
		q, err := Quadrant(v.CompositeRiskStd, v.RevenueStd, th)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", entity, v.Key, err)
		}
		out[i] = models.ClassifiedEntity{
			EntityFeatureVector: v,
			Entity:              entity,
			Quadrant:            q,
			Category:            q.Label(entity),
		}
	}
	return out, nil
}

// CountByQuadrant returns how many entities fall in each quadrant. Every
// quadrant is present, possibly with zero.
func CountByQuadrant(classified []models.ClassifiedEntity) map[models.Quadrant]int {
	counts := make(map[models.Quadrant]int, len(models.Quadrants))
	for _, q := range models.Quadrants {
		counts[q] = 0
	}
	for _, c := range classified {
		counts[c.Quadrant]++
	}
	return counts
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
