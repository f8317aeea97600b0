package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mimir-aip/kraljic-go/pkg/classify"
	"github.com/mimir-aip/kraljic-go/pkg/models"
)

// Axis titles of the Kraljic scatter
const (
	XAxisTitle = "Composite Standardized Risk"
	YAxisTitle = "Standardized Revenue Impact"
)

// Point is one entity on the scatter
type Point struct {
	ID  int     `json:"id"`
	Key string  `json:"key"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// Series groups the points of one category
type Series struct {
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Legend   string  `json:"legend"`
	Points   []Point `json:"points"`
}

// Scatter describes a Kraljic matrix plot for an external renderer. The
// reference lines mark the classification thresholds.
type Scatter struct {
	Title      string   `json:"title"`
	XAxis      string   `json:"x_axis"`
	YAxis      string   `json:"y_axis"`
	XReference float64  `json:"x_reference"`
	YReference float64  `json:"y_reference"`
	Series     []Series `json:"series"`
}

// BuildScatter places every entity at (composite risk, standardized revenue).
// Series follow legend order and empty categories are omitted.
func BuildScatter(classified []models.ClassifiedEntity, entity models.EntityType, th classify.Thresholds) Scatter {
	byQuadrant := make(map[models.Quadrant][]Point, len(models.Quadrants))
	for _, c := range classified {
		byQuadrant[c.Quadrant] = append(byQuadrant[c.Quadrant], Point{
			ID:  c.ID,
			Key: c.Key,
			X:   c.CompositeRiskStd,
			Y:   c.RevenueStd,
		})
	}

	scatter := Scatter{
		Title:      fmt.Sprintf("%s Kraljic Matrix Classification (Composite Risk)", entity.Title()),
		XAxis:      XAxisTitle,
		YAxis:      YAxisTitle,
		XReference: th.Risk,
		YReference: th.Impact,
		Series:     []Series{},
	}
	for _, q := range models.Quadrants {
		points := byQuadrant[q]
		if len(points) == 0 {
			continue
		}
		label := q.Label(entity)
		scatter.Series = append(scatter.Series, Series{
			Category: label,
			Color:    q.Color(),
			Legend:   fmt.Sprintf("%s (n=%d)", label, len(points)),
			Points:   points,
		})
	}
	return scatter
}

// WriteScatterJSON writes the scatter as indented JSON
func WriteScatterJSON(w io.Writer, scatter Scatter) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scatter); err != nil {
		return fmt.Errorf("failed to encode scatter: %w", err)
	}
	return nil
}
