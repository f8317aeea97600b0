package report

import (
	"context"
	"fmt"
	"io"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

// LabeledFrame returns the feature vectors with their category as a
// DataFrame, one row per entity.
func LabeledFrame(classified []models.ClassifiedEntity, entity models.EntityType) *dataframe.DataFrame {
	n := len(classified)
	ids := make([]interface{}, n)
	keys := make([]interface{}, n)
	rows := make([]interface{}, n)
	categories := make([]interface{}, n)
	floatCols := []struct {
		name string
		get  func(models.EntityFeatureVector) float64
		vals []interface{}
	}{
		{name: "revenue", get: func(v models.EntityFeatureVector) float64 { return v.Revenue }},
		{name: "risk_index", get: func(v models.EntityFeatureVector) float64 { return v.RiskIndex }},
		{name: "lead_time", get: func(v models.EntityFeatureVector) float64 { return v.LeadTime }},
		{name: "defect_rate", get: func(v models.EntityFeatureVector) float64 { return v.DefectRate }},
		{name: "revenue_std", get: func(v models.EntityFeatureVector) float64 { return v.RevenueStd }},
		{name: "risk_index_std", get: func(v models.EntityFeatureVector) float64 { return v.RiskIndexStd }},
		{name: "lead_time_std", get: func(v models.EntityFeatureVector) float64 { return v.LeadTimeStd }},
		{name: "defect_rate_std", get: func(v models.EntityFeatureVector) float64 { return v.DefectRateStd }},
		{name: "composite_risk_std", get: func(v models.EntityFeatureVector) float64 { return v.CompositeRiskStd }},
	}
	for i := range floatCols {
		floatCols[i].vals = make([]interface{}, n)
	}

	for i, c := range classified {
		ids[i] = int64(c.ID)
		keys[i] = c.Key
		rows[i] = int64(c.Rows)
		categories[i] = c.Category
		for j := range floatCols {
			floatCols[j].vals[i] = floatCols[j].get(c.EntityFeatureVector)
		}
	}

	series := []dataframe.Series{
		dataframe.NewSeriesInt64(entity.IDColumn(), nil, ids...),
		dataframe.NewSeriesString("key", nil, keys...),
		dataframe.NewSeriesInt64("rows", nil, rows...),
	}
	for _, col := range floatCols {
		series = append(series, dataframe.NewSeriesFloat64(col.name, nil, col.vals...))
	}
	series = append(series, dataframe.NewSeriesString("kraljic_category", nil, categories...))

	return dataframe.NewDataFrame(series...)
}

// WriteCSV exports a frame as CSV with a header row
func WriteCSV(ctx context.Context, w io.Writer, df *dataframe.DataFrame) error {
	if err := exports.ExportToCSV(ctx, w, df); err != nil {
		return fmt.Errorf("failed to export csv: %w", err)
	}
	return nil
}
