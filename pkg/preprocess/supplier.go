package preprocess

import (
	"github.com/mimir-aip/kraljic-go/pkg/encoding"
	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/stats"
	"github.com/mimir-aip/kraljic-go/pkg/table"
)

// SupplierResult is the output of EncodeSuppliers
type SupplierResult struct {
	Records   []models.SupplierRecord
	Report    models.StageReport
	Suppliers *encoding.Codebook
	Locations *encoding.Codebook
}

// EncodeSuppliers drops incomplete rows, encodes supplier_id and location and
// standardizes risk_index and rating over the remaining rows.
func EncodeSuppliers(raw *table.Table, opts EncodeOptions) (*SupplierResult, error) {
	if err := raw.Require(SupplierColumns...); err != nil {
		return nil, err
	}

	report := models.NewStageReport(models.StageSupplierEncoder, raw.NRows())
	rows := raw.CompleteRows()
	report.DropN(models.DropMissingValue, raw.NRows()-len(rows))

	keys := make([]string, len(rows))
	locations := make([]string, len(rows))
	risks := make([]float64, len(rows))
	ratings := make([]float64, len(rows))
	for i, row := range rows {
		keys[i], _ = raw.Text(row, ColSupplierID)
		locations[i], _ = raw.Text(row, ColLocation)

		var err error
		if risks[i], _, err = raw.Float(row, ColRiskIndex); err != nil {
			return nil, err
		}
		if ratings[i], _, err = raw.Float(row, ColRating); err != nil {
			return nil, err
		}
	}

	suppliers := codebookFor(opts.Keys, opts.Strategy, keys)
	supplierCodes, err := encodeAll(suppliers, keys, raw.Name(), ColSupplierID)
	if err != nil {
		return nil, err
	}
	locationBook := encoding.Build(opts.Strategy, locations)
	locationCodes, err := encodeAll(locationBook, locations, raw.Name(), ColLocation)
	if err != nil {
		return nil, err
	}

	riskStd := stats.Standardize(risks)
	ratingStd := stats.Standardize(ratings)

	records := make([]models.SupplierRecord, len(rows))
	for i := range rows {
		records[i] = models.SupplierRecord{
			SupplierID:  supplierCodes[i],
			SupplierKey: keys[i],
			Location:    locationCodes[i],
			RiskIndex:   riskStd[i],
			Rating:      ratingStd[i],
		}
	}

	report.RowsOut = len(records)
	return &SupplierResult{
		Records:   records,
		Report:    report,
		Suppliers: suppliers,
		Locations: locationBook,
	}, nil
}
