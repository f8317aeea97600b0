package preprocess

import (
	"github.com/mimir-aip/kraljic-go/pkg/encoding"
	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/stats"
	"github.com/mimir-aip/kraljic-go/pkg/table"
)

// QualityResult is the output of EncodeQuality
type QualityResult struct {
	Records  []models.QualityRecord
	Report   models.StageReport
	Products *encoding.Codebook
}

// EncodeQuality drops incomplete rows, encodes product_id and standardizes
// quality_score and defect_rate.
func EncodeQuality(raw *table.Table, opts EncodeOptions) (*QualityResult, error) {
	if err := raw.Require(QualityColumns...); err != nil {
		return nil, err
	}

	report := models.NewStageReport(models.StageQualityEncoder, raw.NRows())
	rows := raw.CompleteRows()
	report.DropN(models.DropMissingValue, raw.NRows()-len(rows))

	keys := make([]string, len(rows))
	scores := make([]float64, len(rows))
	defects := make([]float64, len(rows))
	for i, row := range rows {
		keys[i], _ = raw.Text(row, ColProductID)

		var err error
		if scores[i], _, err = raw.Float(row, ColQuality); err != nil {
			return nil, err
		}
		if defects[i], _, err = raw.Float(row, ColDefectRate); err != nil {
			return nil, err
		}
	}

	products := codebookFor(opts.Keys, opts.Strategy, keys)
	codes, err := encodeAll(products, keys, raw.Name(), ColProductID)
	if err != nil {
		return nil, err
	}

	scoreStd := stats.Standardize(scores)
	defectStd := stats.Standardize(defects)

	records := make([]models.QualityRecord, len(rows))
	for i := range rows {
		records[i] = models.QualityRecord{
			ProductID:    codes[i],
			ProductKey:   keys[i],
			QualityScore: scoreStd[i],
			DefectRate:   defectStd[i],
		}
	}

	report.RowsOut = len(records)
	return &QualityResult{Records: records, Report: report, Products: products}, nil
}
