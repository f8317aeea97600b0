package preprocess

import (
	"fmt"

	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/table"
)

// PriceResult is the output of NormalizePrices
type PriceResult struct {
	Records []models.PriceRecord
	Report  models.StageReport
}

// NormalizePrices drops incomplete rows, converts every price into the target
// currency and renames price_fluct to price_fluctuation.
func NormalizePrices(raw *table.Table, opts CurrencyOptions) (*PriceResult, error) {
	if err := raw.Require(PriceColumns...); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	report := models.NewStageReport(models.StagePriceNormalizer, raw.NRows())
	records := make([]models.PriceRecord, 0, raw.NRows())

	for row := 0; row < raw.NRows(); row++ {
		if !raw.IsComplete(row) {
			report.Drop(models.DropMissingValue)
			continue
		}

		productID, _ := raw.Text(row, ColProductID)
		currency, _ := raw.Text(row, ColCurrency)
		price, _, err := raw.Float(row, ColPrice)
		if err != nil {
			return nil, err
		}
		fluct, _, err := raw.Float(row, ColPriceFluct)
		if err != nil {
			return nil, err
		}

		factor, known := opts.rate(currency)
		if !known {
			if opts.UnknownPolicy == CurrencyReject {
				return nil, fmt.Errorf("table %q row %d: %w %q", raw.Name(), row, models.ErrUnknownCurrency, currency)
			}
			report.Flag(models.FlagUnconvertedCurrency)
			factor = 1.0
		}

		records = append(records, models.PriceRecord{
			ProductID:        productID,
			Price:            price * factor,
			Currency:         opts.Target,
			PriceFluctuation: fluct,
		})
	}

	report.RowsOut = len(records)
	return &PriceResult{Records: records, Report: report}, nil
}
