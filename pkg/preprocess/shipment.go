package preprocess

import (
	"time"

	"github.com/mimir-aip/kraljic-go/pkg/encoding"
	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/stats"
	"github.com/mimir-aip/kraljic-go/pkg/table"
)

// ShipmentResult is the output of EnrichShipments
type ShipmentResult struct {
	Records   []models.ShipmentRecord
	Report    models.StageReport
	Suppliers *encoding.Codebook
	Products  *encoding.Codebook
	Shipments *encoding.Codebook
	OnTime    *encoding.Codebook
}

// joinedRow is a complete shipment row paired with at most one price match
type joinedRow struct {
	row    int
	price  float64
	priced bool
}

// EnrichShipments drops incomplete rows, left-joins prices on the product key,
// encodes the categorical columns, parses dates, computes revenue and
// standardizes lead_time.
//
// The price join uses the original product key, so it must run before the
// product code is assigned. A product listed several times in prices yields
// one output row per price. A shipment with no price is kept unpriced.
func EnrichShipments(raw *table.Table, prices []models.PriceRecord, opts ShipmentOptions) (*ShipmentResult, error) {
	if err := raw.Require(ShipmentColumns...); err != nil {
		return nil, err
	}
	if len(opts.Dates.Layouts) == 0 && !opts.Dates.AutoDetect {
		opts.Dates = DefaultDateOptions()
	}

	report := models.NewStageReport(models.StageShipmentEnricher, raw.NRows())

	priceIndex := make(map[string][]float64)
	for _, p := range prices {
		priceIndex[p.ProductID] = append(priceIndex[p.ProductID], p.Price)
	}

	var joined []joinedRow
	for row := 0; row < raw.NRows(); row++ {
		if !raw.IsComplete(row) {
			report.Drop(models.DropMissingValue)
			continue
		}
		productKey, _ := raw.Text(row, ColProductID)
		matches := priceIndex[productKey]
		if len(matches) == 0 {
			report.Flag(models.FlagUnpriced)
			joined = append(joined, joinedRow{row: row})
			continue
		}
		for _, p := range matches {
			joined = append(joined, joinedRow{row: row, price: p, priced: true})
		}
	}

	n := len(joined)
	shipmentKeys := make([]string, n)
	supplierKeys := make([]string, n)
	productKeys := make([]string, n)
	onTimeKeys := make([]string, n)
	leadTimes := make([]float64, n)
	quantities := make([]int64, n)
	dates := make([]time.Time, n)

	for i, j := range joined {
		shipmentKeys[i], _ = raw.Text(j.row, ColShipmentID)
		supplierKeys[i], _ = raw.Text(j.row, ColSupplierID)
		productKeys[i], _ = raw.Text(j.row, ColProductID)
		onTimeKeys[i], _ = raw.Text(j.row, ColOnTime)

		var err error
		if leadTimes[i], _, err = raw.Float(j.row, ColLeadTime); err != nil {
			return nil, err
		}
		if quantities[i], _, err = raw.Int(j.row, ColQuantity); err != nil {
			return nil, err
		}
		if dates[i], err = parseDate(raw, j.row, opts.Dates); err != nil {
			return nil, err
		}
	}

	shipmentBook := encoding.Build(opts.Strategy, shipmentKeys)
	supplierBook := codebookFor(opts.Suppliers, opts.Strategy, supplierKeys)
	productBook := codebookFor(opts.Products, opts.Strategy, productKeys)
	onTimeBook := encoding.Build(opts.Strategy, onTimeKeys)

	shipmentCodes, err := encodeAll(shipmentBook, shipmentKeys, raw.Name(), ColShipmentID)
	if err != nil {
		return nil, err
	}
	supplierCodes, err := encodeAll(supplierBook, supplierKeys, raw.Name(), ColSupplierID)
	if err != nil {
		return nil, err
	}
	productCodes, err := encodeAll(productBook, productKeys, raw.Name(), ColProductID)
	if err != nil {
		return nil, err
	}
	onTimeCodes, err := encodeAll(onTimeBook, onTimeKeys, raw.Name(), ColOnTime)
	if err != nil {
		return nil, err
	}

	leadStd := stats.Standardize(leadTimes)

	records := make([]models.ShipmentRecord, n)
	for i, j := range joined {
		rec := models.ShipmentRecord{
			ShipmentID:             shipmentCodes[i],
			SupplierID:             supplierCodes[i],
			SupplierKey:            supplierKeys[i],
			ProductID:              productCodes[i],
			ProductKey:             productKeys[i],
			OnTime:                 onTimeCodes[i],
			ShipmentDate:           dates[i],
			NumberOfProductShipped: quantities[i],
			LeadTime:               leadStd[i],
		}
		if j.priced {
			rec.Price = j.price
			rec.Revenue = float64(quantities[i]) * j.price
			rec.Priced = true
		}
		records[i] = rec
	}

	report.RowsOut = len(records)
	return &ShipmentResult{
		Records:   records,
		Report:    report,
		Suppliers: supplierBook,
		Products:  productBook,
		Shipments: shipmentBook,
		OnTime:    onTimeBook,
	}, nil
}

// parseDate reads the shipment date cell, accepting native time values
func parseDate(raw *table.Table, row int, opts DateOptions) (time.Time, error) {
	if v, ok := raw.Raw(row, ColDate); ok {
		if t, isTime := v.(time.Time); isTime {
			return t, nil
		}
	}
	text, _ := raw.Text(row, ColDate)
	t, err := opts.Parse(text)
	if err != nil {
		return time.Time{}, &models.ParseError{
			Table:  raw.Name(),
			Column: ColDate,
			Row:    row,
			Value:  text,
			Err:    err,
		}
	}
	return t, nil
}
