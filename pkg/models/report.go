package models

// Stage names used in reports, logs and metrics
const (
	StagePriceNormalizer  = "price_normalizer"
	StageSupplierEncoder  = "supplier_encoder"
	StageShipmentEnricher = "shipment_enricher"
	StageQualityEncoder   = "quality_encoder"
	StageCombiner         = "combiner"
)

// DropReason explains why a row was excluded from a stage's output
type DropReason string

const (
	DropMissingValue    DropReason = "missing_value"
	DropNoSupplierMatch DropReason = "no_supplier_match"
	DropNoProductMatch  DropReason = "no_product_match"
	DropMissingRevenue  DropReason = "missing_revenue"
)

// FlagReason marks rows that were kept but carry an anomaly
type FlagReason string

const (
	FlagUnpriced            FlagReason = "unpriced"
	FlagUnconvertedCurrency FlagReason = "unconverted_currency"
)

// StageReport records the row accounting of a single pipeline stage
type StageReport struct {
	Stage   string             `json:"stage"`
	RowsIn  int                `json:"rows_in"`
	RowsOut int                `json:"rows_out"`
	Dropped map[DropReason]int `json:"dropped,omitempty"`
	Flagged map[FlagReason]int `json:"flagged,omitempty"`
}

// NewStageReport creates an empty report for a stage
func NewStageReport(stage string, rowsIn int) StageReport {
	return StageReport{
		Stage:   stage,
		RowsIn:  rowsIn,
		Dropped: make(map[DropReason]int),
		Flagged: make(map[FlagReason]int),
	}
}

// Drop counts one excluded row
func (r *StageReport) Drop(reason DropReason) {
	r.Dropped[reason]++
}

// DropN counts n excluded rows
func (r *StageReport) DropN(reason DropReason, n int) {
	if n > 0 {
		r.Dropped[reason] += n
	}
}

// Flag counts one kept-but-anomalous row
func (r *StageReport) Flag(reason FlagReason) {
	r.Flagged[reason]++
}

// TotalDropped returns the number of rows excluded for any reason
func (r StageReport) TotalDropped() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}
