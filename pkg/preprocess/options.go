// Package preprocess turns the four raw input tables into typed, encoded and
// standardized records. Every function is pure: the input table is never
// modified and a fresh result is returned.
package preprocess

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"github.com/mimir-aip/kraljic-go/pkg/encoding"
)

// Raw column names
const (
	ColProductID  = "product_id"
	ColPrice      = "price"
	ColCurrency   = "currency"
	ColPriceFluct = "price_fluct"
	ColSupplierID = "supplier_id"
	ColLocation   = "location"
	ColRiskIndex  = "risk_index"
	ColRating     = "rating"
	ColShipmentID = "shipment_id"
	ColOnTime     = "on_time"
	ColDate       = "shipment_date"
	ColQuantity   = "number_of_product_shipped"
	ColLeadTime   = "lead_time"
	ColQuality    = "quality_score"
	ColDefectRate = "defect_rate"
)

const (
	// DefaultTarget is the currency every price is converted into
	DefaultTarget  = "USD"
	eurToUSDFactor = 1.08
)

// Required columns per raw table
var (
	PriceColumns    = []string{ColProductID, ColPrice, ColCurrency, ColPriceFluct}
	SupplierColumns = []string{ColSupplierID, ColLocation, ColRiskIndex, ColRating}
	ShipmentColumns = []string{ColShipmentID, ColSupplierID, ColProductID, ColOnTime, ColDate, ColQuantity, ColLeadTime}
	QualityColumns  = []string{ColProductID, ColQuality, ColDefectRate}
)

// CurrencyPolicy decides what happens to a currency with no conversion rate
type CurrencyPolicy string

const (
	// CurrencyPassThrough keeps the price unconverted and flags the row
	CurrencyPassThrough CurrencyPolicy = "pass_through"
	// CurrencyReject aborts normalization
	CurrencyReject CurrencyPolicy = "error"
)

// CurrencyOptions configures price normalization
type CurrencyOptions struct {
	Target        string
	Rates         map[string]float64
	UnknownPolicy CurrencyPolicy
}

// DefaultCurrencyOptions converts EUR at 1.08 and treats everything else as USD
func DefaultCurrencyOptions() CurrencyOptions {
	return CurrencyOptions{
		Target: DefaultTarget,
		Rates: map[string]float64{
			"EUR":         eurToUSDFactor,
			DefaultTarget: 1.0,
		},
		UnknownPolicy: CurrencyPassThrough,
	}
}

func (o CurrencyOptions) withDefaults() CurrencyOptions {
	d := DefaultCurrencyOptions()
	if o.Target == "" {
		o.Target = d.Target
	}
	if o.Rates == nil {
		o.Rates = d.Rates
	}
	if o.UnknownPolicy == "" {
		o.UnknownPolicy = d.UnknownPolicy
	}
	return o
}

// rate returns the factor converting currency into the target
func (o CurrencyOptions) rate(currency string) (float64, bool) {
	if currency == o.Target {
		return 1.0, true
	}
	r, ok := o.Rates[currency]
	return r, ok
}

// DefaultDateLayouts are tried in order when parsing shipment dates
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"1/2/2006",
	"02-Jan-2006",
	time.RFC3339,
}

// DateOptions configures shipment date parsing
type DateOptions struct {
	Layouts []string
	// AutoDetect falls back to format detection when no layout matches
	AutoDetect bool
}

// DefaultDateOptions returns the default layouts without auto-detection
func DefaultDateOptions() DateOptions {
	return DateOptions{Layouts: DefaultDateLayouts}
}

// Parse converts value using the configured layouts
func (o DateOptions) Parse(value string) (time.Time, error) {
	for _, layout := range o.Layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if o.AutoDetect {
		return dateparse.ParseAny(value)
	}
	return time.Time{}, fmt.Errorf("no configured layout matches")
}

// EncodeOptions configures categorical encoding for a stage.
// Keys, when set, is the shared entity codebook for the stage's id column;
// otherwise the stage builds its own from its rows.
type EncodeOptions struct {
	Strategy encoding.Strategy
	Keys     *encoding.Codebook
}

// ShipmentOptions configures shipment enrichment
type ShipmentOptions struct {
	Strategy  encoding.Strategy
	Suppliers *encoding.Codebook
	Products  *encoding.Codebook
	Dates     DateOptions
}

// codebookFor returns shared when set, otherwise a codebook over keys
func codebookFor(shared *encoding.Codebook, strategy encoding.Strategy, keys []string) *encoding.Codebook {
	if shared != nil {
		return shared
	}
	return encoding.Build(strategy, keys)
}

// encodeAll maps every key through cb
func encodeAll(cb *encoding.Codebook, keys []string, tableName, column string) ([]int, error) {
	codes := make([]int, len(keys))
	for i, k := range keys {
		code, ok := cb.Code(k)
		if !ok {
			return nil, fmt.Errorf("table %q: %s %q has no code in the shared codebook", tableName, column, k)
		}
		codes[i] = code
	}
	return codes, nil
}
