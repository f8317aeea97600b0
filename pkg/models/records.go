package models

import "time"

// PriceRecord represents a normalized price row. Price is always expressed in
// the target currency after normalization.
type PriceRecord struct {
	ProductID        string  `json:"product_id"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
	PriceFluctuation float64 `json:"price_fluctuation"`
}

// SupplierRecord represents an encoded supplier row. RiskIndex and Rating are
// standardized (mean 0, population std 1) within a run.
type SupplierRecord struct {
	SupplierID  int     `json:"supplier_id"`
	SupplierKey string  `json:"supplier_key"`
	Location    int     `json:"location"`
	RiskIndex   float64 `json:"risk_index"`
	Rating      float64 `json:"rating"`
}

// ShipmentRecord represents an enriched shipment row.
// Price and Revenue are only meaningful when Priced is true; a shipment whose
// product has no price keeps Priced=false.
type ShipmentRecord struct {
	ShipmentID             int       `json:"shipment_id"`
	SupplierID             int       `json:"supplier_id"`
	SupplierKey            string    `json:"supplier_key"`
	ProductID              int       `json:"product_id"`
	ProductKey             string    `json:"product_key"`
	OnTime                 int       `json:"on_time"`
	ShipmentDate           time.Time `json:"shipment_date"`
	NumberOfProductShipped int64     `json:"number_of_product_shipped"`
	LeadTime               float64   `json:"lead_time"`
	Price                  float64   `json:"price"`
	Revenue                float64   `json:"revenue"`
	Priced                 bool      `json:"priced"`
}

// QualityRecord represents an encoded product quality row.
type QualityRecord struct {
	ProductID    int     `json:"product_id"`
	ProductKey   string  `json:"product_key"`
	QualityScore float64 `json:"quality_score"`
	DefectRate   float64 `json:"defect_rate"`
}

// FactRow is one (shipment, supplier, product) triple produced by the combiner.
type FactRow struct {
	SupplierID  int     `json:"supplier_id"`
	SupplierKey string  `json:"supplier_key"`
	ProductID   int     `json:"product_id"`
	ProductKey  string  `json:"product_key"`
	Revenue     float64 `json:"revenue"`
	LeadTime    float64 `json:"lead_time"`
	RiskIndex   float64 `json:"risk_index"`
	DefectRate  float64 `json:"defect_rate"`
}

// EntityFeatureVector holds the aggregated and standardized features of one
// supplier or product.
type EntityFeatureVector struct {
	ID               int     `json:"id"`
	Key              string  `json:"key"`
	Rows             int     `json:"rows"`
	Revenue          float64 `json:"revenue"`
	RiskIndex        float64 `json:"risk_index"`
	LeadTime         float64 `json:"lead_time"`
	DefectRate       float64 `json:"defect_rate"`
	RevenueStd       float64 `json:"revenue_std"`
	RiskIndexStd     float64 `json:"risk_index_std"`
	LeadTimeStd      float64 `json:"lead_time_std"`
	DefectRateStd    float64 `json:"defect_rate_std"`
	CompositeRiskStd float64 `json:"composite_risk_std"`
}

// ClassifiedEntity is a feature vector with its assigned quadrant.
type ClassifiedEntity struct {
	EntityFeatureVector
	Entity   EntityType `json:"entity"`
	Quadrant Quadrant   `json:"quadrant"`
	Category string     `json:"kraljic_category"`
}
