// Package fact builds the shipment-level fact table and the per-entity
// feature vectors derived from it.
package fact

import (
	"github.com/mimir-aip/kraljic-go/pkg/models"
)

// CombineResult is the output of Combine
type CombineResult struct {
	Rows   []models.FactRow
	Report models.StageReport
}

// Combine inner-joins shipments to suppliers on the supplier code and the
// result to quality on the product code. Joins are many-to-many and keep
// shipment order. Unpriced shipments are excluded since their revenue is
// undefined.
//
// Every excluded shipment is counted once, under the first reason that
// applies: no_supplier_match, then no_product_match, then missing_revenue.
func Combine(shipments []models.ShipmentRecord, suppliers []models.SupplierRecord, quality []models.QualityRecord) *CombineResult {
	report := models.NewStageReport(models.StageCombiner, len(shipments))

	bySupplier := make(map[int][]models.SupplierRecord, len(suppliers))
	for _, s := range suppliers {
		bySupplier[s.SupplierID] = append(bySupplier[s.SupplierID], s)
	}
	byProduct := make(map[int][]models.QualityRecord, len(quality))
	for _, q := range quality {
		byProduct[q.ProductID] = append(byProduct[q.ProductID], q)
	}

	rows := make([]models.FactRow, 0, len(shipments))
	for _, sh := range shipments {
		supplierMatches, ok := bySupplier[sh.SupplierID]
		if !ok {
			report.Drop(models.DropNoSupplierMatch)
			continue
		}
		productMatches, ok := byProduct[sh.ProductID]
		if !ok {
			report.Drop(models.DropNoProductMatch)
			continue
		}
		if !sh.Priced {
			report.Drop(models.DropMissingRevenue)
			continue
		}

		for _, s := range supplierMatches {
			for _, q := range productMatches {
				rows = append(rows, models.FactRow{
					SupplierID:  sh.SupplierID,
					SupplierKey: sh.SupplierKey,
					ProductID:   sh.ProductID,
					ProductKey:  sh.ProductKey,
					Revenue:     sh.Revenue,
					LeadTime:    sh.LeadTime,
					RiskIndex:   s.RiskIndex,
					DefectRate:  q.DefectRate,
				})
			}
		}
	}

	report.RowsOut = len(rows)
	return &CombineResult{Rows: rows, Report: report}
}
