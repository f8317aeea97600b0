// Package pipeline runs the classification stages in order over one set of
// input tables.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-aip/kraljic-go/pkg/classify"
	"github.com/mimir-aip/kraljic-go/pkg/encoding"
	"github.com/mimir-aip/kraljic-go/pkg/fact"
	"github.com/mimir-aip/kraljic-go/pkg/logging"
	"github.com/mimir-aip/kraljic-go/pkg/metrics"
	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/preprocess"
	"github.com/mimir-aip/kraljic-go/pkg/table"
)

// Inputs are the four raw tables of one run
type Inputs struct {
	Prices    *table.Table
	Suppliers *table.Table
	Shipments *table.Table
	Quality   *table.Table
}

// Options configures a run
type Options struct {
	Currency   preprocess.CurrencyOptions
	Dates      preprocess.DateOptions
	Strategy   encoding.Strategy
	Thresholds classify.Thresholds
}

// DefaultOptions returns the stock currency table, date layouts, first-seen
// encoding and zero thresholds.
func DefaultOptions() Options {
	return Options{
		Currency:   preprocess.DefaultCurrencyOptions(),
		Dates:      preprocess.DefaultDateOptions(),
		Strategy:   encoding.FirstSeen,
		Thresholds: classify.DefaultThresholds(),
	}
}

// Result holds every intermediate and final table of a run
type Result struct {
	Run *models.Run

	Prices    []models.PriceRecord
	Suppliers []models.SupplierRecord
	Shipments []models.ShipmentRecord
	Quality   []models.QualityRecord
	Facts     []models.FactRow

	SupplierFeatures []models.EntityFeatureVector
	ProductFeatures  []models.EntityFeatureVector

	ClassifiedSuppliers []models.ClassifiedEntity
	ClassifiedProducts  []models.ClassifiedEntity

	SupplierCodes *encoding.Codebook
	ProductCodes  *encoding.Codebook
}

// Classified returns the classified entities of one type
func (r *Result) Classified(entity models.EntityType) []models.ClassifiedEntity {
	if entity == models.EntityProduct {
		return r.ClassifiedProducts
	}
	return r.ClassifiedSuppliers
}

// Service provides pipeline execution
type Service struct {
	opts    Options
	logger  *logging.ComponentLogger
	metrics *metrics.Recorder
}

// NewService creates a new pipeline service. logger and recorder may be nil.
func NewService(opts Options, logger *logging.ComponentLogger, recorder *metrics.Recorder) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		opts:    opts,
		logger:  logger,
		metrics: recorder,
	}
}

// Run executes a manually triggered run
func (s *Service) Run(in Inputs) (*Result, error) {
	return s.Execute(in, models.TriggerManual)
}

// Execute runs every stage over in. The returned Result always carries the
// Run record, failed or not; the tables are only set on success.
func (s *Service) Execute(in Inputs, trigger models.TriggerType) (*Result, error) {
	run := &models.Run{
		ID:          uuid.New().String(),
		Status:      models.RunStatusRunning,
		TriggerType: trigger,
		StartedAt:   time.Now(),
	}
	logger := s.logger.Child("run_id", run.ID)
	logger.Info().Str("trigger", string(trigger)).Msg("Executing pipeline")

	result := &Result{Run: run}
	err := s.execute(in, result, logger)
	run.Complete(err)
	s.metrics.RunFinished(run)

	if err != nil {
		logger.Error().Err(err).Dur("duration", run.Duration()).Msg("Pipeline execution failed")
		return result, err
	}
	logger.Info().
		Int("suppliers", len(result.ClassifiedSuppliers)).
		Int("products", len(result.ClassifiedProducts)).
		Dur("duration", run.Duration()).
		Msg("Pipeline execution completed")
	return result, nil
}

func (s *Service) execute(in Inputs, result *Result, logger *logging.ComponentLogger) error {
	if err := validateInputs(in); err != nil {
		return err
	}

	strategy := s.opts.Strategy
	supplierCodes := encoding.Build(strategy,
		in.Suppliers.CompleteValues(preprocess.ColSupplierID),
		in.Shipments.CompleteValues(preprocess.ColSupplierID),
	)
	productCodes := encoding.Build(strategy,
		in.Shipments.CompleteValues(preprocess.ColProductID),
		in.Quality.CompleteValues(preprocess.ColProductID),
	)
	result.SupplierCodes = supplierCodes
	result.ProductCodes = productCodes

	observe := func(report models.StageReport, started time.Time) {
		d := time.Since(started)
		result.Run.Stages = append(result.Run.Stages, report)
		logger.LogStage(report, d)
		s.metrics.ObserveStage(report, d)
	}

	started := time.Now()
	prices, err := preprocess.NormalizePrices(in.Prices, s.opts.Currency)
	if err != nil {
		return fmt.Errorf("stage %s failed: %w", models.StagePriceNormalizer, err)
	}
	observe(prices.Report, started)

	started = time.Now()
	suppliers, err := preprocess.EncodeSuppliers(in.Suppliers, preprocess.EncodeOptions{
		Strategy: strategy,
		Keys:     supplierCodes,
	})
	if err != nil {
		return fmt.Errorf("stage %s failed: %w", models.StageSupplierEncoder, err)
	}
	observe(suppliers.Report, started)

	started = time.Now()
	shipments, err := preprocess.EnrichShipments(in.Shipments, prices.Records, preprocess.ShipmentOptions{
		Strategy:  strategy,
		Suppliers: supplierCodes,
		Products:  productCodes,
		Dates:     s.opts.Dates,
	})
	if err != nil {
		return fmt.Errorf("stage %s failed: %w", models.StageShipmentEnricher, err)
	}
	observe(shipments.Report, started)

	started = time.Now()
	quality, err := preprocess.EncodeQuality(in.Quality, preprocess.EncodeOptions{
		Strategy: strategy,
		Keys:     productCodes,
	})
	if err != nil {
		return fmt.Errorf("stage %s failed: %w", models.StageQualityEncoder, err)
	}
	observe(quality.Report, started)

	started = time.Now()
	combined := fact.Combine(shipments.Records, suppliers.Records, quality.Records)
	observe(combined.Report, started)

	result.Prices = prices.Records
	result.Suppliers = suppliers.Records
	result.Shipments = shipments.Records
	result.Quality = quality.Records
	result.Facts = combined.Rows

	result.SupplierFeatures = fact.Aggregate(combined.Rows, models.EntitySupplier)
	result.ProductFeatures = fact.Aggregate(combined.Rows, models.EntityProduct)

	result.ClassifiedSuppliers, err = s.classify(result.SupplierFeatures, models.EntitySupplier, logger)
	if err != nil {
		return err
	}
	result.ClassifiedProducts, err = s.classify(result.ProductFeatures, models.EntityProduct, logger)
	if err != nil {
		return err
	}
	return nil
}

func (s *Service) classify(vectors []models.EntityFeatureVector, entity models.EntityType, logger *logging.ComponentLogger) ([]models.ClassifiedEntity, error) {
	classified, err := classify.Classify(vectors, entity, s.opts.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("failed to classify %ss: %w", entity, err)
	}
	counts := classify.CountByQuadrant(classified)
	s.metrics.SetCategoryCounts(entity, counts)

	event := logger.Debug().Str("entity", string(entity))
	for _, q := range models.Quadrants {
		event = event.Int(q.Label(entity), counts[q])
	}
	event.Msg("Entities classified")
	return classified, nil
}

// validateInputs checks every table's schema before any stage runs
func validateInputs(in Inputs) error {
	checks := []struct {
		name    string
		table   *table.Table
		columns []string
	}{
		{"price", in.Prices, preprocess.PriceColumns},
		{"supplier", in.Suppliers, preprocess.SupplierColumns},
		{"shipment", in.Shipments, preprocess.ShipmentColumns},
		{"product_quality", in.Quality, preprocess.QualityColumns},
	}
	for _, c := range checks {
		if c.table == nil {
			return fmt.Errorf("input table %s is required", c.name)
		}
		if err := c.table.Require(c.columns...); err != nil {
			return err
		}
	}
	return nil
}
