package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mimir-aip/kraljic-go/pkg/classify"
	"github.com/mimir-aip/kraljic-go/pkg/config"
	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/pipeline"
	"github.com/mimir-aip/kraljic-go/pkg/report"
)

// printResult writes the stage accounting and both category tables
func printResult(w io.Writer, result *pipeline.Result) {
	fmt.Fprintf(w, "Run %s\n", result.Run.ID)
	report.WriteStageTable(w, result.Run.Stages)
	for _, entity := range models.EntityTypes {
		fmt.Fprintln(w)
		report.WriteCategoryTable(w, entity, result.Classified(entity))
		report.WriteCategorySummary(w, entity, result.Classified(entity))
	}
}

// writeOutputs writes the labeled CSV and scatter JSON of each entity type
// into the output directory
func writeOutputs(ctx context.Context, out config.OutputConfig, th classify.Thresholds, result *pipeline.Result) error {
	if !out.WriteCSV && !out.WriteScatter {
		return nil
	}
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, entity := range models.EntityTypes {
		classified := result.Classified(entity)
		if out.WriteCSV {
			path := filepath.Join(out.Dir, fmt.Sprintf("%s_kraljic.csv", entity))
			err := writeFile(path, func(w io.Writer) error {
				return report.WriteCSV(ctx, w, report.LabeledFrame(classified, entity))
			})
			if err != nil {
				return err
			}
		}
		if out.WriteScatter {
			path := filepath.Join(out.Dir, fmt.Sprintf("%s_scatter.json", entity))
			err := writeFile(path, func(w io.Writer) error {
				return report.WriteScatterJSON(w, report.BuildScatter(classified, entity, th))
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
