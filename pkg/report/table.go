// Package report renders classification results for people and for external
// plotting and spreadsheet tools.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

// WriteCategoryTable prints one row per entity with its id, original key and
// category. Ids come from the run's shared codebook, so a key has the same id
// in every input table.
func WriteCategoryTable(w io.Writer, entity models.EntityType, classified []models.ClassifiedEntity) {
	fmt.Fprintf(w, "%s Kraljic Categories:\n", entity.Title())
	fmt.Fprintf(w, "(%s values are shared across all input tables of this run)\n", entity.IDColumn())

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader([]string{entity.IDColumn(), "key", "kraljic_category"})
	for _, c := range classified {
		tw.Append([]string{strconv.Itoa(c.ID), c.Key, c.Category})
	}
	tw.Render()
}

// WriteCategorySummary prints the number of entities per category in legend
// order.
func WriteCategorySummary(w io.Writer, entity models.EntityType, classified []models.ClassifiedEntity) {
	counts := make(map[models.Quadrant]int, len(models.Quadrants))
	for _, c := range classified {
		counts[c.Quadrant]++
	}

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader([]string{"kraljic_category", "count"})
	for _, q := range models.Quadrants {
		tw.Append([]string{q.Label(entity), strconv.Itoa(counts[q])})
	}
	tw.Render()
}

// WriteStageTable prints the row accounting of every stage
func WriteStageTable(w io.Writer, stages []models.StageReport) {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader([]string{"stage", "rows_in", "rows_out", "dropped", "flagged"})
	for _, s := range stages {
		tw.Append([]string{
			s.Stage,
			strconv.Itoa(s.RowsIn),
			strconv.Itoa(s.RowsOut),
			formatCounts(s.Dropped),
			formatCounts(s.Flagged),
		})
	}
	tw.Render()
}

// formatCounts renders a reason map as "a=1 b=2", sorted by reason
func formatCounts[K ~string](counts map[K]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%d", k, counts[K(k)])
	}
	return out
}
