package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

func TestLogStage(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "pipeline", "test").Child("run_id", "abc")

	report := models.NewStageReport(models.StageCombiner, 10)
	report.RowsOut = 7
	report.DropN(models.DropNoSupplierMatch, 2)
	report.Drop(models.DropMissingRevenue)
	logger.LogStage(report, 5*time.Millisecond)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))

	assert.Equal(t, "pipeline", event["component"])
	assert.Equal(t, "abc", event["run_id"])
	assert.Equal(t, "combiner", event["stage"])
	assert.Equal(t, 10.0, event["rows_in"])
	assert.Equal(t, 7.0, event["rows_out"])
	assert.Equal(t, map[string]interface{}{
		"no_supplier_match": 2.0,
		"missing_revenue":   1.0,
	}, event["dropped"])
	assert.NotContains(t, event, "flagged")
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "test", "v")
	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	SetLevel("bogus")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().LogStage(models.NewStageReport("x", 0), 0)
	})
}
