package metric

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveSuccess(5, 348.32, 10*time.Millisecond)
	m.ObserveSuccess(2, 20, time.Millisecond)
	m.ObserveFailure([]string{"cell", "cell", "header"}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilesProcessed.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesProcessed.WithLabelValues(StatusFailed)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ItemsParsed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("cell")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("header")))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSuccess(1, 1, time.Second)
		m.ObserveFailure([]string{"row"}, time.Second)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.ObserveSuccess(3, 42, time.Millisecond)

	path := filepath.Join(t.TempDir(), "cartparser.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cartparser_files_processed_total{status="success"} 1`)
	assert.Contains(t, string(data), "cartparser_items_parsed_total 3")
}
