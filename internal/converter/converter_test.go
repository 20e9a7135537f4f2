package converter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/cart-parser/internal/cartparser"
	"github.com/ginjaninja78/cart-parser/internal/config"
	"github.com/ginjaninja78/cart-parser/internal/metric"
	"github.com/ginjaninja78/cart-parser/internal/types"
	"github.com/ginjaninja78/cart-parser/pkg/utils"
)

type fixture struct {
	cfg     *config.MainConfig
	files   *utils.FileManager
	metrics *metric.Metrics
	deps    Dependencies
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.InputDir = filepath.Join(root, "input")
	cfg.OutputDir = filepath.Join(root, "output")
	cfg.InputArchiveDir = filepath.Join(root, "input_archive")

	files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
	require.NoError(t, files.EnsureDirectories())

	metrics, err := metric.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	parser, err := cartparser.NewWithOptions(cartparser.Options{
		IDs: &cartparser.SequenceGenerator{Prefix: "item-"},
	})
	require.NoError(t, err)

	return fixture{
		cfg:     cfg,
		files:   files,
		metrics: metrics,
		deps: Dependencies{
			Parser:  parser,
			Files:   files,
			Metrics: metrics,
		},
	}
}

func (f fixture) writeInput(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(f.cfg.InputDir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestRun_Success(t *testing.T) {
	f := newFixture(t)
	input := f.writeInput(t, "cart.csv", "name,price,quantity\nApple,1.50,2\nPear,2.25,1\n")

	result := New(input, f.cfg, f.deps).Run()

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Stats.Items)
	assert.InDelta(t, 3.75, result.Stats.Total, 1e-9)
	assert.Equal(t, f.cfg.OutputDir, filepath.Dir(result.OutputFile))
	assert.Regexp(t, `^cart_[0-9a-f-]{36}\.json$`, filepath.Base(result.OutputFile))

	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	var doc types.ParseResult
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "item-1", doc.Items[0].ID)
	assert.Equal(t, "Pear", doc.Items[1].Name)

	assert.Equal(t, filepath.Join(f.cfg.InputArchiveDir, "cart.csv"), result.ArchivedTo)
	assert.False(t, utils.FileExists(input))

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FilesProcessed.WithLabelValues(metric.StatusSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.ItemsParsed))
}

func TestRun_NoArchive(t *testing.T) {
	f := newFixture(t)
	archive := false
	f.cfg.ArchiveInputs = &archive
	input := f.writeInput(t, "cart.csv", "name,price,quantity\nApple,1.50,2\n")

	result := New(input, f.cfg, f.deps).Run()

	require.True(t, result.Success)
	assert.Empty(t, result.ArchivedTo)
	assert.True(t, utils.FileExists(input))
}

func TestRun_ValidationFailure(t *testing.T) {
	f := newFixture(t)
	input := f.writeInput(t, "bad.csv", "name,price,quantity\n,1.50,2\nPear,-1,1\n")

	result := New(input, f.cfg, f.deps).Run()

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, cartparser.ErrValidationFailed)
	require.Len(t, result.ParseErrors, 2)
	assert.Equal(t, cartparser.ErrorTypeCell, result.ParseErrors[0].Type)
	assert.Empty(t, result.OutputFile)

	// Failed inputs stay where they are.
	assert.True(t, utils.FileExists(input))

	entries, err := os.ReadDir(f.cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FilesProcessed.WithLabelValues(metric.StatusFailed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.ValidationErrors.WithLabelValues("cell")))
}

func TestRun_MissingFile(t *testing.T) {
	f := newFixture(t)

	result := New(filepath.Join(f.cfg.InputDir, "missing.csv"), f.cfg, f.deps).Run()

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, os.ErrNotExist)
	assert.Empty(t, result.ParseErrors)
}

func TestResult_ErrorLogEntries(t *testing.T) {
	now := time.Now()

	assert.Nil(t, Result{Success: true}.ErrorLogEntries(now))

	entries := Result{
		FilePath: "/in/bad.csv",
		Error:    &cartparser.ValidationError{},
		ParseErrors: []cartparser.ParseError{
			{Type: cartparser.ErrorTypeRow, Row: 2, Column: -1, Message: "short"},
		},
	}.ErrorLogEntries(now)
	require.Len(t, entries, 1)
	assert.Equal(t, "bad.csv", entries[0].FileName)
	assert.Equal(t, "row", entries[0].ErrorType)
	assert.Equal(t, 2, entries[0].RowNumber)
	assert.Equal(t, -1, entries[0].ColumnNumber)

	entries = Result{FilePath: "/in/gone.csv", Error: os.ErrNotExist}.ErrorLogEntries(now)
	require.Len(t, entries, 1)
	assert.Equal(t, "processing", entries[0].ErrorType)
}
