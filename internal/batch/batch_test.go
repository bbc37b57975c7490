package batch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/corotrap/internal/analysis"
	"github.com/san-kum/corotrap/internal/config"
	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/experiment"
	"github.com/san-kum/corotrap/internal/storage"
)

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = 0.01
	return cfg
}

func TestNewSweepRejectsUnknownParameter(t *testing.T) {
	_, err := NewSweep(map[string][]float64{"CR": {8}, "omega": {1}})
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = NewSweep(map[string][]float64{"CR": {}})
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSweepExpand(t *testing.T) {
	s, err := NewSweep(map[string][]float64{
		"eps": {0, 0.3},
		"CR":  {7, 8, 9},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, s.Size())

	cfgs, err := s.Expand(shortConfig())
	require.NoError(t, err)
	require.Len(t, cfgs, 6)

	// CR precedes eps in parameter order, so eps varies fastest.
	assert.Equal(t, 7.0, cfgs[0].Galaxy.Corotation)
	assert.Equal(t, 0.0, cfgs[0].Galaxy.Epsilon)
	assert.Equal(t, 7.0, cfgs[1].Galaxy.Corotation)
	assert.Equal(t, 0.3, cfgs[1].Galaxy.Epsilon)
	assert.Equal(t, 9.0, cfgs[5].Galaxy.Corotation)

	for _, c := range cfgs {
		assert.Equal(t, 0.01, c.Duration)
	}
}

func TestSweepExpandValidates(t *testing.T) {
	s, err := NewSweep(map[string][]float64{"CR": {8, -1}})
	require.NoError(t, err)

	_, err = s.Expand(shortConfig())
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestEmptySweep(t *testing.T) {
	s, err := NewSweep(nil)
	require.NoError(t, err)
	assert.Zero(t, s.Size())

	cfgs, err := s.Expand(shortConfig())
	require.NoError(t, err)
	assert.Empty(t, cfgs)
}

func TestTableRoundTrip(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	b.Galaxy.Corotation = 10

	rows := []Row{
		{Name: storage.DumpName(b), Config: b, Lz: [5]float64{1, 2, 3, 4, 5}},
		{Name: storage.DumpName(a), Config: a, Lz: [5]float64{-1900, -1901, -1899.5, -1900, -1902}, Class: analysis.TrappedThenFree, Classified: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "# m th t CR eps"))
	assert.True(t, strings.HasSuffix(lines[0], "Lz4 class"))
	assert.True(t, strings.HasSuffix(lines[2], " NA"))

	got, err := ReadTable(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 8.0, got[0].Config.Galaxy.Corotation)
	assert.True(t, got[0].Classified)
	assert.Equal(t, analysis.TrappedThenFree, got[0].Class)
	assert.Equal(t, rows[1].Lz, got[0].Lz)
	assert.Equal(t, rows[1].Name, got[0].Name)

	assert.Equal(t, 10.0, got[1].Config.Galaxy.Corotation)
	assert.False(t, got[1].Classified)
}

func TestReadTableRejectsShortLine(t *testing.T) {
	_, err := ReadTable(strings.NewReader("4 20 2 8\n"))
	require.Error(t, err)
}

func TestRunnerRun(t *testing.T) {
	s, err := NewSweep(map[string][]float64{"eps": {0, 0.3}, "CR": {8, 9}})
	require.NoError(t, err)
	cfgs, err := s.Expand(shortConfig())
	require.NoError(t, err)

	dir := t.TempDir()
	store := storage.New(dir)
	require.NoError(t, store.Init())

	var logs bytes.Buffer
	r := NewRunner(WithWorkers(2), WithStore(store), WithLogger(log.NewLogfmtLogger(&logs)))

	rows, err := r.Run(context.Background(), cfgs)
	require.NoError(t, err)
	require.Len(t, rows, len(cfgs))

	for i, row := range rows {
		assert.Equal(t, storage.DumpName(cfgs[i]), row.Name)
		assert.Equal(t, cfgs[i].Galaxy.Epsilon != 0, row.Classified, row.Name)
		assert.NotZero(t, row.Lz[0])
	}
	assert.Contains(t, logs.String(), "run not classified")

	runs, err := store.List()
	require.NoError(t, err)
	assert.Len(t, runs, len(cfgs))
}

func TestRunnerRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(WithWorkers(1)).Run(ctx, []*config.Config{shortConfig()})
	require.ErrorIs(t, err, dynamo.ErrContextCanceled)
}

func TestRunnerFromDumps(t *testing.T) {
	dir := t.TempDir()
	cfgs := []*config.Config{shortConfig(), shortConfig()}
	cfgs[1].Galaxy.Corotation = 10

	reg := experiment.NewRegistry()
	for _, cfg := range cfgs {
		exp, err := experiment.New(cfg, reg)
		require.NoError(t, err)
		out, err := exp.Run(context.Background())
		require.NoError(t, err)
		path := filepath.Join(dir, storage.DumpName(cfg)+storage.DumpExt)
		require.NoError(t, storage.WriteDumpFile(path, out.Result.Trajectory))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("# not a dump\n"), 0644))

	rows, err := NewRunner().Run(context.Background(), cfgs)
	require.NoError(t, err)

	fromDumps, err := NewRunner().FromDumps(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, fromDumps, 2)

	SortRows(rows)
	for i := range rows {
		assert.Equal(t, rows[i].Name, fromDumps[i].Name)
		assert.Equal(t, rows[i].Classified, fromDumps[i].Classified)
		assert.Equal(t, rows[i].Class, fromDumps[i].Class)
		assert.InDeltaSlice(t, rows[i].Lz[:], fromDumps[i].Lz[:], 1e-9)
	}
}
