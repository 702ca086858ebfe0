package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/epidemic-sim/internal/config"
	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

func writeScenario(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestRunSimulation_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	opts := runOptions{
		scenario:   writeScenario(t, "total_people: 25\ninfected_people: 5\nwidth: 300\nheight: 200\n"),
		ticks:      120,
		csvPath:    filepath.Join(dir, "stats.csv"),
		chartPath:  filepath.Join(dir, "chart.png"),
		videoPath:  filepath.Join(dir, "run.avi"),
		frameEvery: 10,
		fps:        10,
	}

	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), &out, opts))

	f, err := os.Open(opts.csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(rows), 2)
	assert.LessOrEqual(t, len(rows), 122, "header plus at most one row per tick")

	for _, path := range []string{opts.chartPath, opts.videoPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), path)
	}

	assert.Contains(t, out.String(), "population:   25 (5 initially infected)")
}

func TestRunSimulation_StopsWhenOver(t *testing.T) {
	dir := t.TempDir()
	opts := runOptions{
		scenario:  writeScenario(t, "total_people: 1\ninfected_people: 1\nincubation_period: 0\nsymptomatic_period: 0\nmortality_rate: 0\n"),
		ticks:     1000,
		untilOver: true,
		csvPath:   filepath.Join(dir, "stats.csv"),
	}

	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), &out, opts))

	data, err := os.ReadFile(opts.csvPath)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header, tick 0 and the resolving tick")
	assert.Contains(t, out.String(), "epidemic over")
}

func TestRunSimulation_BadScenario(t *testing.T) {
	opts := runOptions{scenario: writeScenario(t, "bogus_field: 1\n"), ticks: 10}

	err := runSimulation(context.Background(), &bytes.Buffer{}, opts)
	assert.ErrorIs(t, err, config.ErrInvalidScenario)
}

func TestRunSimulation_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runSimulation(ctx, &bytes.Buffer{}, runOptions{ticks: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintConfig(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printConfig(&out, writeScenario(t, "total_people: 42\n")))

	cfg, err := config.ParseScenario(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.TotalPeople)
}

func TestPrintConfig_Defaults(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printConfig(&out, ""))

	cfg, err := config.ParseScenario(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, epidemic.DefaultConfig(), cfg)
}

func TestOpenStore_RequiresURL(t *testing.T) {
	_, err := openStore(context.Background(), "")
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	cfg := epidemic.DefaultConfig()
	cfg.TotalPeople = 10
	history := []epidemic.Stats{
		{Tick: 0, Healthy: 9, Infected: 1, Total: 10},
		{Tick: 60, Healthy: 5, Infected: 3, Symptomatic: 2, Total: 10},
		{Tick: 120, Healthy: 5, Recovered: 4, Dead: 1, Total: 10},
	}

	var out bytes.Buffer
	printSummary(&out, "run-1", cfg, history)

	s := out.String()
	assert.Contains(t, s, "run run-1")
	assert.Contains(t, s, "peak:         5 infectious on day 1.0")
	assert.Contains(t, s, "dead:         1 (10%)")
	assert.Contains(t, s, "epidemic over")
}

func TestPrintRuns_Empty(t *testing.T) {
	var out bytes.Buffer
	printRuns(&out, nil)
	assert.Equal(t, "no runs\n", out.String())
}
