package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ugaemi/epidemic-sim/internal/config"
	"github.com/ugaemi/epidemic-sim/internal/epidemic"
	"github.com/ugaemi/epidemic-sim/internal/report"
	"github.com/ugaemi/epidemic-sim/internal/session"
	"github.com/ugaemi/epidemic-sim/internal/store"
)

type runOptions struct {
	scenario    string
	ticks       int64
	untilOver   bool
	csvPath     string
	chartPath   string
	videoPath   string
	frameEvery  int
	fps         int
	databaseURL string
}

func loadScenario(path string) (epidemic.Config, error) {
	if path == "" {
		return epidemic.DefaultConfig(), nil
	}
	return config.LoadScenario(path)
}

func openStore(ctx context.Context, databaseURL string) (*store.PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is required")
	}
	st, err := store.NewPostgresStore(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return st, nil
}

func runSimulation(ctx context.Context, w io.Writer, opts runOptions) error {
	cfg, err := loadScenario(opts.scenario)
	if err != nil {
		return err
	}

	sessOpts := session.DefaultOptions()
	if opts.databaseURL != "" {
		st, err := openStore(ctx, opts.databaseURL)
		if err != nil {
			return err
		}
		defer st.Close()
		sessOpts.Store = st
	}

	s := session.NewSession("CLI", cfg, sessOpts)

	var video *report.VideoWriter
	if opts.videoPath != "" {
		video, err = report.NewVideoWriter(opts.videoPath, cfg, opts.fps)
		if err != nil {
			return err
		}
		defer func() {
			if video != nil {
				video.Close()
			}
		}()
	}
	every := int64(max(opts.frameEvery, 1))

	writeFrame := func() error {
		if video == nil {
			return nil
		}
		snap := s.Snapshot()
		return video.WriteFrame(snap.Agents, snap.Stats)
	}
	if err := writeFrame(); err != nil {
		return err
	}

	for s.Tick() < opts.ticks {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats := s.Advance()
		over := !stats.Active()
		if stats.Tick%every == 0 || over {
			if err := writeFrame(); err != nil {
				return err
			}
		}
		if over && opts.untilOver {
			break
		}
	}

	info := s.Info()
	s.Close()
	s.Wait()

	if video != nil {
		if err := video.Close(); err != nil {
			return fmt.Errorf("closing video: %w", err)
		}
		video = nil
	}

	if err := writeOutputs(s.History(), s.ChartHistory(), opts.csvPath, opts.chartPath); err != nil {
		return err
	}

	printSummary(w, info.RunID, cfg, s.History())
	return nil
}

func writeOutputs(history, chartPoints []epidemic.Stats, csvPath, chartPath string) error {
	if csvPath != "" {
		if err := writeFile(csvPath, func(w io.Writer) error { return report.WriteCSV(w, history) }); err != nil {
			return err
		}
	}
	if chartPath != "" {
		if err := writeFile(chartPath, func(w io.Writer) error { return report.RenderChart(w, chartPoints) }); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func printConfig(w io.Writer, scenario string) error {
	cfg, err := loadScenario(scenario)
	if err != nil {
		return err
	}
	data, err := config.MarshalScenario(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func listRuns(ctx context.Context, w io.Writer, databaseURL string, limit int) error {
	st, err := openStore(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	printRuns(w, runs)
	return nil
}

func exportRun(ctx context.Context, w io.Writer, databaseURL, runID, csvPath, chartPath string) error {
	st, err := openStore(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.FindRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}

	history, err := st.RunHistory(ctx, runID)
	if err != nil {
		return err
	}
	if err := writeOutputs(history, session.Downsample(history, epidemic.MaxChartPoints), csvPath, chartPath); err != nil {
		return err
	}

	printSummary(w, run.ID, run.Config, history)
	return nil
}
