package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ChizhovVadim/dataforge/internal/compress"
	"github.com/ChizhovVadim/dataforge/internal/dataset"
	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/ChizhovVadim/dataforge/internal/pipeline"
	"github.com/ChizhovVadim/dataforge/internal/report"
	"github.com/ChizhovVadim/dataforge/internal/sampling"
	"github.com/ChizhovVadim/dataforge/internal/selfplay"
)

type command struct {
	name  string
	usage string
	bind  func(fs *flag.FlagSet, s *Settings)
	run   func(ctx context.Context, a *app) error
}

var commands = []command{
	{"selfplay", "play engine games into PGN files", bindSelfplay, runSelfplay},
	{"extract", "label positions of finished PGN games", bindExtract, runExtract},
	{"sample-games", "keep a fraction of positions per game", bindSampleGames, runSampleGames},
	{"quiet", "resolve positions to quiet ones", bindQuiet, runQuiet},
	{"build", "balance, shuffle and write EPD training data", bindBuild, runBuild},
	{"run", "extract, sample-games, quiet and build in one go", bindRun, runAll},
	{"inspect", "print the phase and outcome distribution of a file", bindInspect, runInspect},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (a *app) files(dir string) pipeline.StageFiles {
	return pipeline.StageFiles{OutputDir: dir, Compress: a.settings.Compress}
}

func (a *app) verifyWriter() io.Writer {
	if a.settings.Verify {
		return os.Stdout
	}
	return nil
}

func (a *app) buildConfig() pipeline.BuildConfig {
	return pipeline.BuildConfig{
		Samples:   a.settings.Samples,
		PhaseBins: a.settings.PhaseBins,
		Replace:   a.settings.Replace,
		Seed:      a.settings.Seed,
		Logger:    a.logger,
	}
}

func requireInput(s *Settings) error {
	if s.Input == "" {
		return fmt.Errorf("%w: -input is required", domain.ErrValidation)
	}
	return nil
}

func runSelfplay(ctx context.Context, a *app) error {
	var s = &a.settings
	var started = time.Now()
	path, err := selfplay.Run(ctx, selfplay.Config{
		RunnerPath:  s.Runner,
		Engine1:     s.Engine1,
		Engine2:     s.Engine2,
		OpeningBook: s.Book,
		BookFormat:  s.BookFormat,
		TimeControl: s.TimeControl,
		Rounds:      s.Rounds,
		Concurrency: s.Concurrency,
		OutputDir:   s.GamesFolder,
		Logger:      a.logger,
	}, started)
	if err != nil {
		return err
	}
	return a.record(ctx, pipeline.Stage{
		Name:       "selfplay",
		Input:      s.Runner,
		Output:     path,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
}

func runExtract(ctx context.Context, a *app) error {
	var _, err = a.extract(ctx, a.settings.RawFolder)
	return err
}

func (a *app) extract(ctx context.Context, outputDir string) (pipeline.Stage, error) {
	var stage, err = pipeline.ExtractStage(ctx, pipeline.ExtractConfig{
		GamesFolder: a.settings.GamesFolder,
		Threads:     a.settings.Threads,
		Logger:      a.logger,
	}, a.files(outputDir))
	if err != nil {
		return pipeline.Stage{}, err
	}
	return stage, a.record(ctx, stage)
}

func runSampleGames(ctx context.Context, a *app) error {
	if err := requireInput(&a.settings); err != nil {
		return err
	}
	var _, err = a.sampleGames(ctx, a.settings.Input, a.settings.SampledFolder)
	return err
}

func (a *app) sampleGames(ctx context.Context, input, outputDir string) (pipeline.Stage, error) {
	var stage, err = pipeline.SampleGamesStage(input, a.settings.SamplesPerGame, a.settings.Seed, a.files(outputDir))
	if err != nil {
		return pipeline.Stage{}, err
	}
	return stage, a.record(ctx, stage)
}

func runQuiet(ctx context.Context, a *app) error {
	if err := requireInput(&a.settings); err != nil {
		return err
	}
	var _, err = a.quiet(ctx, a.settings.Input, a.settings.QuietFolder)
	return err
}

func (a *app) quiet(ctx context.Context, input, outputDir string) (pipeline.Stage, error) {
	var stage, err = pipeline.QuietStage(ctx, input, pipeline.QuietConfig{
		MaxDepth: a.settings.MaxDepth,
		Threads:  a.settings.Threads,
		Logger:   a.logger,
	}, a.files(outputDir))
	if err != nil {
		return pipeline.Stage{}, err
	}
	return stage, a.record(ctx, stage)
}

func runBuild(ctx context.Context, a *app) error {
	var _, err = a.build(ctx, a.settings.QuietFolder, a.settings.TrainingFolder)
	return err
}

func (a *app) build(ctx context.Context, quietFolder, outputDir string) (pipeline.Stage, error) {
	var stage, err = pipeline.BuildStage(quietFolder, a.buildConfig(), a.verifyWriter(), a.files(outputDir))
	if err != nil {
		return pipeline.Stage{}, err
	}
	return stage, a.record(ctx, stage)
}

// runAll chains the stages. With -output every stage writes into its own
// subfolder of that root.
func runAll(ctx context.Context, a *app) error {
	var s = &a.settings
	var rawDir, sampledDir, quietDir, trainingDir = s.RawFolder, s.SampledFolder, s.QuietFolder, s.TrainingFolder
	if s.Output != "" {
		rawDir = filepath.Join(s.Output, "raw")
		sampledDir = filepath.Join(s.Output, "sampled")
		quietDir = filepath.Join(s.Output, "quiet")
		trainingDir = filepath.Join(s.Output, "training")
	}

	raw, err := a.extract(ctx, rawDir)
	if err != nil {
		return err
	}
	sampled, err := a.sampleGames(ctx, raw.Output, sampledDir)
	if err != nil {
		return err
	}
	if _, err := a.quiet(ctx, sampled.Output, quietDir); err != nil {
		return err
	}
	training, err := a.build(ctx, quietDir, trainingDir)
	if err != nil {
		return err
	}
	a.logger.Info().
		Str("runID", a.runID).
		Str("training", training.Output).
		Msg("run finished")
	return nil
}

func runInspect(ctx context.Context, a *app) error {
	if err := requireInput(&a.settings); err != nil {
		return err
	}
	var records, err = loadAny(a.settings.Input)
	if err != nil {
		return err
	}
	annotated, err := pipeline.Annotate(records)
	if err != nil {
		return err
	}
	if a.settings.PhaseBins <= 0 {
		return fmt.Errorf("%w: phase bins %v must be positive", domain.ErrValidation, a.settings.PhaseBins)
	}
	var cells = sampling.Histogram(annotated, a.settings.PhaseBins)
	return report.Write(os.Stdout, report.NewTable(cells, a.settings.PhaseBins))
}

func loadAny(path string) ([]domain.Record, error) {
	if strings.HasSuffix(compress.TrimExt(path), ".csv") {
		return dataset.LoadRecords(path)
	}
	return dataset.LoadEPD(path)
}
