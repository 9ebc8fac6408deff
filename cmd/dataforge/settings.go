package main

import (
	"flag"
	"path/filepath"

	"github.com/ChizhovVadim/dataforge/internal/pipeline"
	"github.com/ChizhovVadim/dataforge/internal/quiet"
	"github.com/ChizhovVadim/dataforge/internal/sampling"
	"github.com/ChizhovVadim/dataforge/internal/selfplay"
)

type Settings struct {
	DB string

	GamesFolder    string
	RawFolder      string
	SampledFolder  string
	QuietFolder    string
	TrainingFolder string
	Input          string
	Output         string

	Threads        int
	MaxDepth       int
	SamplesPerGame float64
	Samples        int
	PhaseBins      int
	Replace        bool
	Verify         bool
	Seed           uint64
	Compress       bool

	Runner      string
	Engine1     string
	Engine2     string
	Book        string
	BookFormat  string
	TimeControl string
	Rounds      int
	Concurrency int
}

func defaultSettings() (Settings, error) {
	dir, err := chessDir()
	if err != nil {
		return Settings{}, err
	}
	var dataDir = filepath.Join(dir, "dataforge")
	return Settings{
		GamesFolder:    filepath.Join(dir, "pgn"),
		RawFolder:      filepath.Join(dataDir, "raw"),
		SampledFolder:  filepath.Join(dataDir, "sampled"),
		QuietFolder:    filepath.Join(dataDir, "quiet"),
		TrainingFolder: filepath.Join(dataDir, "training"),
		Threads:        defaultThreads(),
		MaxDepth:       quiet.DefaultMaxDepth,
		SamplesPerGame: pipeline.DefaultSamplesPerGame,
		PhaseBins:      sampling.DefaultPhaseBins,
		Verify:         true,
		Seed:           42,
		Runner:         "cutechess-cli",
		BookFormat:     "epd",
		TimeControl:    "8+0.08",
		Rounds:         1000,
		Concurrency:    selfplay.DefaultConcurrency,
	}, nil
}

func bindThreads(fs *flag.FlagSet, s *Settings) {
	fs.IntVar(&s.Threads, "threads", s.Threads, "Number of threads")
}

func bindSeed(fs *flag.FlagSet, s *Settings) {
	fs.Uint64Var(&s.Seed, "seed", s.Seed, "Random seed")
}

func bindCompress(fs *flag.FlagSet, s *Settings) {
	fs.BoolVar(&s.Compress, "compress", s.Compress, "Write zstd compressed output (.zst)")
}

func bindSelfplay(fs *flag.FlagSet, s *Settings) {
	fs.StringVar(&s.Runner, "runner", s.Runner, "Path to tournament runner")
	fs.StringVar(&s.Engine1, "engine1", s.Engine1, "Path to first engine")
	fs.StringVar(&s.Engine2, "engine2", s.Engine2, "Path to second engine")
	fs.StringVar(&s.Book, "book", s.Book, "Path to opening book")
	fs.StringVar(&s.BookFormat, "book-format", s.BookFormat, "Opening book format (epd or pgn)")
	fs.StringVar(&s.TimeControl, "tc", s.TimeControl, "Time control")
	fs.IntVar(&s.Rounds, "rounds", s.Rounds, "Number of rounds")
	fs.IntVar(&s.Concurrency, "concurrency", s.Concurrency, "Games played in parallel")
	fs.StringVar(&s.GamesFolder, "output", s.GamesFolder, "Folder for PGN output")
}

func bindExtract(fs *flag.FlagSet, s *Settings) {
	fs.StringVar(&s.GamesFolder, "input", s.GamesFolder, "Path to folder with PGN files")
	fs.StringVar(&s.RawFolder, "output", s.RawFolder, "Folder for raw labelled CSV")
	bindThreads(fs, s)
	bindCompress(fs, s)
}

func bindSampleGames(fs *flag.FlagSet, s *Settings) {
	fs.StringVar(&s.Input, "input", s.Input, "Path to raw labelled CSV")
	fs.StringVar(&s.SampledFolder, "output", s.SampledFolder, "Folder for sampled CSV")
	fs.Float64Var(&s.SamplesPerGame, "frac", s.SamplesPerGame, "Fraction of positions kept per game")
	bindSeed(fs, s)
	bindCompress(fs, s)
}

func bindQuiet(fs *flag.FlagSet, s *Settings) {
	fs.StringVar(&s.Input, "input", s.Input, "Path to labelled CSV")
	fs.StringVar(&s.QuietFolder, "output", s.QuietFolder, "Folder for quiet labelled CSV")
	fs.IntVar(&s.MaxDepth, "max-depth", s.MaxDepth, "Resolver depth limit in plies")
	bindThreads(fs, s)
	bindCompress(fs, s)
}

func bindBuildOptions(fs *flag.FlagSet, s *Settings) {
	fs.IntVar(&s.Samples, "samples", s.Samples, "Number of training positions")
	fs.IntVar(&s.PhaseBins, "phase-bins", s.PhaseBins, "Number of phase bins")
	fs.BoolVar(&s.Replace, "replace", s.Replace, "Sample with replacement")
	fs.BoolVar(&s.Verify, "verify", s.Verify, "Print distribution of the sample")
	bindSeed(fs, s)
	bindCompress(fs, s)
}

func bindBuild(fs *flag.FlagSet, s *Settings) {
	fs.StringVar(&s.QuietFolder, "input", s.QuietFolder, "Folder with quiet labelled CSV files")
	fs.StringVar(&s.TrainingFolder, "output", s.TrainingFolder, "Folder for EPD training data")
	bindBuildOptions(fs, s)
}

func bindRun(fs *flag.FlagSet, s *Settings) {
	fs.StringVar(&s.GamesFolder, "input", s.GamesFolder, "Path to folder with PGN files")
	fs.StringVar(&s.Output, "output", s.Output, "Root folder for stage outputs (default per stage folders)")
	fs.Float64Var(&s.SamplesPerGame, "frac", s.SamplesPerGame, "Fraction of positions kept per game")
	fs.IntVar(&s.MaxDepth, "max-depth", s.MaxDepth, "Resolver depth limit in plies")
	bindThreads(fs, s)
	bindBuildOptions(fs, s)
}

func bindInspect(fs *flag.FlagSet, s *Settings) {
	fs.StringVar(&s.Input, "input", s.Input, "Path to EPD or CSV file")
	fs.IntVar(&s.PhaseBins, "phase-bins", s.PhaseBins, "Number of phase bins")
}
