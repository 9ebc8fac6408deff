package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ChizhovVadim/dataforge/internal/ledger"
	"github.com/ChizhovVadim/dataforge/internal/pipeline"
	"github.com/rs/zerolog"
)

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().Timestamp().Logger()
	var err = run(logger, os.Args[1:])
	if err != nil {
		logger.Error().Err(err).Msg("dataforge failed")
		os.Exit(1)
	}
}

type app struct {
	settings Settings
	logger   zerolog.Logger
	ledger   *ledger.Store
	runID    string
}

func run(logger zerolog.Logger, args []string) error {
	settings, err := defaultSettings()
	if err != nil {
		return err
	}

	var global = flag.NewFlagSet("dataforge", flag.ContinueOnError)
	global.StringVar(&settings.DB, "db", settings.DB, "Path to SQLite run ledger (empty disables)")
	global.Usage = func() {
		fmt.Fprintf(global.Output(), "usage: dataforge [-db path] <command> [flags]\ncommands:\n")
		for _, c := range commands {
			fmt.Fprintf(global.Output(), "  %-13v %v\n", c.name, c.usage)
		}
	}
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return fmt.Errorf("command expected")
	}
	var name = global.Arg(0)
	var cmd, found = findCommand(name)
	if !found {
		global.Usage()
		return fmt.Errorf("unknown command %q", name)
	}

	var fs = flag.NewFlagSet(name, flag.ContinueOnError)
	cmd.bind(fs, &settings)
	if err := fs.Parse(global.Args()[1:]); err != nil {
		return err
	}

	var a = &app{
		settings: settings,
		logger:   logger.With().Str("command", name).Logger(),
		runID:    ledger.NewRunID(),
	}
	a.logger.Info().Msgf("%+v", settings)

	if settings.DB != "" {
		store, err := ledger.NewStore(settings.DB)
		if err != nil {
			return err
		}
		defer store.Close()
		a.ledger = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cmd.run(ctx, a)
}

// record stores a finished stage in the ledger when one is configured.
func (a *app) record(ctx context.Context, stage pipeline.Stage) error {
	a.logger.Info().
		Str("stage", stage.Name).
		Str("output", stage.Output).
		Int("positions", stage.Positions).
		Dur("elapsed", stage.FinishedAt.Sub(stage.StartedAt)).
		Msg("stage finished")
	if a.ledger == nil {
		return nil
	}
	return a.ledger.Record(ctx, ledger.Entry{
		RunID:      a.runID,
		Stage:      stage.Name,
		Input:      stage.Input,
		Output:     stage.Output,
		Positions:  stage.Positions,
		StartedAt:  stage.StartedAt,
		FinishedAt: stage.FinishedAt,
	})
}

func chessDir() (string, error) {
	curUser, err := user.Current()
	if err != nil {
		return "", err
	}
	homeDir := curUser.HomeDir
	if homeDir == "" {
		return "", fmt.Errorf("current user home dir empty")
	}
	return filepath.Join(homeDir, "chess"), nil
}

func defaultThreads() int {
	return max(1, runtime.NumCPU()/2)
}
