// Package selfplay produces PGN files by running an external tournament
// runner (cutechess-cli compatible) between two engines.
package selfplay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/rs/zerolog"
)

var ErrRunnerFailed = errors.New("tournament runner failed")

const (
	DefaultConcurrency = 4
	maxStderr          = 4096
)

type Config struct {
	RunnerPath  string
	Engine1     string
	Engine2     string
	OpeningBook string
	BookFormat  string
	TimeControl string
	Rounds      int
	Concurrency int
	OutputDir   string
	Logger      zerolog.Logger
}

func (c *Config) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"runner", c.RunnerPath},
		{"engine1", c.Engine1},
		{"engine2", c.Engine2},
		{"book", c.OpeningBook},
		{"book-format", c.BookFormat},
		{"tc", c.TimeControl},
		{"output", c.OutputDir},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) != 0 {
		return fmt.Errorf("%w: missing %v", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("%w: rounds %v must be positive", domain.ErrValidation, c.Rounds)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency %v must be positive", domain.ErrValidation, c.Concurrency)
	}
	return nil
}

// Args builds the runner command line. Every game starts from a random book
// opening; adjudication settings keep decided and dead drawn games short.
func Args(cfg Config, pgnPath string) []string {
	return []string{
		"-engine", "cmd=" + cfg.Engine1, "name=engine1",
		"-engine", "cmd=" + cfg.Engine2, "name=engine2",
		"-openings", "file=" + cfg.OpeningBook, "format=" + cfg.BookFormat, "order=random",
		"-each", "tc=" + cfg.TimeControl, "option.Hash=64",
		"-rounds", strconv.Itoa(cfg.Rounds),
		"-games", "1",
		"-resign", "movecount=3", "score=400", "twosided=true",
		"-draw", "movenumber=40", "movecount=8", "score=10",
		"-concurrency", strconv.Itoa(cfg.Concurrency),
		"-recover",
		"-pgnout", "file=" + pgnPath,
	}
}

func PgnPath(outputDir string, now time.Time) string {
	return filepath.Join(outputDir, now.Format("20060102_150405")+".pgn")
}

// Run blocks until the runner exits and returns the path of the PGN file.
func Run(ctx context.Context, cfg Config, now time.Time) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	var log = cfg.Logger
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", err
	}
	var pgnPath = PgnPath(cfg.OutputDir, now)
	var args = Args(cfg, pgnPath)

	log.Info().
		Str("runner", cfg.RunnerPath).
		Strs("args", args).
		Msg("selfplay started")

	var stdout, stderr bytes.Buffer
	var cmd = exec.CommandContext(ctx, cfg.RunnerPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Error().
				Int("code", exitErr.ExitCode()).
				Str("stdout", tail(stdout.String())).
				Str("stderr", tail(stderr.String())).
				Msg("selfplay failed")
			return "", fmt.Errorf("%w with code %v: %v", ErrRunnerFailed, exitErr.ExitCode(), tail(stderr.String()))
		}
		return "", fmt.Errorf("%w: %w", ErrRunnerFailed, err)
	}

	log.Info().Str("pgn", pgnPath).Msg("selfplay finished")
	return pgnPath, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		return s[len(s)-maxStderr:]
	}
	return s
}
