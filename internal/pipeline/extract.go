package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/ChizhovVadim/dataforge/internal/pgn"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrNoPositions = errors.New("no valid positions found")

type ExtractConfig struct {
	GamesFolder string
	Threads     int
	Logger      zerolog.Logger
	// NewGameID defaults to a random UUID.
	NewGameID func() string
}

type indexedGame struct {
	index int
	game  pgn.GameRaw
}

type gamePositions struct {
	index   int
	records []domain.Record
}

// Extract labels the position before every mainline move of each finished
// game with the game outcome. Games are returned in file order.
func Extract(ctx context.Context, cfg ExtractConfig) ([]domain.Record, error) {
	var log = cfg.Logger
	log.Info().Str("folder", cfg.GamesFolder).Msg("extract started")

	files, err := pgn.Files(cfg.GamesFolder)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no PGN files in %v", ErrNoPositions, cfg.GamesFolder)
	}
	var newGameID = cfg.NewGameID
	if newGameID == nil {
		newGameID = uuid.NewString
	}

	g, ctx := errgroup.WithContext(ctx)

	var games = make(chan indexedGame, 128)
	var results = make(chan gamePositions, 128)
	var byGame = make(map[int][]domain.Record)

	g.Go(func() error {
		defer close(games)
		return loadGames(ctx, files, games, log)
	})

	g.Go(func() error {
		for item := range results {
			byGame[item.index] = item.records
		}
		return nil
	})

	var wg = &sync.WaitGroup{}
	for i := 0; i < max(1, cfg.Threads); i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return analyzeGames(ctx, games, results, newGameID, log)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var gameCount = len(byGame)
	var result []domain.Record
	for i := 0; len(byGame) != 0; i++ {
		if records, found := byGame[i]; found {
			result = append(result, records...)
			delete(byGame, i)
		}
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoPositions, cfg.GamesFolder)
	}
	log.Info().
		Int("games", gameCount).
		Int("positions", len(result)).
		Msg("extract finished")
	return result, nil
}

func loadGames(
	ctx context.Context,
	files []string,
	games chan<- indexedGame,
	log zerolog.Logger,
) error {
	var gamesCount int
	for _, path := range files {
		log.Info().Str("filepath", path).Msg("loadGames")
		var err = pgn.WalkPgnFile(path, func(gr pgn.GameRaw) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case games <- indexedGame{index: gamesCount, game: gr}:
				gamesCount++
				return nil
			}
		})
		if err != nil {
			return fmt.Errorf("%v: %w", path, err)
		}
	}
	log.Info().Int("gamesCount", gamesCount).Msg("loadGames")
	return nil
}

func analyzeGames(
	ctx context.Context,
	games <-chan indexedGame,
	results chan<- gamePositions,
	newGameID func() string,
	log zerolog.Logger,
) error {
	for item := range games {
		var result, _ = item.game.TagValue("Result")
		var wdl, ok = pgn.ResultOutcome(result)
		if !ok {
			// unfinished games carry no label
			continue
		}
		game, err := pgn.ParseGame(item.game)
		if err != nil {
			log.Warn().
				Interface("tags", item.game.Tags).
				Err(err).
				Msg("analyzeGame failed")
			continue
		}
		if len(game.Fens) == 0 {
			continue
		}
		var gameID = newGameID()
		var records = make([]domain.Record, len(game.Fens))
		for i, fen := range game.Fens {
			records[i] = domain.Record{GameID: gameID, Fen: fen, WDL: wdl}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case results <- gamePositions{index: item.index, records: records}:
		}
	}
	return nil
}
