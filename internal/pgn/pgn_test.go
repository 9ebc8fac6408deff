package pgn

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChizhovVadim/dataforge/internal/domain"
)

const twoGames = `[Event "Test"]
[White "A"]
[Black "B"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 1-0

[Event "Test"]
[SetUp "1"]
[FEN "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"]
[Result "1/2-1/2"]

1. e4 Kd7
1/2-1/2
`

func walkAll(t *testing.T, text string) []GameRaw {
	t.Helper()
	var games []GameRaw
	var err = WalkPgn(strings.NewReader(text), func(g GameRaw) error {
		games = append(games, g)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return games
}

func TestWalkPgn(t *testing.T) {
	var games = walkAll(t, twoGames)
	if len(games) != 2 {
		t.Fatal(len(games))
	}
	if v, ok := games[0].TagValue("White"); !ok || v != "A" {
		t.Error(v, ok)
	}
	if v, ok := games[1].TagValue("Result"); !ok || v != GameResultDraw {
		t.Error(v, ok)
	}
	if !strings.Contains(games[1].BodyRaw, "Kd7") {
		t.Error(games[1].BodyRaw)
	}

	var crlf = walkAll(t, strings.ReplaceAll(twoGames, "\n", "\r\n"))
	if len(crlf) != 2 || len(crlf[0].Tags) != 4 {
		t.Error(len(crlf))
	}
}

func TestWalkPgnSkipsEmptyGames(t *testing.T) {
	var text = "[Event \"empty\"]\n\n[Event \"full\"]\n[Result \"0-1\"]\n\n1. f3 e5 2. g4 Qh4# 0-1\n"
	var games = walkAll(t, text)
	if len(games) != 1 {
		t.Fatal(len(games))
	}
	if v, _ := games[0].TagValue("Event"); v != "full" {
		t.Error(games[0].Tags)
	}
}

func TestWalkPgnStops(t *testing.T) {
	var errStop = errors.New("stop")
	var count int
	var err = WalkPgn(strings.NewReader(twoGames), func(g GameRaw) error {
		count++
		return errStop
	})
	if !errors.Is(err, errStop) || count != 1 {
		t.Error(err, count)
	}
}

func TestParseGame(t *testing.T) {
	var games = walkAll(t, twoGames)

	game, err := ParseGame(games[0])
	if err != nil {
		t.Fatal(err)
	}
	if game.Result != GameResultWhiteWin || len(game.Fens) != 4 {
		t.Fatal(game.Result, game.Fens)
	}
	if game.Fens[0] != domain.InitialPositionFen {
		t.Error(game.Fens[0])
	}
	var fields = strings.Fields(game.Fens[1])
	if fields[0] != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR" || fields[1] != "b" {
		t.Error(game.Fens[1])
	}

	game, err = ParseGame(games[1])
	if err != nil {
		t.Fatal(err)
	}
	if len(game.Fens) != 2 {
		t.Fatal(game.Fens)
	}
	fields = strings.Fields(game.Fens[0])
	if fields[0] != "4k3/8/8/8/8/8/4P3/4K3" || fields[1] != "w" {
		t.Error(game.Fens[0])
	}
}

func TestParseGameIllegalMove(t *testing.T) {
	var games = walkAll(t, "[Result \"1-0\"]\n\n1. e5 1-0\n")
	if len(games) != 1 {
		t.Fatal(len(games))
	}
	if _, err := ParseGame(games[0]); err == nil {
		t.Error("expected error")
	}
}

func TestResultOutcome(t *testing.T) {
	var tests = []struct {
		result  string
		outcome domain.Outcome
		ok      bool
	}{
		{GameResultWhiteWin, domain.Win, true},
		{GameResultBlackWin, domain.Loss, true},
		{GameResultDraw, domain.Draw, true},
		{GameResultNone, 0, false},
		{"", 0, false},
	}
	for i, test := range tests {
		var outcome, ok = ResultOutcome(test.result)
		if ok != test.ok || outcome != test.outcome {
			t.Error(i, test, outcome, ok)
		}
	}
}

func TestFiles(t *testing.T) {
	var dir = t.TempDir()
	for _, name := range []string{"b.pgn", "a.pgn.zst", "c.txt", "d.csv.zst"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pgn"), 0o755); err != nil {
		t.Fatal(err)
	}
	files, err := Files(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.pgn.zst" || filepath.Base(files[1]) != "b.pgn" {
		t.Error(files)
	}
}
