package quiet

import (
	"errors"
	"strings"
	"testing"

	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/dylhunn/dragontoothmg"
)

func TestIsQuiet(t *testing.T) {
	var tests = []struct {
		fen   string
		quiet bool
	}{
		{domain.InitialPositionFen, true},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		// promotion is available but not a capture
		{"8/4P3/8/8/8/8/k7/4K3 w - - 0 1", true},
		// black pushes to a1 with no en passant square
		{"7k/8/8/8/8/8/p7/7K b - - 0 1", true},
		{"k7/8/8/8/8/8/7p/K7 b - - 0 1", true},
		// in check
		{"k7/8/8/8/8/8/6P1/r6K w - - 0 1", false},
		// rook takes pawn
		{"3r3k/8/8/3p4/8/8/8/3R3K w - - 0 1", false},
		// only capture is en passant
		{"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2", false},
		// 1.e4 d5: exd5 available
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2", false},
	}
	for i, test := range tests {
		var b = dragontoothmg.ParseFen(test.fen)
		if IsQuiet(&b) != test.quiet {
			t.Error(i, test)
		}
	}
}

func TestResolveQuietIsIdentity(t *testing.T) {
	for _, fen := range []string{
		domain.InitialPositionFen,
		"8/4P3/8/8/8/8/k7/4K3 w - - 0 1",
		"7k/8/8/8/8/8/p7/7K b - - 0 1",
	} {
		var b = dragontoothmg.ParseFen(fen)
		var before = b
		for _, depth := range []int{0, 1, 10} {
			var qs = NewQuietService(depth)
			var ok, result = qs.Resolve(&b)
			if !ok || result != before || b != before {
				t.Error(fen, depth, ok)
			}
			if qs.Nodes() != 0 {
				t.Error("search performed on a quiet position", fen, qs.Nodes())
			}
		}
	}
}

func TestResolveSingleEscape(t *testing.T) {
	// White is in check from the a1 rook and Kh2 is the only legal move.
	const fen = "k7/8/8/8/8/8/6P1/r6K w - - 0 1"
	var b = dragontoothmg.ParseFen(fen)
	var moves = b.GenerateLegalMoves()
	if len(moves) != 1 {
		t.Fatal("expected a single legal move", len(moves))
	}
	var expected = b
	expected.Apply(moves[0])

	var ok, result = Resolve(&b, DefaultMaxDepth)
	if !ok {
		t.Fatal("resolve failed")
	}
	if result != expected {
		t.Error(result.ToFen(), expected.ToFen())
	}
	var fields = strings.Fields(result.ToFen())
	if fields[0] != "k7/8/8/8/8/8/6PK/r7" || fields[1] != "b" {
		t.Error(result.ToFen())
	}
	if b != dragontoothmg.ParseFen(fen) {
		t.Error("input mutated")
	}
}

func TestResolveDepth(t *testing.T) {
	// Rxd5 Rxd5 reaches a quiet position after two plies.
	const fen = "3r3k/8/8/3p4/8/8/8/3R3K w - - 0 1"
	var tests = []struct {
		depth int
		ok    bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{10, true},
	}
	for i, test := range tests {
		var b = dragontoothmg.ParseFen(fen)
		var original = b
		var ok, result = Resolve(&b, test.depth)
		if ok != test.ok {
			t.Error(i, test, ok)
			continue
		}
		if b != original {
			t.Error(i, "input mutated")
		}
		if !ok {
			if result != original {
				t.Error(i, "failure must return the original", result.ToFen())
			}
			continue
		}
		if !IsQuiet(&result) {
			t.Error(i, "result is not quiet", result.ToFen())
		}
		var fields = strings.Fields(result.ToFen())
		if fields[0] != "7k/8/8/3r4/8/8/8/7K" || fields[1] != "w" {
			t.Error(i, result.ToFen())
		}
	}
}

func TestResolveCheckmateFails(t *testing.T) {
	// back rank mate: no legal move at all
	const fen = "k7/8/8/8/8/8/6PP/r6K w - - 0 1"
	var b = dragontoothmg.ParseFen(fen)
	var ok, result = Resolve(&b, DefaultMaxDepth)
	if ok || result != b {
		t.Error(ok, result.ToFen())
	}
}

func TestResolveCorrectness(t *testing.T) {
	var fens = []string{
		domain.InitialPositionFen,
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
		"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
		"3r3k/8/8/3p4/8/8/8/3R3K w - - 0 1",
		"k7/8/8/8/8/8/6P1/r6K w - - 0 1",
	}
	for _, fen := range fens {
		for _, depth := range []int{0, 1, 2, 4} {
			var b = dragontoothmg.ParseFen(fen)
			var original = b
			var qs = NewQuietService(depth)
			var ok, result = qs.Resolve(&b)
			if ok && !IsQuiet(&result) {
				t.Error(fen, depth, "not quiet", result.ToFen())
			}
			if !ok && result != original {
				t.Error(fen, depth, "original not returned")
			}
			if b != original {
				t.Error(fen, depth, "input mutated")
			}
		}
	}
}

func TestResolveTerminates(t *testing.T) {
	// Kiwipete has many captures; the visited node count is bounded by
	// the number of plies allowed.
	const fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	var b = dragontoothmg.ParseFen(fen)
	var qs = NewQuietService(3)
	qs.Resolve(&b)
	const maxBranching = 218
	if qs.Nodes() < 1 || qs.Nodes() > 1+maxBranching+maxBranching*maxBranching+maxBranching*maxBranching*maxBranching {
		t.Error(qs.Nodes())
	}
}

func TestResolveFEN(t *testing.T) {
	var qs = NewQuietService(DefaultMaxDepth)

	var ok, fen, err = qs.ResolveFEN(domain.InitialPositionFen)
	if err != nil || !ok || fen != domain.InitialPositionFen {
		t.Error(ok, fen, err)
	}

	ok, fen, err = qs.ResolveFEN("3r3k/8/8/3p4/8/8/8/3R3K w - - 0 1")
	if err != nil || !ok || !strings.HasPrefix(fen, "7k/8/8/3r4/8/8/8/7K w") {
		t.Error(ok, fen, err)
	}

	for _, bad := range []string{"bad", "8/8/8/8/8/8/8/8 w - - 0 1", "4k3/8/8/8/8/8/8/8 w - - 0 1"} {
		if _, _, err = qs.ResolveFEN(bad); !errors.Is(err, domain.ErrValidation) {
			t.Error(bad, err)
		}
	}
}
