package phase

import (
	"testing"

	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/dylhunn/dragontoothmg"
)

func TestPhase(t *testing.T) {
	var tests = []struct {
		fen   string
		phase int
	}{
		{domain.InitialPositionFen, 0},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", 256},
		// no white queen: removed 4 -> (4*256+12)/24
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1", 43},
		// rooks only: removed 20
		{"4k2r/8/8/8/8/8/8/4K2R w - - 0 1", 213},
		// single knight: removed 23
		{"4k3/8/8/8/8/8/8/4KN2 w - - 0 1", 245},
		// pawns do not count
		{"4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1", 256},
		// 4 queens: removed 8
		{"QQQ5/8/7k/8/8/8/8/3QK3 w - - 0 1", 85},
	}
	for i, test := range tests {
		var phase, err = FromFEN(test.fen)
		if err != nil {
			t.Error(i, test, err)
			continue
		}
		if phase != test.phase {
			t.Error(i, test, phase)
		}
	}
}

func TestPhaseClampsExtraMaterial(t *testing.T) {
	var b = dragontoothmg.ParseFen("QQQQQQQQ/8/8/8/8/8/8/k6K w - - 0 1")
	if phase := Phase(&b); phase != 0 {
		t.Error(phase)
	}
}

func TestPhaseBadFEN(t *testing.T) {
	if _, err := FromFEN("not a fen"); err == nil {
		t.Error("expected error")
	}
}

// Removing any knight, bishop, rook or queen must never lower the phase.
func TestPhaseMonotonic(t *testing.T) {
	var b = dragontoothmg.ParseFen(domain.InitialPositionFen)
	var prev = Phase(&b)
	for {
		var sq, ok = firstNonPawnPiece(&b)
		if !ok {
			break
		}
		removePiece(&b, sq)
		var cur = Phase(&b)
		if cur < prev {
			t.Fatal(sq, prev, cur)
		}
		prev = cur
	}
	if prev != 256 {
		t.Error("expected bare kings phase", prev)
	}
}

func TestPhaseMonotonicEveryPiece(t *testing.T) {
	var start = dragontoothmg.ParseFen("r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")
	var base = Phase(&start)
	var pieces = start.White.Knights | start.White.Bishops | start.White.Rooks | start.White.Queens |
		start.Black.Knights | start.Black.Bishops | start.Black.Rooks | start.Black.Queens
	for sq := uint8(0); sq < 64; sq++ {
		if pieces&(uint64(1)<<sq) == 0 {
			continue
		}
		var b = start
		removePiece(&b, sq)
		if Phase(&b) < base {
			t.Error(sq, base, Phase(&b))
		}
	}
}

func firstNonPawnPiece(b *dragontoothmg.Board) (uint8, bool) {
	var pieces = b.White.Knights | b.White.Bishops | b.White.Rooks | b.White.Queens |
		b.Black.Knights | b.Black.Bishops | b.Black.Rooks | b.Black.Queens
	for sq := uint8(0); sq < 64; sq++ {
		if pieces&(uint64(1)<<sq) != 0 {
			return sq, true
		}
	}
	return 0, false
}

func removePiece(b *dragontoothmg.Board, sq uint8) {
	var mask = ^(uint64(1) << sq)
	for _, bb := range []*dragontoothmg.Bitboards{&b.White, &b.Black} {
		bb.Knights &= mask
		bb.Bishops &= mask
		bb.Rooks &= mask
		bb.Queens &= mask
		bb.All &= mask
	}
}
