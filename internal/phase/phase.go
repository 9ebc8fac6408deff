// Package phase computes the tapered game phase of a position:
// 0 for full opening material, 256 for bare kings.
package phase

import (
	"math/bits"

	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/constraints"
)

const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4

	TotalPhase = 4*KnightPhase + 4*BishopPhase + 4*RookPhase + 2*QueenPhase
)

func Phase(b *dragontoothmg.Board) int {
	var removed = TotalPhase
	removed -= bits.OnesCount64(b.White.Knights|b.Black.Knights) * KnightPhase
	removed -= bits.OnesCount64(b.White.Bishops|b.Black.Bishops) * BishopPhase
	removed -= bits.OnesCount64(b.White.Rooks|b.Black.Rooks) * RookPhase
	removed -= bits.OnesCount64(b.White.Queens|b.Black.Queens) * QueenPhase
	var phase = (removed*domain.MaxPhase + TotalPhase/2) / TotalPhase
	// promotions can push material above the starting budget
	return clamp(phase, domain.MinPhase, domain.MaxPhase)
}

func FromFEN(fen string) (int, error) {
	var b, err = domain.ParseBoard(fen)
	if err != nil {
		return 0, err
	}
	return Phase(&b), nil
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
