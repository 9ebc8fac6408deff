package domain

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ValidateFEN checks the notation before it reaches dragontoothmg, whose
// parser does not report errors. Each side must have exactly one king.
func ValidateFEN(fen string) error {
	if fen == "" {
		return fmt.Errorf("%w: missing fen", ErrValidation)
	}
	if _, err := chess.FEN(fen); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	var placement = strings.Fields(fen)[0]
	if strings.Count(placement, "K") != 1 || strings.Count(placement, "k") != 1 {
		return fmt.Errorf("%w: fen %q needs one king per side", ErrValidation, fen)
	}
	return nil
}

func ParseBoard(fen string) (dragontoothmg.Board, error) {
	if err := ValidateFEN(fen); err != nil {
		return dragontoothmg.Board{}, err
	}
	return dragontoothmg.ParseFen(fen), nil
}
