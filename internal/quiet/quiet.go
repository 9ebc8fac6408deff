package quiet

import (
	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/dylhunn/dragontoothmg"
)

const DefaultMaxDepth = 10

// QuietService is not safe for concurrent use: every worker builds its own.
type QuietService struct {
	maxDepth int
	nodes    int
	result   dragontoothmg.Board
	stack    []struct {
		position dragontoothmg.Board
	}
}

func NewQuietService(maxDepth int) *QuietService {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &QuietService{
		maxDepth: maxDepth,
		stack: make([]struct {
			position dragontoothmg.Board
		}, maxDepth+1),
	}
}

// IsQuiet reports whether the side to move is not in check and has no
// capture. Promotions do not matter.
func IsQuiet(p *dragontoothmg.Board) bool {
	if p.OurKingInCheck() {
		return false
	}
	for _, move := range p.GenerateLegalMoves() {
		if isCapture(p, move) {
			return false
		}
	}
	return true
}

// Resolve searches forcing lines (all evasions in check, captures otherwise)
// for the first quiet position within maxDepth plies.
// On failure the original position is returned.
func Resolve(p *dragontoothmg.Board, maxDepth int) (bool, dragontoothmg.Board) {
	return NewQuietService(maxDepth).Resolve(p)
}

func (qs *QuietService) IsQuiet(p *dragontoothmg.Board) bool {
	return IsQuiet(p)
}

func (qs *QuietService) Resolve(p *dragontoothmg.Board) (bool, dragontoothmg.Board) {
	qs.nodes = 0
	if IsQuiet(p) {
		return true, *p
	}
	qs.stack[0].position = *p
	if qs.search(0, qs.maxDepth) {
		return true, qs.result
	}
	return false, *p
}

// ResolveFEN returns the fen of the quiet position, or the input fen when
// no quiet position was found.
func (qs *QuietService) ResolveFEN(fen string) (bool, string, error) {
	var b, err = domain.ParseBoard(fen)
	if err != nil {
		return false, fen, err
	}
	var ok, result = qs.Resolve(&b)
	if !ok {
		return false, fen, nil
	}
	if result == b {
		return true, fen, nil
	}
	return true, result.ToFen(), nil
}

// Nodes returns the number of positions visited by the last Resolve.
func (qs *QuietService) Nodes() int {
	return qs.nodes
}

func (qs *QuietService) search(height, depth int) bool {
	qs.nodes++
	var pos = &qs.stack[height].position
	if IsQuiet(pos) {
		qs.result = *pos
		return true
	}
	if depth == 0 {
		return false
	}
	var inCheck = pos.OurKingInCheck()
	var child = &qs.stack[height+1].position
	for _, move := range pos.GenerateLegalMoves() {
		if !inCheck && !isCapture(pos, move) {
			continue
		}
		*child = *pos
		child.Apply(move)
		if qs.search(height+1, depth-1) {
			return true
		}
	}
	return false
}

// isCapture does not rely on dragontoothmg.IsCapture: with no en passant
// square the board stores a1, so a pawn push to a1 would count.
func isCapture(p *dragontoothmg.Board, move dragontoothmg.Move) bool {
	var us, them = &p.White, &p.Black
	if !p.Wtomove {
		us, them = them, us
	}
	var from, to = move.From(), move.To()
	if them.All&(uint64(1)<<to) != 0 {
		return true
	}
	// en passant: a pawn changing file onto an empty square
	return us.Pawns&(uint64(1)<<from) != 0 && from%8 != to%8
}
