package pgn

import "github.com/ChizhovVadim/dataforge/internal/domain"

const (
	GameResultNone     = "*"
	GameResultWhiteWin = "1-0"
	GameResultBlackWin = "0-1"
	GameResultDraw     = "1/2-1/2"
)

type Tag struct {
	Key   string
	Value string
}

// GameRaw is the unparsed text of a single game as it appears in the file.
type GameRaw struct {
	Tags    []Tag
	TagsRaw []string
	BodyRaw string
}

type Game struct {
	Tags   []Tag
	Result string
	// Fens holds the position before each mainline move.
	Fens []string
}

func (g *Game) TagValue(key string) (string, bool) {
	return tagValue(g.Tags, key)
}

func (g GameRaw) TagValue(key string) (string, bool) {
	return tagValue(g.Tags, key)
}

// ResultOutcome maps a game result to the white point of view outcome.
// Unfinished or unknown results are rejected.
func ResultOutcome(result string) (domain.Outcome, bool) {
	switch result {
	case GameResultWhiteWin:
		return domain.Win, true
	case GameResultBlackWin:
		return domain.Loss, true
	case GameResultDraw:
		return domain.Draw, true
	default:
		return 0, false
	}
}
