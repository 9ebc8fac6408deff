package pgn

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/notnil/chess"
)

// ParseGame replays the mainline of the game. Comments, NAGs and variations
// are handled by the SAN decoder.
func ParseGame(raw GameRaw) (Game, error) {
	var text = raw.String()
	opt, err := chess.PGN(strings.NewReader(text))
	if err != nil {
		return Game{}, fmt.Errorf("parse pgn failed: %w", err)
	}
	var game = chess.NewGame(opt)

	var positions = game.Positions()
	var moves = game.Moves()
	if len(positions) < len(moves) {
		return Game{}, fmt.Errorf("positions %v less than moves %v", len(positions), len(moves))
	}
	var fens = make([]string, 0, len(moves))
	for i := range moves {
		fens = append(fens, positions[i].String())
	}

	var result, _ = raw.TagValue("Result")
	return Game{
		Tags:   raw.Tags,
		Result: result,
		Fens:   fens,
	}, nil
}

func (g GameRaw) String() string {
	var sb = &strings.Builder{}
	for _, tag := range g.TagsRaw {
		sb.WriteString(tag)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(g.BodyRaw))
	sb.WriteString("\n")
	return sb.String()
}

func parseTags(lines []string) []Tag {
	var tags = make([]Tag, 0, len(lines))
	for _, line := range lines {
		var m = tagPairRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		tags = append(tags, Tag{Key: m[1], Value: m[2]})
	}
	return tags
}

func tagValue(tags []Tag, key string) (string, bool) {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

var tagPairRegex = regexp.MustCompile(`^\[(\w+)\s+"(.*)"\]\s*$`)
