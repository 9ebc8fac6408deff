package domain

import (
	"errors"
	"testing"
)

func TestParseBoard(t *testing.T) {
	var tests = []struct {
		fen string
		ok  bool
	}{
		{InitialPositionFen, true},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"", false},
		{"not a fen", false},
		// no kings at all
		{"8/8/8/8/8/8/8/8 w - - 0 1", false},
		// white king missing
		{"4k3/8/8/8/8/8/8/8 w - - 0 1", false},
		// black king missing
		{"8/8/8/8/8/8/8/4K3 b - - 0 1", false},
		// two white kings
		{"4k3/8/8/8/8/8/8/K3K3 w - - 0 1", false},
	}
	for i, test := range tests {
		var b, err = ParseBoard(test.fen)
		if test.ok {
			if err != nil {
				t.Error(i, test, err)
				continue
			}
			if b.OurKingInCheck() {
				t.Error(i, test, "unexpected check")
			}
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Error(i, test, err)
		}
	}
}
