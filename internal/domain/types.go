package domain

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	MinPhase = 0
	MaxPhase = 256
)

var ErrValidation = errors.New("validation failed")

// Outcome is the game result attached to a position: 0 loss, 0.5 draw, 1 win
// (from White's point of view).
type Outcome float64

const (
	Loss Outcome = 0
	Draw Outcome = 0.5
	Win  Outcome = 1
)

func (o Outcome) Valid() bool {
	return o == Loss || o == Draw || o == Win
}

// String prints the outcome the way it is written to training files: 0, 0.5, 1.
func (o Outcome) String() string {
	return strconv.FormatFloat(float64(o), 'f', -1, 64)
}

func ParseOutcome(s string) (Outcome, error) {
	var v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad wdl %q", ErrValidation, s)
	}
	var o = Outcome(v)
	if !o.Valid() {
		return 0, fmt.Errorf("%w: wdl %v not in {0, 0.5, 1}", ErrValidation, s)
	}
	return o, nil
}

type Record struct {
	GameID string
	Fen    string
	WDL    Outcome
}

func (r Record) Validate() error {
	if r.Fen == "" {
		return fmt.Errorf("%w: missing fen", ErrValidation)
	}
	if !r.WDL.Valid() {
		return fmt.Errorf("%w: wdl %v not in {0, 0.5, 1}", ErrValidation, float64(r.WDL))
	}
	return nil
}

type PhasedRecord struct {
	Record
	Phase int
}

func (r PhasedRecord) Validate() error {
	if err := r.Record.Validate(); err != nil {
		return err
	}
	if r.Phase < MinPhase || r.Phase > MaxPhase {
		return fmt.Errorf("%w: phase %v out of [%v, %v]", ErrValidation, r.Phase, MinPhase, MaxPhase)
	}
	return nil
}
