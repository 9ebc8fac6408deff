// Package sampling draws a sample whose expected joint distribution over
// (phase bin, outcome) is uniform.
//
// The work is split in two stages: counting the joint keys over the whole
// dataset, then weighting and drawing. Nothing is emitted before both stages
// complete.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/ChizhovVadim/dataforge/internal/domain"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat/sampleuv"
)

const DefaultPhaseBins = 3

var (
	ErrInfeasible = errors.New("sample size exceeds eligible pool")
	ErrEmptyInput = errors.New("no eligible records")
)

type Options struct {
	Samples   int
	PhaseBins int
	Replace   bool
	Seed      uint64
}

type Key struct {
	Bin int
	WDL domain.Outcome
}

type Cell struct {
	Key
	Count int
}

type Result struct {
	Records  []domain.PhasedRecord
	Excluded int
	Cells    []Cell
}

func Resample(records []domain.PhasedRecord, opts Options) (Result, error) {
	if err := validate(records, opts); err != nil {
		return Result{}, err
	}

	var counts = countKeys(records, opts.PhaseBins)
	var weights, eligible, excluded = inverseDensityWeights(records, counts, opts.PhaseBins)
	if eligible == 0 {
		return Result{}, ErrEmptyInput
	}
	if !opts.Replace && opts.Samples > eligible {
		return Result{}, fmt.Errorf("%w: requested %v, eligible %v", ErrInfeasible, opts.Samples, eligible)
	}

	var sampler = sampleuv.NewWeighted(weights, rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	var sample = make([]domain.PhasedRecord, 0, opts.Samples)
	for len(sample) < opts.Samples {
		var idx, ok = sampler.Take()
		if !ok {
			return Result{}, fmt.Errorf("%w: pool exhausted after %v draws", ErrInfeasible, len(sample))
		}
		sample = append(sample, records[idx])
		if opts.Replace {
			sampler.Reweight(idx, weights[idx])
		}
	}

	return Result{
		Records:  sample,
		Excluded: excluded,
		Cells:    Histogram(sample, opts.PhaseBins),
	}, nil
}

func validate(records []domain.PhasedRecord, opts Options) error {
	if opts.Samples <= 0 {
		return fmt.Errorf("%w: sample size %v must be positive", domain.ErrValidation, opts.Samples)
	}
	if opts.PhaseBins <= 0 {
		return fmt.Errorf("%w: phase bins %v must be positive", domain.ErrValidation, opts.PhaseBins)
	}
	if len(records) == 0 {
		return ErrEmptyInput
	}
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("record %v: %w", i, err)
		}
	}
	return nil
}

// Bin maps a phase to one of bins equal-width intervals over [0, 256].
// Intervals are closed on the right, and phase 0 belongs to the first one.
func Bin(phase, bins int) int {
	var b = (phase*bins+domain.MaxPhase-1)/domain.MaxPhase - 1
	return clamp(b, 0, bins-1)
}

func KeyOf(r *domain.PhasedRecord, bins int) Key {
	return Key{Bin: Bin(r.Phase, bins), WDL: r.WDL}
}

func countKeys(records []domain.PhasedRecord, bins int) map[Key]int {
	var counts = make(map[Key]int)
	for i := range records {
		counts[KeyOf(&records[i], bins)]++
	}
	return counts
}

// inverseDensityWeights gives every record 1/count of its key, normalized
// over all records. Records without a usable weight get 0 and are counted
// as excluded.
func inverseDensityWeights(records []domain.PhasedRecord, counts map[Key]int, bins int) ([]float64, int, int) {
	var weights = make([]float64, len(records))
	var total float64
	for i := range records {
		var count = counts[KeyOf(&records[i], bins)]
		if count > 0 {
			weights[i] = 1 / float64(count)
			total += weights[i]
		}
	}
	var eligible, excluded int
	for i := range weights {
		if total > 0 {
			weights[i] /= total
		}
		var w = weights[i]
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 || total <= 0 {
			weights[i] = 0
			excluded++
			continue
		}
		eligible++
	}
	return weights, eligible, excluded
}

// Histogram counts records per (bin, outcome), ordered by bin then outcome.
func Histogram(records []domain.PhasedRecord, bins int) []Cell {
	var counts = countKeys(records, bins)
	var cells = make([]Cell, 0, len(counts))
	for key, count := range counts {
		cells = append(cells, Cell{Key: key, Count: count})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Bin != cells[j].Bin {
			return cells[i].Bin < cells[j].Bin
		}
		return cells[i].WDL < cells[j].WDL
	})
	return cells
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
