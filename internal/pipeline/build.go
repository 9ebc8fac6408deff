package pipeline

import (
	"fmt"

	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/ChizhovVadim/dataforge/internal/phase"
	"github.com/ChizhovVadim/dataforge/internal/sampling"
	"github.com/rs/zerolog"
)

type BuildConfig struct {
	Samples   int
	PhaseBins int
	Replace   bool
	Seed      uint64
	Logger    zerolog.Logger
}

type BuildResult struct {
	Records    []domain.Record
	Unique     int
	Duplicates int
	Sample     sampling.Result
	// Annotated holds the deduplicated records with their phase.
	Annotated []domain.PhasedRecord
}

// Build deduplicates by fen (first occurrence kept), annotates phase,
// resamples to a balanced (phase bin, outcome) distribution and shuffles.
func Build(records []domain.Record, cfg BuildConfig) (BuildResult, error) {
	var log = cfg.Logger
	var unique = Dedupe(records)
	log.Info().
		Int("records", len(records)).
		Int("unique", len(unique)).
		Msg("dedupe")

	annotated, err := Annotate(unique)
	if err != nil {
		return BuildResult{}, err
	}

	sample, err := sampling.Resample(annotated, sampling.Options{
		Samples:   cfg.Samples,
		PhaseBins: cfg.PhaseBins,
		Replace:   cfg.Replace,
		Seed:      cfg.Seed,
	})
	if err != nil {
		return BuildResult{}, err
	}
	if sample.Excluded != 0 {
		log.Warn().Int("excluded", sample.Excluded).Msg("records without weight")
	}

	var result = make([]domain.Record, len(sample.Records))
	for i := range sample.Records {
		result[i] = sample.Records[i].Record
	}
	var rnd = newRand(cfg.Seed + 1)
	rnd.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})

	log.Info().
		Int("samples", len(result)).
		Int("cells", len(sample.Cells)).
		Msg("resample")
	return BuildResult{
		Records:    result,
		Unique:     len(unique),
		Duplicates: len(records) - len(unique),
		Sample:     sample,
		Annotated:  annotated,
	}, nil
}

func Dedupe(records []domain.Record) []domain.Record {
	var repeats = make(map[string]struct{}, len(records))
	var result = make([]domain.Record, 0, len(records))
	for _, r := range records {
		if _, found := repeats[r.Fen]; found {
			continue
		}
		repeats[r.Fen] = struct{}{}
		result = append(result, r)
	}
	return result
}

func Annotate(records []domain.Record) ([]domain.PhasedRecord, error) {
	var result = make([]domain.PhasedRecord, len(records))
	for i := range records {
		var p, err = phase.FromFEN(records[i].Fen)
		if err != nil {
			return nil, fmt.Errorf("record %v: %w", i, err)
		}
		result[i] = domain.PhasedRecord{Record: records[i], Phase: p}
	}
	return result, nil
}
