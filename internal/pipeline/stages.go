package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ChizhovVadim/dataforge/internal/compress"
	"github.com/ChizhovVadim/dataforge/internal/dataset"
	"github.com/ChizhovVadim/dataforge/internal/report"
)

const (
	timestampLayout = "20060102_150405"

	RawPrefix      = "Raw Labelled FENs"
	SampledPrefix  = "Sampled Labelled FENs"
	QuietPrefix    = "Quiet Labelled"
	TrainingPrefix = "Training Data"

	StageExtract     = "extract"
	StageSampleGames = "sample-games"
	StageQuiet       = "quiet"
	StageBuild       = "build"
)

// Stage describes one completed file-to-file step.
type Stage struct {
	Name       string
	Input      string
	Output     string
	Positions  int
	StartedAt  time.Time
	FinishedAt time.Time
}

// OutputPath returns "<dir>/<prefix>_<yyyymmdd_hhmmss><ext>".
func OutputPath(dir, prefix, ext string, now time.Time) string {
	return filepath.Join(dir, prefix+"_"+now.Format(timestampLayout)+ext)
}

func newOutputPath(dir, prefix, ext string, compressed bool, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if compressed {
		ext += compress.Ext
	}
	return OutputPath(dir, prefix, ext, now), nil
}

type StageFiles struct {
	OutputDir string
	Compress  bool
	// Now defaults to time.Now.
	Now func() time.Time
}

func (sf *StageFiles) now() time.Time {
	if sf.Now != nil {
		return sf.Now()
	}
	return time.Now()
}

func (sf *StageFiles) begin(name, input string) Stage {
	return Stage{Name: name, Input: input, StartedAt: sf.now()}
}

func (sf *StageFiles) finish(stage Stage, prefix, ext string, save func(path string) error) (Stage, error) {
	var path, err = newOutputPath(sf.OutputDir, prefix, ext, sf.Compress, stage.StartedAt)
	if err != nil {
		return Stage{}, err
	}
	if err := save(path); err != nil {
		return Stage{}, err
	}
	stage.Output = path
	stage.FinishedAt = sf.now()
	return stage, nil
}

func ExtractStage(ctx context.Context, cfg ExtractConfig, files StageFiles) (Stage, error) {
	var stage = files.begin(StageExtract, cfg.GamesFolder)
	var records, err = Extract(ctx, cfg)
	if err != nil {
		return Stage{}, err
	}
	stage.Positions = len(records)
	return files.finish(stage, RawPrefix, ".csv", func(path string) error {
		return dataset.SaveRecords(path, records, true)
	})
}

func SampleGamesStage(inputPath string, frac float64, seed uint64, files StageFiles) (Stage, error) {
	var stage = files.begin(StageSampleGames, inputPath)
	var records, err = dataset.LoadRecords(inputPath)
	if err != nil {
		return Stage{}, err
	}
	sample, err := SampleGames(records, frac, seed)
	if err != nil {
		return Stage{}, err
	}
	if len(sample) == 0 {
		return Stage{}, fmt.Errorf("%w: nothing sampled from %v", ErrNoPositions, inputPath)
	}
	stage.Positions = len(sample)
	return files.finish(stage, SampledPrefix, ".csv", func(path string) error {
		return dataset.SaveRecords(path, sample, true)
	})
}

func QuietStage(ctx context.Context, inputPath string, cfg QuietConfig, files StageFiles) (Stage, error) {
	var stage = files.begin(StageQuiet, inputPath)
	var records, err = dataset.LoadRecords(inputPath)
	if err != nil {
		return Stage{}, err
	}
	result, _, err := Quiet(ctx, records, cfg)
	if err != nil {
		return Stage{}, fmt.Errorf("%v: %w", inputPath, err)
	}
	stage.Positions = len(result)
	return files.finish(stage, QuietPrefix, ".csv", func(path string) error {
		return dataset.SaveRecords(path, result, false)
	})
}

// BuildStage reads every CSV in quietFolder. When verify is not nil the
// distribution of the sample is printed to it.
func BuildStage(quietFolder string, cfg BuildConfig, verify io.Writer, files StageFiles) (Stage, error) {
	var stage = files.begin(StageBuild, quietFolder)
	var records, err = dataset.LoadRecordsDir(quietFolder)
	if err != nil {
		return Stage{}, err
	}
	res, err := Build(records, cfg)
	if err != nil {
		return Stage{}, err
	}
	if verify != nil {
		if err := report.Write(verify, report.NewTable(res.Sample.Cells, cfg.PhaseBins)); err != nil {
			return Stage{}, err
		}
	}
	stage.Positions = len(res.Records)
	return files.finish(stage, TrainingPrefix, ".epd", func(path string) error {
		return dataset.SaveEPD(path, res.Records)
	})
}
