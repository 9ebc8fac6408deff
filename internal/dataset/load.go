package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChizhovVadim/dataforge/internal/compress"
	"github.com/ChizhovVadim/dataforge/internal/domain"
)

const (
	ColumnGameID = "game_id"
	ColumnFen    = "fen"
	ColumnWDL    = "wdl"
)

var ErrNoFiles = errors.New("no dataset files")

// ReadRecords reads a labelled CSV. Columns are located by header name;
// game_id is optional.
func ReadRecords(r io.Reader) ([]domain.Record, error) {
	var reader = csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing header", domain.ErrValidation)
		}
		return nil, err
	}
	var gameIDIndex, fenIndex, wdlIndex = -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case ColumnGameID:
			gameIDIndex = i
		case ColumnFen:
			fenIndex = i
		case ColumnWDL:
			wdlIndex = i
		}
	}
	if fenIndex < 0 || wdlIndex < 0 {
		return nil, fmt.Errorf("%w: header %v must contain %v and %v",
			domain.ErrValidation, header, ColumnFen, ColumnWDL)
	}

	var result []domain.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		wdl, err := domain.ParseOutcome(strings.TrimSpace(row[wdlIndex]))
		if err != nil {
			return nil, fmt.Errorf("line %v: %w", line, err)
		}
		var record = domain.Record{
			Fen: strings.TrimSpace(row[fenIndex]),
			WDL: wdl,
		}
		if gameIDIndex >= 0 {
			record.GameID = row[gameIDIndex]
		}
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("line %v: %w", line, err)
		}
		result = append(result, record)
	}
	return result, nil
}

func LoadRecords(path string) ([]domain.Record, error) {
	file, err := compress.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	records, err := ReadRecords(file)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return records, nil
}

// LoadRecordsDir concatenates every CSV in the folder in name order.
func LoadRecordsDir(folderPath string) ([]domain.Record, error) {
	files, err := csvFiles(folderPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoFiles, folderPath)
	}
	var result []domain.Record
	for _, path := range files {
		records, err := LoadRecords(path)
		if err != nil {
			return nil, err
		}
		result = append(result, records...)
	}
	return result, nil
}

func csvFiles(folderPath string) ([]string, error) {
	dirs, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, err
	}
	var result []string
	for _, de := range dirs {
		if !de.IsDir() && filepath.Ext(compress.TrimExt(de.Name())) == ".csv" {
			result = append(result, filepath.Join(folderPath, de.Name()))
		}
	}
	return result, nil
}
