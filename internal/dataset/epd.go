package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ChizhovVadim/dataforge/internal/compress"
	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/ChizhovVadim/dataforge/internal/pgn"
)

// WriteEPD writes one "<fen> ; [<wdl>]" line per record.
func WriteEPD(w io.Writer, records []domain.Record) error {
	for i := range records {
		if _, err := fmt.Fprintf(w, "%v ; [%v]\n", records[i].Fen, records[i].WDL); err != nil {
			return err
		}
	}
	return nil
}

func SaveEPD(path string, records []domain.Record) error {
	file, err := compress.Create(path)
	if err != nil {
		return err
	}
	if err := WriteEPD(file, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadEPD accepts the "<fen> ; [<wdl>]" lines written by WriteEPD as well as
// the zurichess style `<fen> c9 "1-0";`.
func ReadEPD(r io.Reader) ([]domain.Record, error) {
	var result []domain.Record
	var scanner = bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		var s = strings.TrimSpace(scanner.Text())
		if s == "" {
			continue
		}
		record, err := parseEPDLine(s)
		if err != nil {
			return nil, fmt.Errorf("line %v: %w", line, err)
		}
		result = append(result, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func LoadEPD(path string) ([]domain.Record, error) {
	file, err := compress.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	records, err := ReadEPD(file)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return records, nil
}

func parseEPDLine(s string) (domain.Record, error) {
	if index := strings.LastIndex(s, ";"); index >= 0 && strings.Contains(s[index:], "[") {
		var fen = strings.TrimSpace(s[:index])
		var label = strings.TrimSpace(s[index+1:])
		label = strings.TrimSuffix(strings.TrimPrefix(label, "["), "]")
		wdl, err := domain.ParseOutcome(label)
		if err != nil {
			return domain.Record{}, err
		}
		var record = domain.Record{Fen: fen, WDL: wdl}
		return record, record.Validate()
	}

	var index = strings.Index(s, "\"")
	if index < 0 {
		return domain.Record{}, fmt.Errorf("%w: epd label not found %q", domain.ErrValidation, s)
	}
	var fields = strings.Fields(s[:index])
	if len(fields) > 0 && fields[len(fields)-1] == "c9" {
		fields = fields[:len(fields)-1]
	}
	var label = strings.TrimRight(s[index+1:], "\";")
	wdl, ok := pgn.ResultOutcome(label)
	if !ok {
		return domain.Record{}, fmt.Errorf("%w: bad epd result %q", domain.ErrValidation, s)
	}
	var record = domain.Record{Fen: strings.Join(fields, " "), WDL: wdl}
	return record, record.Validate()
}
