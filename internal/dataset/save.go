package dataset

import (
	"encoding/csv"
	"io"

	"github.com/ChizhovVadim/dataforge/internal/compress"
	"github.com/ChizhovVadim/dataforge/internal/domain"
)

func WriteRecords(w io.Writer, records []domain.Record, withGameID bool) error {
	var writer = csv.NewWriter(w)
	var row []string
	if withGameID {
		row = []string{ColumnGameID, ColumnFen, ColumnWDL}
	} else {
		row = []string{ColumnFen, ColumnWDL}
	}
	if err := writer.Write(row); err != nil {
		return err
	}
	for i := range records {
		var r = &records[i]
		if withGameID {
			row = append(row[:0], r.GameID, r.Fen, r.WDL.String())
		} else {
			row = append(row[:0], r.Fen, r.WDL.String())
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func SaveRecords(path string, records []domain.Record, withGameID bool) error {
	file, err := compress.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRecords(file, records, withGameID); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
