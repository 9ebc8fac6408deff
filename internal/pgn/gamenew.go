package pgn

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChizhovVadim/dataforge/internal/compress"
)

const maxLineSize = 1 << 20

// WalkPgnFile calls onGame for every game in a .pgn or .pgn.zst file.
// An error returned by onGame stops the walk.
func WalkPgnFile(
	path string,
	onGame func(GameRaw) error,
) error {
	file, err := compress.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WalkPgn(file, onGame)
}

func WalkPgn(
	r io.Reader,
	onGame func(GameRaw) error,
) error {
	var tags []string
	var body = &strings.Builder{}
	var hasBody bool
	var tagsClosed bool

	var flush = func() error {
		if len(tags) == 0 || strings.TrimSpace(body.String()) == "" {
			return nil
		}
		return onGame(GameRaw{
			Tags:    parseTags(tags),
			TagsRaw: tags,
			BodyRaw: body.String(),
		})
	}

	var scanner = bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		var line = strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "[") {
			if hasBody {
				if err := flush(); err != nil {
					return err
				}
				hasBody = false
				tags = nil
				body.Reset()
			} else if tagsClosed {
				// tag section without moves
				tags = nil
				body.Reset()
			}
			tagsClosed = false
			tags = append(tags, line)
		} else {
			if strings.TrimSpace(line) != "" {
				hasBody = true
			} else if len(tags) != 0 {
				tagsClosed = true
			}
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if hasBody {
		return flush()
	}
	return nil
}

// Files lists .pgn and .pgn.zst files in the folder, in name order.
func Files(folderPath string) ([]string, error) {
	dirs, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, err
	}
	var result []string
	for _, de := range dirs {
		if !de.IsDir() && filepath.Ext(compress.TrimExt(de.Name())) == ".pgn" {
			result = append(result, filepath.Join(folderPath, de.Name()))
		}
	}
	return result, nil
}
