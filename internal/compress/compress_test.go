package compress

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	var dir = t.TempDir()
	const content = "4k3/8/8/8/8/8/8/4K3 w - - 0 1 ; [0.5]\n"
	for _, name := range []string{"plain.epd", "packed.epd.zst"} {
		var path = filepath.Join(dir, name)
		w, err := Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = io.WriteString(w, content); err != nil {
			t.Fatal(err)
		}
		if err = w.Close(); err != nil {
			t.Fatal(err)
		}

		r, err := Open(path)
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != content {
			t.Error(name, string(data))
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, "packed.epd.zst"))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) == content {
		t.Error("zst file is not compressed")
	}
}

func TestTrimExt(t *testing.T) {
	var tests = []struct {
		path, result string
		compressed   bool
	}{
		{"games.pgn", "games.pgn", false},
		{"games.pgn.zst", "games.pgn", true},
		{"dir/data.csv.zst", "dir/data.csv", true},
	}
	for i, test := range tests {
		if TrimExt(test.path) != test.result || IsCompressed(test.path) != test.compressed {
			t.Error(i, test)
		}
	}
}
