// Package compress opens and creates data files, transparently handling
// zstd compression for paths ending in ".zst".
package compress

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const Ext = ".zst"

func IsCompressed(path string) bool {
	return strings.HasSuffix(path, Ext)
}

// TrimExt removes the compression suffix, so "games.pgn.zst" has the
// logical extension ".pgn".
func TrimExt(path string) string {
	return strings.TrimSuffix(path, Ext)
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var result error
	for _, c := range rc.closers {
		if err := c(); err != nil && result == nil {
			result = err
		}
	}
	return result
}

func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return file, nil
	}
	dec, err := zstd.NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &readCloser{
		Reader: dec,
		closers: []func() error{
			func() error { dec.Close(); return nil },
			file.Close,
		},
	}, nil
}

type writeCloser struct {
	*bufio.Writer
	closers []func() error
}

func (wc *writeCloser) Close() error {
	var result = wc.Writer.Flush()
	for _, c := range wc.closers {
		if err := c(); err != nil && result == nil {
			result = err
		}
	}
	return result
}

// Create returns a buffered writer. Close must be called to flush data and
// finish the zstd frame.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return &writeCloser{
			Writer:  bufio.NewWriter(file),
			closers: []func() error{file.Close},
		}, nil
	}
	enc, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		file.Close()
		return nil, err
	}
	return &writeCloser{
		Writer:  bufio.NewWriter(enc),
		closers: []func() error{enc.Close, file.Close},
	}, nil
}
