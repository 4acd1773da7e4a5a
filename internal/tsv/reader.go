package tsv

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineBytes bounds a single source row. The IMDb dumps keep rows well
// under this, but the default bufio limit of 64K is too tight for some
// characters fields.
const maxLineBytes = 4 * 1024 * 1024

// Reader streams rows out of one gzip-compressed tab-separated file.
// The first line of the file is the column header.
type Reader struct {
	file    *os.File
	gz      *gzip.Reader
	scanner *bufio.Scanner
	header  []string
}

// OpenFile opens a gzipped TSV file and consumes its header line.
// A missing file or an unreadable gzip stream is returned as an error;
// callers treat both as fatal for the phase.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read gzip header of %s: %w", path, err)
	}

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	if !scanner.Scan() {
		err := scanner.Err()
		gz.Close()
		f.Close()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	return &Reader{
		file:    f,
		gz:      gz,
		scanner: scanner,
		header:  strings.Split(scanner.Text(), "\t"),
	}, nil
}

// Header returns the column names from the file's first line.
func (r *Reader) Header() []string {
	return r.header
}

// Read returns the next row split into fields, or io.EOF at end of stream.
func (r *Reader) Read() ([]string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		return nil, io.EOF
	}
	return strings.Split(r.scanner.Text(), "\t"), nil
}

// Close closes the gzip stream and the underlying file
func (r *Reader) Close() error {
	gzErr := r.gz.Close()
	fileErr := r.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}
