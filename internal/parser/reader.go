package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// maxLineBytes bounds a single log line. Lines beyond this are a sign of
// corruption rather than real traffic.
const maxLineBytes = 1 << 20

// LineReader streams a log file line by line. Files ending in .gz are
// decompressed transparently. Invalid byte sequences are replaced with
// U+FFFD instead of aborting the scan.
type LineReader struct {
	file    *os.File
	gz      *gzip.Reader
	scanner *bufio.Scanner
}

// OpenLog opens an access or error log for streaming.
func OpenLog(path string) (*LineReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}

	lr := &LineReader{file: f}
	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip log %s: %w", path, err)
		}
		lr.gz = gz
		src = gz
	}

	lr.scanner = bufio.NewScanner(src)
	lr.scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return lr, nil
}

// Scan advances to the next line.
func (lr *LineReader) Scan() bool {
	return lr.scanner.Scan()
}

// Text returns the current line with invalid bytes replaced.
func (lr *LineReader) Text() string {
	return strings.ToValidUTF8(lr.scanner.Text(), "�")
}

// Err returns the first non-EOF error encountered while scanning.
func (lr *LineReader) Err() error {
	return lr.scanner.Err()
}

// Close releases the underlying file and decompressor.
func (lr *LineReader) Close() error {
	if lr.gz != nil {
		lr.gz.Close()
	}
	return lr.file.Close()
}
