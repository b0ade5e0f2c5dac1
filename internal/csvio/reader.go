package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ChunkReader reads a headered CSV file in bounded row batches.
type ChunkReader struct {
	closer io.Closer
	r      *csv.Reader
	header []string
	done   bool
}

func NewChunkReader(path string) (*ChunkReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	cr, err := newChunkReader(f, f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return cr, nil
}

// Bytes 0x81, 0x8D, 0x8F, 0x90 and 0x9D have no assignment in Windows-1252;
// a file containing them was not written with that code page.
var cp1252Undefined = []byte{0x81, 0x8d, 0x8f, 0x90, 0x9d}

// NewLegacyChunkReader reads a file that is not UTF-8: it decodes as
// Windows-1252, falling back to Latin-1 when the bytes cannot be cp1252.
// The second return value names the encoding that was used.
func NewLegacyChunkReader(path string) (*ChunkReader, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}

	enc := "windows-1252"
	cm := charmap.Windows1252
	for _, b := range cp1252Undefined {
		if bytes.IndexByte(raw, b) >= 0 {
			enc = "latin-1"
			cm = charmap.ISO8859_1
			break
		}
	}

	decoded, _, err := transform.Bytes(cm.NewDecoder(), raw)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s as %s: %w", path, enc, err)
	}

	cr, err := newChunkReader(bytes.NewReader(decoded), nil)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return cr, enc, nil
}

func newChunkReader(r io.Reader, closer io.Closer) (*ChunkReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &ChunkReader{closer: closer, r: cr, header: header}, nil
}

func (c *ChunkReader) Header() []string {
	return c.header
}

// Next returns up to n records. It returns io.EOF only once all records
// have been consumed by previous calls.
func (c *ChunkReader) Next(n int) ([][]string, error) {
	if c.done {
		return nil, io.EOF
	}

	var records [][]string
	for len(records) < n {
		record, err := c.r.Read()
		if err == io.EOF {
			c.done = true
			if len(records) == 0 {
				return nil, io.EOF
			}
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (c *ChunkReader) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// RequireColumns verifies every column is present in the header, returning
// an error that lists both the missing names and what was actually found.
func RequireColumns(header []string, required []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, r := range required {
		if !have[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns %v (file has %v)", missing, header)
	}
	return nil
}

// Indices returns the position of each named column in the header. A name
// appearing twice in the header resolves to its first position.
func Indices(header []string, names []string) ([]int, error) {
	if err := RequireColumns(header, names); err != nil {
		return nil, err
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}
	indices := make([]int, len(names))
	for i, name := range names {
		indices[i] = pos[name]
	}
	return indices, nil
}

// UniqueColumn streams one column of a large file and returns its distinct
// values in first-seen order, plus the number of rows read.
func UniqueColumn(path, column string, chunkSize int) ([]string, int64, error) {
	r, err := NewChunkReader(path)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	indices, err := Indices(r.Header(), []string{column})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	col := indices[0]

	var values []string
	seen := make(map[string]bool)
	var rows int64
	for {
		batch, err := r.Next(chunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rows, err
		}
		for _, record := range batch {
			v := Field(record, col)
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
		rows += int64(len(batch))
	}
	return values, rows, nil
}
