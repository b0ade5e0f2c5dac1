package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Sink is an append-only CSV writer for chunked stages: the file is opened
// once, the header is written exactly once, and each batch is flushed as it
// is written so a failed stage leaves its partial output on disk.
type Sink struct {
	f           *os.File
	w           *csv.Writer
	path        string
	wroteHeader bool
	rows        int64
}

func NewSink(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &Sink{f: f, w: csv.NewWriter(f), path: path}, nil
}

func (s *Sink) WriteHeader(header []string) error {
	if s.wroteHeader {
		return fmt.Errorf("header already written to %s", s.path)
	}
	if err := s.w.Write(header); err != nil {
		return fmt.Errorf("writing header to %s: %w", s.path, err)
	}
	s.wroteHeader = true
	return nil
}

func (s *Sink) WriteAll(records [][]string) error {
	if err := s.w.WriteAll(records); err != nil {
		return fmt.Errorf("writing to %s: %w", s.path, err)
	}
	s.rows += int64(len(records))
	return nil
}

// Rows returns the number of data records written so far, excluding the header.
func (s *Sink) Rows() int64 {
	return s.rows
}

func (s *Sink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return fmt.Errorf("flushing %s: %w", s.path, err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", s.path, err)
	}
	return nil
}
