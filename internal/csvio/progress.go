package csvio

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Progress prints one dot per Mark, throttled to at most one per second so
// fast chunk loops don't flood the terminal.
type Progress struct {
	W         io.Writer
	sometimes rate.Sometimes
	printed   bool
}

func NewProgress() *Progress {
	return &Progress{
		W:         os.Stdout,
		sometimes: rate.Sometimes{First: 1, Interval: time.Second},
	}
}

func (p *Progress) Mark() {
	p.sometimes.Do(func() {
		fmt.Fprint(p.W, ".")
		p.printed = true
	})
}

// Finish terminates the dot line, if any dots were printed.
func (p *Progress) Finish() {
	if p.printed {
		fmt.Fprintln(p.W)
	}
}
