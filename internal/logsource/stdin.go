package logsource

import (
	"context"
	"io"
	"os"
)

// StdinSource reads piped standard input once.
type StdinSource struct {
	r        io.Reader
	maxBytes int64
}

// NewStdinSource creates a StdinSource over os.Stdin, or over r when given.
func NewStdinSource(maxBytes int64, r ...io.Reader) *StdinSource {
	var in io.Reader = os.Stdin
	if len(r) > 0 && r[0] != nil {
		in = r[0]
	}
	return &StdinSource{r: in, maxBytes: limit(maxBytes)}
}

func (s *StdinSource) Name() string { return "stdin" }

func (s *StdinSource) Read(ctx context.Context) ([]byte, error) {
	return ReadAll(ctx, s.r, s.maxBytes)
}

// StdinPiped reports whether stdin is a pipe or file rather than a terminal.
func StdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
