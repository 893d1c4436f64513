package logsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultMaxBytes bounds a single load when no limit is configured.
const DefaultMaxBytes = 32 << 20

// ErrTooLarge is returned when the input exceeds the configured limit.
var ErrTooLarge = errors.New("log file exceeds size limit")

// Source supplies the complete content of one log file.
type Source interface {
	Name() string                             // display name, e.g. file base name or "stdin"
	Read(ctx context.Context) ([]byte, error) // whole content, bounded by the size limit
}

// FileSource reads a local file.
type FileSource struct {
	path     string
	maxBytes int64
}

// NewFileSource creates a FileSource. maxBytes <= 0 uses DefaultMaxBytes.
func NewFileSource(path string, maxBytes int64) *FileSource {
	return &FileSource{path: path, maxBytes: limit(maxBytes)}
}

func (s *FileSource) Name() string { return filepath.Base(s.path) }

// Path returns the file path.
func (s *FileSource) Path() string { return s.path }

func (s *FileSource) Read(ctx context.Context) ([]byte, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	if st, err := f.Stat(); err == nil {
		if st.IsDir() {
			return nil, fmt.Errorf("%s is a directory", s.path)
		}
		if st.Size() > s.maxBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, s.Name(), st.Size(), s.maxBytes)
		}
	}
	return ReadAll(ctx, f, s.maxBytes)
}

func limit(maxBytes int64) int64 {
	if maxBytes <= 0 {
		return DefaultMaxBytes
	}
	return maxBytes
}

// ReadAll reads r to EOF in a background goroutine so the caller can stop
// waiting when ctx is done. It fails with ErrTooLarge past maxBytes.
// On cancellation r is closed when it is an io.Closer, which unblocks the
// pending read; a reader that cannot be closed keeps its goroutine until the
// read returns.
func ReadAll(ctx context.Context, r io.Reader, maxBytes int64) ([]byte, error) {
	maxBytes = limit(maxBytes)

	type readResult struct {
		data []byte
		err  error
	}
	results := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
		results <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, fmt.Errorf("reading log content: %w", res.err)
		}
		if int64(len(res.data)) > maxBytes {
			return nil, fmt.Errorf("%w (limit %d bytes)", ErrTooLarge, maxBytes)
		}
		return res.data, nil
	}
}
