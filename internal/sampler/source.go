package sampler

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/proftop/proftop/internal/model"
)

// SourceConfig holds tunable parameters for the line source.
type SourceConfig struct {
	BufferSize  int
	MaxLineSize int
	Log         zerolog.Logger
}

// Source streams lines from the sampler's stdout into a buffered channel.
// The channel is closed when the reader is exhausted, the line size limit
// is exceeded, or the context is cancelled.
type Source struct {
	ch     chan string
	cancel context.CancelFunc
	log    zerolog.Logger
}

// NewSource starts reading r in a background goroutine.
func NewSource(ctx context.Context, r io.Reader, conf ...SourceConfig) *Source {
	bufferSize := model.DefaultSampleBuffer
	maxLineSize := model.DefaultMaxLineSize
	log := zerolog.Nop()
	if len(conf) > 0 {
		if conf[0].BufferSize > 0 {
			bufferSize = conf[0].BufferSize
		}
		if conf[0].MaxLineSize > 0 {
			maxLineSize = conf[0].MaxLineSize
		}
		log = conf[0].Log
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Source{
		ch:     make(chan string, bufferSize),
		cancel: cancel,
		log:    log,
	}
	go s.read(ctx, r, maxLineSize)
	return s
}

func (s *Source) read(ctx context.Context, r io.Reader, maxLineSize int) {
	defer close(s.ch)

	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxLineSize)
	scanner.Buffer(buf, maxLineSize)

	// A single goroutine does the blocking scan; a done channel detects
	// cancellation without spawning a goroutine per line.
	type scanResult struct {
		line string
		ok   bool
	}
	results := make(chan scanResult)
	go func() {
		defer close(results)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			select {
			case results <- scanResult{line: line, ok: true}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				s.log.Error().Int("max_bytes", maxLineSize).Msg("sampler line exceeded max size, stopping source")
				return
			}
			s.log.Error().Err(err).Msg("sampler scanner error")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-results:
			if !ok || !r.ok {
				return
			}
			select {
			case s.ch <- r.line:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Lines returns the channel of raw sampler output lines, metadata included.
func (s *Source) Lines() <-chan string { return s.ch }

// Stop cancels the background reader.
func (s *Source) Stop() { s.cancel() }
