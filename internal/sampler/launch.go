package sampler

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/proftop/proftop/internal/model"
)

// ErrNoTarget is returned when a Launcher has neither a pid to attach to
// nor a command to run.
var ErrNoTarget = errors.New("nothing to profile: need a pid or a command")

// Launcher describes how to start the external sampler binary.
type Launcher struct {
	Bin      string        // sampler executable, defaults to model.DefaultSamplerBin
	Interval time.Duration // sampling interval passed through, 0 = sampler default
	Memory   bool          // sample memory instead of wall-clock time
	PID      int           // attach to this pid when > 0
	Command  []string      // command to launch when PID == 0
	Log      zerolog.Logger
}

// Process is a running sampler together with its stdout line stream.
type Process struct {
	cmd    *exec.Cmd
	source *Source
	stderr *tailBuffer
	cancel context.CancelFunc
	group  *errgroup.Group
	target int

	waitOnce sync.Once
	waitErr  error
}

// Start launches the sampler and begins streaming its output. A failed
// launch (missing binary, rejected arguments) surfaces here, before any
// terminal state has been touched.
func (l Launcher) Start(ctx context.Context) (*Process, error) {
	if l.PID == 0 && len(l.Command) == 0 {
		return nil, ErrNoTarget
	}
	bin := l.Bin
	if bin == "" {
		bin = model.DefaultSamplerBin
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.Command(bin, l.args()...)
	tail := &tailBuffer{max: 4096}
	cmd.Stderr = tail

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("piping %s output: %w", bin, err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting %s: %w", bin, err)
	}
	l.Log.Info().Str("bin", bin).Strs("args", l.args()).Int("pid", cmd.Process.Pid).Msg("sampler started")

	p := &Process{
		cmd:    cmd,
		source: NewSource(ctx, stdout, SourceConfig{Log: l.Log}),
		stderr: tail,
		cancel: cancel,
		target: l.PID,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := cmd.Wait()
		if err != nil {
			msg := strings.TrimSpace(p.stderr.Tail())
			if msg != "" {
				return fmt.Errorf("%s exited: %w: %s", bin, err, msg)
			}
			return fmt.Errorf("%s exited: %w", bin, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// Ask the sampler to wind down; it detaches from the target and
		// flushes its trailer metadata on SIGTERM.
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
		}
		return nil
	})
	p.group = g
	return p, nil
}

func (l Launcher) args() []string {
	var args []string
	if l.Memory {
		args = append(args, "-m")
	}
	if l.Interval > 0 {
		args = append(args, "-i", strconv.FormatInt(l.Interval.Microseconds(), 10))
	}
	if l.PID > 0 {
		args = append(args, "-p", strconv.Itoa(l.PID))
		return args
	}
	return append(args, l.Command...)
}

// Lines returns the raw output line stream. The channel closes when the
// sampler exits or is stopped.
func (p *Process) Lines() <-chan string { return p.source.Lines() }

// TargetPID returns the pid given at launch time, or 0 when the sampler
// spawned the target itself (in which case the pid arrives via metadata).
func (p *Process) TargetPID() int { return p.target }

// Stop asks the sampler to terminate. It is safe to call more than once.
func (p *Process) Stop() { p.cancel() }

// Wait blocks until the sampler has exited and returns its terminal error,
// if any. It is safe to call from multiple goroutines.
func (p *Process) Wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.group.Wait()
		p.cancel()
	})
	return p.waitErr
}

// tailBuffer keeps the last max bytes written to it. The sampler's stderr
// goes here so launch failures carry a usable diagnostic.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailBuffer) Tail() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
