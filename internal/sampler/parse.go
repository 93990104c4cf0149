// Package sampler integrates the external stack sampler: launching the
// binary, streaming its stdout, and decoding the collapsed sample format.
package sampler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/proftop/proftop/internal/model"
)

// ErrInvalidSample marks lines that do not decode as a stack sample.
var ErrInvalidSample = errors.New("invalid sample")

// Parse decodes one collapsed sample line of the form
//
//	P<pid>;T<tid>;<file>:<function>:<line>;... <metric>
//
// Frames are ordered outermost first and may be absent entirely (an idle
// sample). Thread ids are kept verbatim so hex ids survive round-trips.
// Negative metrics parse successfully; the caller decides their fate.
func Parse(line string) (model.Sample, error) {
	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		return model.Sample{}, fmt.Errorf("%w: no metric field in %q", ErrInvalidSample, line)
	}
	head, metricStr := line[:i], line[i+1:]

	metric, err := strconv.ParseInt(metricStr, 10, 64)
	if err != nil {
		return model.Sample{}, fmt.Errorf("%w: bad metric %q", ErrInvalidSample, metricStr)
	}

	parts := strings.Split(head, ";")
	if len(parts) < 2 {
		return model.Sample{}, fmt.Errorf("%w: missing process or thread in %q", ErrInvalidSample, line)
	}

	pidStr, ok := strings.CutPrefix(parts[0], "P")
	if !ok {
		return model.Sample{}, fmt.Errorf("%w: bad process field %q", ErrInvalidSample, parts[0])
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return model.Sample{}, fmt.Errorf("%w: bad process id %q", ErrInvalidSample, pidStr)
	}

	tid, ok := strings.CutPrefix(parts[1], "T")
	if !ok || tid == "" {
		return model.Sample{}, fmt.Errorf("%w: bad thread field %q", ErrInvalidSample, parts[1])
	}

	frames := make([]model.Frame, 0, len(parts)-2)
	for _, tok := range parts[2:] {
		f, err := parseFrame(tok)
		if err != nil {
			return model.Sample{}, err
		}
		frames = append(frames, f)
	}

	return model.Sample{PID: pid, TID: tid, Frames: frames, Metric: metric}, nil
}

// parseFrame decodes <file>:<function>:<line>. File names may themselves
// contain colons, so the token is split from the right.
func parseFrame(tok string) (model.Frame, error) {
	last := strings.LastIndexByte(tok, ':')
	if last < 0 {
		return model.Frame{}, fmt.Errorf("%w: bad frame %q", ErrInvalidSample, tok)
	}
	mid := strings.LastIndexByte(tok[:last], ':')
	if mid < 0 {
		return model.Frame{}, fmt.Errorf("%w: bad frame %q", ErrInvalidSample, tok)
	}
	lineNo, err := strconv.Atoi(tok[last+1:])
	if err != nil || lineNo < 0 {
		return model.Frame{}, fmt.Errorf("%w: bad line number in frame %q", ErrInvalidSample, tok)
	}
	return model.Frame{File: tok[:mid], Function: tok[mid+1 : last], Line: lineNo}, nil
}

// ParseMetadata decodes `# key: value` header and trailer lines emitted by
// the sampler around the sample stream. It reports ok=false for anything
// that is not a metadata line.
func ParseMetadata(line string) (key, value string, ok bool) {
	rest, found := strings.CutPrefix(line, "# ")
	if !found {
		return "", "", false
	}
	key, value, found = strings.Cut(rest, ":")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

// IsMetadata reports whether the raw line is a metadata line rather than a
// sample.
func IsMetadata(line string) bool {
	return strings.HasPrefix(line, "# ")
}
