package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Input is one -i source with the options that precede it.
type Input struct {
	Path    string
	Options []string
}

// Spec is a complete ffmpeg invocation.
type Spec struct {
	Inputs        []Input
	Filter        string
	FilterComplex string
	Maps          []string
	OutputArgs    []string
	Output        string
}

// Validate checks that the spec can be turned into a command line.
func (s Spec) Validate() error {
	if len(s.Inputs) == 0 {
		return errors.New("ffmpeg spec: at least one input required")
	}
	for i, input := range s.Inputs {
		if strings.TrimSpace(input.Path) == "" {
			return fmt.Errorf("ffmpeg spec: input %d has empty path", i)
		}
	}
	if strings.TrimSpace(s.Output) == "" {
		return errors.New("ffmpeg spec: output required")
	}
	if s.Filter != "" && s.FilterComplex != "" {
		return errors.New("ffmpeg spec: -vf and -filter_complex are mutually exclusive")
	}
	return nil
}

// Args renders the spec as ffmpeg arguments. Output is always overwritten.
func (s Spec) Args() []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	for _, input := range s.Inputs {
		args = append(args, input.Options...)
		args = append(args, "-i", input.Path)
	}
	if s.Filter != "" {
		args = append(args, "-vf", s.Filter)
	}
	if s.FilterComplex != "" {
		args = append(args, "-filter_complex", s.FilterComplex)
	}
	for _, m := range s.Maps {
		args = append(args, "-map", m)
	}
	args = append(args, s.OutputArgs...)
	args = append(args, s.Output)
	return args
}

// Encoder executes an ffmpeg spec. A non-nil error means the encoder failed
// or exited non-zero.
type Encoder interface {
	Run(ctx context.Context, spec Spec) error
}

type commandRunner func(ctx context.Context, name string, args ...string) error

// Runner executes specs with a local ffmpeg binary.
type Runner struct {
	binary string
	run    commandRunner
}

// NewRunner constructs an exec-backed encoder. An empty binary means "ffmpeg".
func NewRunner(binary string) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Runner{binary: binary, run: defaultCommandRunner}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (r *Runner) WithCommandRunner(run commandRunner) *Runner {
	if r != nil && run != nil {
		r.run = run
	}
	return r
}

// Binary returns the ffmpeg executable the runner invokes.
func (r *Runner) Binary() string {
	return r.binary
}

// Run validates spec and executes ffmpeg.
func (r *Runner) Run(ctx context.Context, spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	return r.run(ctx, r.binary, spec.Args()...)
}

// ExitError carries the tail of ffmpeg's output for a failed run.
type ExitError struct {
	Err    error
	Output string
}

func (e *ExitError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("ffmpeg: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg: %v: %s", e.Err, e.Output)
}

func (e *ExitError) Unwrap() error { return e.Err }

const maxOutputTail = 2048

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		tail := strings.TrimSpace(string(output))
		if len(tail) > maxOutputTail {
			tail = tail[len(tail)-maxOutputTail:]
		}
		return &ExitError{Err: err, Output: tail}
	}
	return nil
}
