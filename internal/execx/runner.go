// Package execx is the single primitive for running external diagnostic
// probes. Every command gets a bounded timeout and a classified outcome;
// callers convert failed probes into report findings instead of propagating
// errors. External tools are platform contracts fontdoctor invokes but does
// not own.
package execx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"

	diagerr "github.com/fontdoctor/fontdoctor/internal/errors"
	"github.com/fontdoctor/fontdoctor/internal/platform"
)

// DefaultTimeout bounds a probe when the caller does not configure one.
const DefaultTimeout = 10 * time.Second

// Outcome classifies a finished probe.
type Outcome int

const (
	// OutcomeOK means the command ran and exited zero.
	OutcomeOK Outcome = iota
	// OutcomeNotInstalled means the executable was not found in PATH.
	OutcomeNotInstalled
	// OutcomeExitError means the command ran and exited non-zero.
	OutcomeExitError
	// OutcomeTimeout means the command exceeded its deadline. Callers treat
	// this the same as an unavailable tool.
	OutcomeTimeout
)

// String returns the outcome label used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotInstalled:
		return "not_installed"
	case OutcomeExitError:
		return "exit_error"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Result is the classified output of one probe invocation.
type Result struct {
	Outcome  Outcome
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is a categorized DiagError for any non-OK outcome.
	Err error
}

// OK reports whether the probe succeeded.
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// ProbeRunner runs a declared platform probe. Checkers depend on this
// interface so tests can substitute canned results.
type ProbeRunner interface {
	Run(ctx context.Context, probe platform.Probe) Result
}

// Runner is the production ProbeRunner.
type Runner struct {
	timeout time.Duration
	logger  *slog.Logger

	// Injection points for tests.
	lookPath   func(file string) (string, error)
	runCommand func(ctx context.Context, name string, args []string) (stdout, stderr []byte, err error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-probe deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger used for probe narration.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
		lookPath:   exec.LookPath,
		runCommand: runCommand,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one probe with the configured timeout and classifies the
// result. It never returns a raw exec error; Result.Err is always a
// categorized DiagError for non-OK outcomes.
func (r *Runner) Run(ctx context.Context, probe platform.Probe) Result {
	if _, err := r.lookPath(probe.Command); err != nil {
		r.logger.Debug("probe executable not found",
			"probe", probe.Name, "command", probe.Command)
		return Result{
			Outcome: OutcomeNotInstalled,
			Err: diagerr.Newf(diagerr.ErrCodeToolNotFound,
				"%s: %s is not installed or not in PATH", probe.Name, probe.Command),
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, err := r.runCommand(runCtx, probe.Command, probe.Args)
	elapsed := time.Since(start)

	res := Result{Stdout: string(stdout), Stderr: string(stderr)}

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		res.Outcome = OutcomeTimeout
		res.Err = diagerr.Newf(diagerr.ErrCodeToolTimeout,
			"%s: %s timed out after %s", probe.Name, probe.Command, r.timeout)
	case err != nil:
		res.Outcome = OutcomeExitError
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		res.Err = diagerr.Wrap(diagerr.ErrCodeToolExit, err)
	default:
		res.Outcome = OutcomeOK
	}

	r.logger.Debug("probe finished",
		"probe", probe.Name,
		"command", probe.Command,
		"outcome", res.Outcome.String(),
		"elapsed", elapsed)
	return res
}

// runCommand is the production command executor.
func runCommand(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
