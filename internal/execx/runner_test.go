package execx

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diagerr "github.com/fontdoctor/fontdoctor/internal/errors"
	"github.com/fontdoctor/fontdoctor/internal/platform"
)

func testProbe() platform.Probe {
	return platform.Probe{Name: "font cache check", Command: "fc-cache", Args: []string{"-v"}}
}

func TestRun_NotInstalled(t *testing.T) {
	r := New()
	r.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	res := r.Run(context.Background(), testProbe())
	assert.Equal(t, OutcomeNotInstalled, res.Outcome)
	assert.False(t, res.OK())
	require.Error(t, res.Err)
	assert.Equal(t, diagerr.CategoryAbsence, diagerr.CategoryOf(res.Err))
}

func TestRun_Success(t *testing.T) {
	r := New()
	r.lookPath = func(string) (string, error) { return "/usr/bin/fc-cache", nil }
	r.runCommand = func(context.Context, string, []string) ([]byte, []byte, error) {
		return []byte("caches ok\n"), nil, nil
	}

	res := r.Run(context.Background(), testProbe())
	assert.True(t, res.OK())
	assert.Equal(t, "caches ok\n", res.Stdout)
	assert.NoError(t, res.Err)
}

func TestRun_ExitError(t *testing.T) {
	r := New()
	r.lookPath = func(string) (string, error) { return "/usr/bin/fc-cache", nil }
	r.runCommand = func(context.Context, string, []string) ([]byte, []byte, error) {
		return nil, []byte("cache dir unwritable\n"), &exec.ExitError{}
	}

	res := r.Run(context.Background(), testProbe())
	assert.Equal(t, OutcomeExitError, res.Outcome)
	assert.Contains(t, res.Stderr, "unwritable")
	assert.Equal(t, diagerr.CategoryExternalTool, diagerr.CategoryOf(res.Err))
}

func TestRun_TimeoutClassifiedAsUnavailable(t *testing.T) {
	r := New(WithTimeout(10 * time.Millisecond))
	r.lookPath = func(string) (string, error) { return "/usr/bin/fc-cache", nil }
	r.runCommand = func(ctx context.Context, _ string, _ []string) ([]byte, []byte, error) {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}

	res := r.Run(context.Background(), testProbe())
	assert.Equal(t, OutcomeTimeout, res.Outcome)
	assert.ErrorIs(t, res.Err, &diagerr.DiagError{Code: diagerr.ErrCodeToolTimeout})
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "not_installed", OutcomeNotInstalled.String())
	assert.Equal(t, "exit_error", OutcomeExitError.String())
	assert.Equal(t, "timeout", OutcomeTimeout.String())
}
