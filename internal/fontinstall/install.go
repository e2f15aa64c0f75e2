// Package fontinstall copies font files into the platform's primary font
// directory and refreshes the font cache where the platform supports it.
package fontinstall

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	diagerr "github.com/fontdoctor/fontdoctor/internal/errors"
	"github.com/fontdoctor/fontdoctor/internal/execx"
	"github.com/fontdoctor/fontdoctor/internal/platform"
	"github.com/fontdoctor/fontdoctor/internal/report"
)

// Installer installs font files for one platform profile.
type Installer struct {
	profile platform.Profile
	report  *report.Report
	runner  execx.ProbeRunner
	logger  *slog.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithRunner replaces the external probe runner used for cache refreshes.
func WithRunner(runner execx.ProbeRunner) Option {
	return func(i *Installer) { i.runner = runner }
}

// WithLogger sets the install logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Installer) { i.logger = logger }
}

// New builds an Installer recording onto rep.
func New(profile platform.Profile, rep *report.Report, opts ...Option) *Installer {
	inst := &Installer{
		profile: profile,
		report:  rep,
		runner:  execx.New(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// Install copies the font at sourcePath into the primary font directory,
// creating the directory when needed, and refreshes the font cache on
// platforms with a rebuild command. Failures are recorded on the report and
// returned.
func (i *Installer) Install(ctx context.Context, sourcePath string) error {
	target := i.profile.PrimaryFontDir()
	if target == "" {
		err := diagerr.Newf(diagerr.ErrCodePlatformUnsupported,
			"no font directory known for %s", i.profile.DisplayName)
		i.report.AddIssue("%v", err)
		return err
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		werr := diagerr.New(diagerr.ErrCodeInstallFailed,
			"font file not found: "+sourcePath, err)
		i.report.AddIssue("%v", werr)
		return werr
	}
	if info.IsDir() {
		werr := diagerr.Newf(diagerr.ErrCodeInstallFailed,
			"%s is a directory, not a font file", sourcePath)
		i.report.AddIssue("%v", werr)
		return werr
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		werr := diagerr.New(diagerr.ErrCodeInstallFailed,
			"cannot create font directory "+target, err)
		i.report.AddIssue("%v", werr)
		return werr
	}

	destPath := filepath.Join(target, filepath.Base(sourcePath))
	if err := copyFile(sourcePath, destPath, info.Mode().Perm()); err != nil {
		werr := diagerr.New(diagerr.ErrCodeInstallFailed,
			"cannot copy font to "+destPath, err)
		i.report.AddIssue("%v", werr)
		return werr
	}

	i.logger.Info("font installed", "source", sourcePath, "dest", destPath)
	i.report.AddSuggestion("Installed %s to %s", filepath.Base(sourcePath), target)

	i.refreshCache(ctx)
	return nil
}

// refreshCache rebuilds the font cache so the new font becomes visible.
// Platforms without a rebuild command pick the font up on their own.
func (i *Installer) refreshCache(ctx context.Context) {
	if i.profile.CacheRepair == nil {
		return
	}
	res := i.runner.Run(ctx, *i.profile.CacheRepair)
	if !res.OK() {
		i.logger.Warn("font cache refresh failed after install", "error", res.Err)
		i.report.AddSuggestion("Rebuild the font cache manually: %s",
			i.profile.CacheRepair.Command)
	}
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
