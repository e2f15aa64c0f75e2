package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fontdoctor/fontdoctor/internal/config"
	"github.com/fontdoctor/fontdoctor/internal/diag"
	"github.com/fontdoctor/fontdoctor/internal/execx"
	"github.com/fontdoctor/fontdoctor/internal/hashdb"
	"github.com/fontdoctor/fontdoctor/internal/platform"
	"github.com/fontdoctor/fontdoctor/internal/report"
	"github.com/fontdoctor/fontdoctor/internal/ui"
)

// session wires the configuration, platform profile, report, and checker one
// command invocation needs.
type session struct {
	cfg     *config.Config
	profile platform.Profile
	report  *report.Report
	checker *diag.Checker
	styles  ui.Styles
}

// newSession builds the per-invocation wiring. hashDBPath overrides the
// configured reference-digest database; empty falls back to the config file
// and then the embedded database.
func newSession(cmd *cobra.Command, hashDBPath string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	profile := platform.Detect().WithExtraDirs(cfg.ExtraFontDirs)
	rep := report.New(profile.DisplayName)
	styles := ui.StylesFor(cmd.OutOrStdout())

	source, err := resolveHashDB(hashDBPath, cfg)
	if err != nil {
		return nil, err
	}

	runner := execx.New(
		execx.WithTimeout(cfg.ProbeTimeout),
		execx.WithLogger(slog.Default()),
	)
	checker := diag.NewChecker(profile, rep,
		diag.WithRunner(runner),
		diag.WithVerifier(diag.NewVerifier(source)),
		diag.WithOutput(cmd.OutOrStdout(), styles),
	)

	return &session{
		cfg:     cfg,
		profile: profile,
		report:  rep,
		checker: checker,
		styles:  styles,
	}, nil
}

// resolveHashDB picks the reference-digest database: the explicit flag wins
// and must load; a configured path falls back to the embedded database with
// a warning; otherwise the embedded database is used.
func resolveHashDB(flagPath string, cfg *config.Config) (hashdb.Source, error) {
	if flagPath != "" {
		db, err := hashdb.Load(flagPath)
		if err != nil {
			return nil, fmt.Errorf("hash database: %w", err)
		}
		return db, nil
	}
	if cfg.HashDBPath != "" {
		db, err := hashdb.Load(cfg.HashDBPath)
		if err != nil {
			slog.Warn("configured hash database unusable, using embedded",
				"path", cfg.HashDBPath, "error", err)
			return hashdb.Embedded(), nil
		}
		return db, nil
	}
	return hashdb.Embedded(), nil
}

// reportPath picks the persisted report location: flag, then config, then
// the default.
func reportPath(flagPath string, cfg *config.Config) string {
	if flagPath != "" {
		return flagPath
	}
	if cfg.ReportPath != "" {
		return cfg.ReportPath
	}
	return report.DefaultPath()
}
