// Package diag runs the font diagnostic checks. Every check records its
// findings on the shared report and returns; no check failure aborts the
// remaining checks.
package diag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fontdoctor/fontdoctor/internal/execx"
	"github.com/fontdoctor/fontdoctor/internal/hashdb"
	"github.com/fontdoctor/fontdoctor/internal/platform"
	"github.com/fontdoctor/fontdoctor/internal/report"
	"github.com/fontdoctor/fontdoctor/internal/software"
	"github.com/fontdoctor/fontdoctor/internal/ui"
)

// Checker runs diagnostic checks against one platform profile and records
// findings on a report.
type Checker struct {
	profile  platform.Profile
	report   *report.Report
	runner   execx.ProbeRunner
	verifier *Verifier
	scanner  *software.Scanner
	logger   *slog.Logger
	out      io.Writer
	styles   ui.Styles
}

// Option configures a Checker.
type Option func(*Checker)

// WithRunner replaces the external probe runner.
func WithRunner(runner execx.ProbeRunner) Option {
	return func(c *Checker) { c.runner = runner }
}

// WithVerifier replaces the integrity verifier.
func WithVerifier(v *Verifier) Option {
	return func(c *Checker) { c.verifier = v }
}

// WithScanner replaces the third-party application scanner.
func WithScanner(s *software.Scanner) Option {
	return func(c *Checker) { c.scanner = s }
}

// WithLogger sets the check logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// WithOutput directs check narration to w with the given styles.
func WithOutput(w io.Writer, styles ui.Styles) Option {
	return func(c *Checker) {
		c.out = w
		c.styles = styles
	}
}

// NewChecker builds a Checker for the profile, recording onto rep.
func NewChecker(profile platform.Profile, rep *report.Report, opts ...Option) *Checker {
	c := &Checker{
		profile:  profile,
		report:   rep,
		runner:   execx.New(),
		verifier: NewVerifier(hashdb.Embedded()),
		logger:   slog.Default(),
		out:      io.Discard,
		styles:   ui.NoColorStyles(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scanner == nil {
		c.scanner = software.NewScanner(profile, software.WithLogger(c.logger))
	}
	return c
}

// Report returns the report the checker records onto.
func (c *Checker) Report() *report.Report { return c.report }

func (c *Checker) narrate(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// RunAll executes every diagnostic check in a fixed order. It always runs to
// completion; findings accumulate on the report.
func (c *Checker) RunAll(ctx context.Context) {
	if !c.profile.Supported() {
		c.report.AddIssue("unsupported operating system: %s", c.profile.DisplayName)
		return
	}

	steps := []struct {
		name string
		run  func(context.Context)
	}{
		{"font directories", c.CheckDirectories},
		{"font cache", c.CheckFontCache},
		{"required fonts", c.CheckRequiredFonts},
		{"font configuration", c.CheckFontConfig},
		{"locale", c.CheckLocale},
		{"application fonts", c.CheckSoftware},
		{"font integrity", c.CheckIntegrity},
		{"display scaling", c.CheckDPIScaling},
	}
	for _, step := range steps {
		c.narrate("%s", c.styles.Section.Render("Checking "+step.name+"..."))
		c.logger.Debug("running check", "check", step.name)
		step.run(ctx)
	}
}

// CheckDirectories classifies each font directory as ok, missing, or
// inaccessible.
func (c *Checker) CheckDirectories(_ context.Context) {
	for _, dir := range c.profile.FontDirs {
		info, err := os.Stat(dir)
		switch {
		case os.IsNotExist(err):
			c.report.AddIssue("font directory does not exist: %s", dir)
			c.report.AddSuggestion("Create the directory: %s", dir)
		case err != nil || !info.IsDir():
			c.report.AddIssue("font directory is not accessible: %s", dir)
			c.report.AddSuggestion("Check permissions on: %s", dir)
		default:
			if _, err := os.ReadDir(dir); err != nil {
				c.report.AddIssue("font directory is not accessible: %s", dir)
				c.report.AddSuggestion("Check permissions on: %s", dir)
				continue
			}
			c.narrate("  %s", c.styles.OK.Render("ok: "+dir))
		}
	}
}

// CheckRequiredFonts probes every critical font across all font directories.
// A font counts as present on its first match. Fonts found nowhere produce
// one aggregate issue and one suggestion.
func (c *Checker) CheckRequiredFonts(_ context.Context) {
	var missing []string
	for _, font := range c.profile.CriticalFonts {
		if c.findFont(font) == "" {
			missing = append(missing, font)
		}
	}
	if len(missing) == 0 {
		c.narrate("  %s", c.styles.OK.Render("all critical fonts present"))
		return
	}
	c.report.SetMissingFonts(missing)
	c.report.AddIssue("missing critical fonts: %s", strings.Join(missing, ", "))
	c.report.AddSuggestion("Reinstall the missing fonts: %s", strings.Join(missing, ", "))
}

// findFont returns the full path of the first directory containing the font,
// or "" when no directory has it.
func (c *Checker) findFont(name string) string {
	for _, dir := range c.profile.FontDirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// CheckIntegrity verifies the digests of every critical font that is
// present. Absent fonts are skipped; CheckRequiredFonts already reports
// them. Mismatches and unreadable files are recorded separately.
func (c *Checker) CheckIntegrity(_ context.Context) {
	qualifier := ""
	if c.verifier.BestEffort() {
		qualifier = " (reference digests are best effort)"
	}
	for _, font := range c.profile.CriticalFonts {
		path := c.findFont(font)
		if path == "" {
			continue
		}
		outcome, err := c.verifier.Verify(path, font)
		switch outcome {
		case VerifyMismatch:
			c.report.AddIntegrityIssue(fmt.Sprintf(
				"%s does not match its reference digest%s", font, qualifier))
			c.report.AddSuggestion("Reinstall %s from a trusted source", font)
		case VerifyUnreadable:
			c.logger.Debug("font unreadable during verification",
				"font", font, "path", path, "error", err)
			c.report.AddCorruptedFont(font)
			c.report.AddSuggestion("Replace the unreadable font file: %s", path)
		case VerifyNoReference:
			c.logger.Debug("no reference digest", "font", font)
		default:
			c.narrate("  %s", c.styles.OK.Render(font+" verified"))
		}
	}
}

// CheckFontCache probes the platform font cache. Windows checks the cache
// directory; Linux runs the read-only fc-cache probe; Darwin has no safe
// read-only signal and is informational only.
func (c *Checker) CheckFontCache(ctx context.Context) {
	switch c.profile.Family {
	case platform.FamilyWindows:
		if c.profile.CacheDir == "" {
			return
		}
		if _, err := os.Stat(c.profile.CacheDir); os.IsNotExist(err) {
			c.report.MarkFontCacheIssue()
			c.report.AddIssue("font cache directory is missing: %s", c.profile.CacheDir)
			c.report.AddSuggestion("Rebuild the font cache (run the repair-cache operation)")
		}
	case platform.FamilyLinux:
		if c.profile.CacheProbe == nil {
			return
		}
		res := c.runner.Run(ctx, *c.profile.CacheProbe)
		switch res.Outcome {
		case execx.OutcomeOK:
			c.narrate("  %s", c.styles.OK.Render("font cache is healthy"))
		case execx.OutcomeNotInstalled:
			c.report.MarkFontCacheIssue()
			c.report.AddIssue("fc-cache is not installed; the font cache cannot be checked")
			c.report.AddSuggestion("%s", c.profile.FontMatchInstallHint)
		default:
			c.report.MarkFontCacheIssue()
			c.report.AddIssue("font cache check failed: %v", res.Err)
		}
	default:
		c.narrate("  %s", c.styles.Dim.Render("no automated cache check on this platform"))
	}
}

// CheckFontConfig queries the font matching configuration (fc-match on
// Linux). Platforms without a matcher probe skip silently.
func (c *Checker) CheckFontConfig(ctx context.Context) {
	if c.profile.FontMatchProbe == nil {
		return
	}
	res := c.runner.Run(ctx, *c.profile.FontMatchProbe)
	switch res.Outcome {
	case execx.OutcomeOK:
		c.narrate("  %s", c.styles.OK.Render("sans-serif resolves to: "+
			strings.TrimSpace(res.Stdout)))
	case execx.OutcomeNotInstalled:
		c.report.AddIssue("fc-match is not installed; font matching cannot be checked")
		c.report.AddSuggestion("%s", c.profile.FontMatchInstallHint)
	default:
		c.report.AddIssue("font matching query failed: %v", res.Err)
	}
}

// CheckLocale verifies the locale listing mentions en_US.UTF-8. A failed
// probe is logged but never reported: locale trouble should not masquerade
// as a font problem.
func (c *Checker) CheckLocale(ctx context.Context) {
	if c.profile.LocaleProbe == nil {
		return
	}
	res := c.runner.Run(ctx, *c.profile.LocaleProbe)
	if !res.OK() {
		c.logger.Debug("locale probe failed", "error", res.Err)
		return
	}
	if !strings.Contains(res.Stdout, "en_US.UTF-8") {
		c.report.AddIssue("locale en_US.UTF-8 is not configured")
		c.report.AddSuggestion("Generate the locale: sudo locale-gen en_US.UTF-8")
	}
}

// CheckSoftware scans third-party applications for font problems.
func (c *Checker) CheckSoftware(_ context.Context) {
	for _, finding := range c.scanner.Scan() {
		c.report.AddSoftwareIssue(finding.App, finding.Detail)
		if finding.Suggestion != "" {
			c.report.AddSuggestion("%s", finding.Suggestion)
		}
	}
}

// CheckDPIScaling queries the display scaling source and flags values
// outside the platform whitelist. Query failures are logged, never reported.
func (c *Checker) CheckDPIScaling(ctx context.Context) {
	if c.profile.DPIProbe == nil {
		return
	}
	res := c.runner.Run(ctx, *c.profile.DPIProbe)
	if !res.OK() {
		c.logger.Debug("display scaling probe failed", "error", res.Err)
		return
	}

	switch c.profile.Family {
	case platform.FamilyWindows:
		c.checkWindowsDPI(res.Stdout)
	case platform.FamilyLinux:
		c.checkLinuxScaling(res.Stdout)
	case platform.FamilyDarwin:
		c.checkDarwinScaling(res.Stdout)
	}
}

// checkWindowsDPI parses `reg query` output for the LogPixels value, a hex
// number like 0x60, and compares its decimal form against the whitelist.
func (c *Checker) checkWindowsDPI(stdout string) {
	for _, line := range strings.Split(stdout, "\n") {
		if !strings.Contains(line, "LogPixels") {
			continue
		}
		fields := strings.Fields(line)
		raw := fields[len(fields)-1]
		value, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(raw), "0x"), 16, 32)
		if err != nil {
			c.logger.Debug("unparseable LogPixels value", "raw", raw)
			return
		}
		dpi := strconv.FormatUint(value, 10)
		if !c.whitelisted(dpi) {
			c.report.AddScalingIssue(fmt.Sprintf("DPI is set to %s (standard values: %s)",
				dpi, strings.Join(c.profile.DPIWhitelist, ", ")))
			c.report.AddSuggestion("Reset display scaling to a standard value (run the repair-scaling operation)")
		}
		return
	}
	// No LogPixels line means the system default (96 DPI) applies.
}

// checkLinuxScaling parses gsettings output of the form "uint32 1".
func (c *Checker) checkLinuxScaling(stdout string) {
	value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(stdout), "uint32"))
	if value == "" {
		return
	}
	if !c.whitelisted(value) {
		c.report.AddScalingIssue(fmt.Sprintf("desktop scaling factor is %s (standard values: %s)",
			value, strings.Join(c.profile.DPIWhitelist, ", ")))
		c.report.AddSuggestion("Reset the scaling factor (run the repair-scaling operation)")
	}
}

// checkDarwinScaling flags any display running at a scaled resolution.
func (c *Checker) checkDarwinScaling(stdout string) {
	for _, line := range strings.Split(stdout, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "resolution:") && strings.Contains(lower, "scaled") {
			c.report.AddScalingIssue("a display is running at a scaled resolution: " +
				strings.TrimSpace(line))
			c.report.AddSuggestion("Switch the display to its default resolution (run the repair-scaling operation)")
		}
	}
}

func (c *Checker) whitelisted(value string) bool {
	for _, allowed := range c.profile.DPIWhitelist {
		if value == allowed {
			return true
		}
	}
	return false
}
