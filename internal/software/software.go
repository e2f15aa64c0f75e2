// Package software scans third-party applications for font-related problems:
// application font caches, bundled font sets, and configured editor fonts
// that are not installed on the system. Each application check is best
// effort; a parse failure or unreadable file degrades to "no finding".
package software

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fontdoctor/fontdoctor/internal/platform"
)

// Finding is one application-specific problem plus its remediation hint.
type Finding struct {
	App        string
	Detail     string
	Suggestion string
}

// fontExtensions are the file extensions probed when resolving a configured
// font family against the font directories.
var fontExtensions = []string{".ttf", ".otf", ".ttc"}

// check inspects one detected application and returns its findings.
type check func(s *Scanner, app *appSpec) []Finding

// appSpec declares how to detect one application and what to inspect once
// detected. Detection paths may contain wildcard segments; the first glob
// match wins.
type appSpec struct {
	name string
	// families restricts the app to specific platforms; empty means all.
	families []platform.Family
	// detectPaths are tried in order; the app counts as installed when any
	// resolves to an existing path.
	detectPaths []string
	checks      []check
}

func (a *appSpec) appliesTo(family platform.Family) bool {
	if len(a.families) == 0 {
		return true
	}
	for _, f := range a.families {
		if f == family {
			return true
		}
	}
	return false
}

// Scanner walks the application registry against one platform profile.
type Scanner struct {
	profile platform.Profile
	logger  *slog.Logger
	// expand resolves ~, $VAR and %VAR% in declared paths. Injectable so
	// tests can redirect everything into a temp tree.
	expand func(string) string
	apps   []appSpec
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithExpander replaces the path expansion function.
func WithExpander(expand func(string) string) ScannerOption {
	return func(s *Scanner) { s.expand = expand }
}

// WithLogger sets the scan logger.
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) { s.logger = logger }
}

// withApps replaces the registry; used by tests.
func withApps(apps []appSpec) ScannerOption {
	return func(s *Scanner) { s.apps = apps }
}

// NewScanner builds a Scanner for the profile with the default application
// registry.
func NewScanner(profile platform.Profile, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		profile: profile,
		logger:  slog.Default(),
		expand:  platform.ExpandPath,
		apps:    defaultRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan runs every applicable application check and returns the combined
// findings. One application's failure never suppresses the others.
func (s *Scanner) Scan() []Finding {
	var findings []Finding
	for i := range s.apps {
		app := &s.apps[i]
		if !app.appliesTo(s.profile.Family) {
			continue
		}
		if !s.detected(app) {
			s.logger.Debug("application not detected", "app", app.name)
			continue
		}
		s.logger.Debug("scanning application", "app", app.name)
		for _, c := range app.checks {
			findings = append(findings, c(s, app)...)
		}
	}
	return findings
}

// detected reports whether any detection path exists. Wildcard segments are
// resolved by glob; the first match wins.
func (s *Scanner) detected(app *appSpec) bool {
	return s.resolveFirst(app.detectPaths) != ""
}

// resolveFirst returns the first declared path that exists on disk, after
// expansion and glob resolution, or "" when none do.
func (s *Scanner) resolveFirst(paths []string) string {
	for _, p := range paths {
		expanded := s.expand(p)
		if expanded == "" {
			continue
		}
		if strings.ContainsAny(expanded, "*?[") {
			matches, err := filepath.Glob(expanded)
			if err != nil || len(matches) == 0 {
				continue
			}
			return matches[0]
		}
		if _, err := os.Stat(expanded); err == nil {
			return expanded
		}
	}
	return ""
}

// fontFamilyInstalled probes {family}{ext} in every font directory of the
// profile.
func (s *Scanner) fontFamilyInstalled(family string) bool {
	for _, dir := range s.profile.FontDirs {
		for _, ext := range fontExtensions {
			if _, err := os.Stat(filepath.Join(dir, family+ext)); err == nil {
				return true
			}
		}
	}
	return false
}

// firstFamily extracts the leading entry of a comma-separated font family
// list, trimming whitespace and surrounding quotes.
func firstFamily(value string) string {
	first, _, _ := strings.Cut(value, ",")
	first = strings.TrimSpace(first)
	first = strings.Trim(first, `"'`)
	return strings.TrimSpace(first)
}

// configFontCheck builds a check that reads the application's configured
// font family from a settings file and probes whether it is installed.
// extract must return ("", false) when the file lacks the setting.
func configFontCheck(settingsPaths []string, setting string,
	extract func(data []byte) (string, bool)) check {

	return func(s *Scanner, app *appSpec) []Finding {
		path := s.resolveFirst(settingsPaths)
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Debug("settings file unreadable",
				"app", app.name, "path", path, "error", err)
			return nil
		}
		raw, ok := extract(data)
		if !ok {
			return nil
		}
		family := firstFamily(raw)
		if family == "" || s.fontFamilyInstalled(family) {
			return nil
		}
		return []Finding{{
			App:    app.name,
			Detail: "configured font \"" + family + "\" is not installed",
			Suggestion: "Install the \"" + family + "\" font or change " +
				setting + " in " + app.name,
		}}
	}
}

// fontSetCheck builds a check that verifies an application's expected font
// files exist somewhere in the profile's font directories.
func fontSetCheck(fonts []string, suggestion string) check {
	return func(s *Scanner, app *appSpec) []Finding {
		var missing []string
		for _, font := range fonts {
			if !s.fontFileInstalled(font) {
				missing = append(missing, font)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		return []Finding{{
			App:        app.name,
			Detail:     "missing fonts: " + strings.Join(missing, ", "),
			Suggestion: suggestion,
		}}
	}
}

// fontFileInstalled probes an exact font file name in every font directory.
func (s *Scanner) fontFileInstalled(name string) bool {
	for _, dir := range s.profile.FontDirs {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// cacheArtifactCheck builds a check that requires at least one file with the
// given extension inside a cache directory.
func cacheArtifactCheck(cacheDirPaths []string, ext, suggestion string) check {
	return func(s *Scanner, app *appSpec) []Finding {
		dir := s.resolveFirst(cacheDirPaths)
		if dir == "" {
			// No cache directory at all counts as a finding: the
			// application is installed but its font cache is gone.
			return []Finding{{
				App:        app.name,
				Detail:     "font cache directory is missing",
				Suggestion: suggestion,
			}}
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Debug("cache directory unreadable",
				"app", app.name, "path", dir, "error", err)
			return nil
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ext) {
				return nil
			}
		}
		return []Finding{{
			App:        app.name,
			Detail:     "font cache contains no " + ext + " files",
			Suggestion: suggestion,
		}}
	}
}
