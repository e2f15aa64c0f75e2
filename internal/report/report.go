// Package report aggregates diagnostic findings and renders or persists them.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gofrs/flock"

	diagerr "github.com/fontdoctor/fontdoctor/internal/errors"
	"github.com/fontdoctor/fontdoctor/internal/ui"
)

// SystemInfo describes the host the diagnostics ran on. It is set once when
// the report is created and never mutated afterwards.
type SystemInfo struct {
	OS          string    `json:"os"`
	Arch        string    `json:"arch"`
	Hostname    string    `json:"hostname"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Report collects everything the diagnostic checks discover. All collection
// fields are append-only; checks add findings and never remove them.
type Report struct {
	system         SystemInfo
	issues         []string
	suggestions    []string
	missingFonts   []string
	corruptedFonts []string
	integrityIssue []string
	scalingIssues  []string
	softwareIssues map[string][]string
	cacheIssues    bool
}

// serialized is the wire form of a Report. Slices are initialized so the
// JSON always carries every field, empty or not.
type serialized struct {
	System              SystemInfo          `json:"system"`
	Issues              []string            `json:"issues"`
	Suggestions         []string            `json:"suggestions"`
	MissingFonts        []string            `json:"missing_fonts"`
	CorruptedFonts      []string            `json:"corrupted_fonts"`
	FontIntegrityIssues []string            `json:"font_integrity_issues"`
	DPIScalingIssues    []string            `json:"dpi_scaling_issues"`
	SoftwareIssues      map[string][]string `json:"software_specific_issues"`
	FontCacheIssues     bool                `json:"font_cache_issues"`
}

// New builds an empty report for the named platform.
func New(osName string) *Report {
	hostname, _ := os.Hostname()
	return &Report{
		system: SystemInfo{
			OS:          osName,
			Arch:        runtime.GOARCH,
			Hostname:    hostname,
			GeneratedAt: time.Now().UTC(),
		},
		softwareIssues: make(map[string][]string),
	}
}

// System returns the host description captured at construction.
func (r *Report) System() SystemInfo { return r.system }

// AddIssue records one problem found by a check.
func (r *Report) AddIssue(format string, args ...any) {
	r.issues = append(r.issues, fmt.Sprintf(format, args...))
}

// AddSuggestion records one remediation hint.
func (r *Report) AddSuggestion(format string, args ...any) {
	r.suggestions = append(r.suggestions, fmt.Sprintf(format, args...))
}

// SetMissingFonts records the critical fonts found in no directory.
func (r *Report) SetMissingFonts(fonts []string) {
	r.missingFonts = append(r.missingFonts, fonts...)
}

// AddCorruptedFont records a font file that could not be read for
// verification.
func (r *Report) AddCorruptedFont(name string) {
	r.corruptedFonts = append(r.corruptedFonts, name)
}

// AddIntegrityIssue records a font whose digest did not match its reference.
func (r *Report) AddIntegrityIssue(detail string) {
	r.integrityIssue = append(r.integrityIssue, detail)
}

// AddScalingIssue records a DPI or display-scaling finding.
func (r *Report) AddScalingIssue(detail string) {
	r.scalingIssues = append(r.scalingIssues, detail)
}

// AddSoftwareIssue records an application-specific finding. The application
// key is created on first write.
func (r *Report) AddSoftwareIssue(app, detail string) {
	r.softwareIssues[app] = append(r.softwareIssues[app], detail)
}

// MarkFontCacheIssue flags that the platform font cache looks unhealthy.
func (r *Report) MarkFontCacheIssue() { r.cacheIssues = true }

// Issues returns a copy of the recorded issues.
func (r *Report) Issues() []string { return copyStrings(r.issues) }

// Suggestions returns a copy of the recorded suggestions.
func (r *Report) Suggestions() []string { return copyStrings(r.suggestions) }

// MissingFonts returns a copy of the missing critical fonts.
func (r *Report) MissingFonts() []string { return copyStrings(r.missingFonts) }

// CorruptedFonts returns a copy of the unreadable fonts.
func (r *Report) CorruptedFonts() []string { return copyStrings(r.corruptedFonts) }

// IntegrityIssues returns a copy of the digest-mismatch findings.
func (r *Report) IntegrityIssues() []string { return copyStrings(r.integrityIssue) }

// ScalingIssues returns a copy of the DPI/scaling findings.
func (r *Report) ScalingIssues() []string { return copyStrings(r.scalingIssues) }

// SoftwareIssues returns a copy of the per-application findings.
func (r *Report) SoftwareIssues() map[string][]string {
	out := make(map[string][]string, len(r.softwareIssues))
	for app, details := range r.softwareIssues {
		out[app] = copyStrings(details)
	}
	return out
}

// HasFontCacheIssue reports whether the font cache check flagged a problem.
func (r *Report) HasFontCacheIssue() bool { return r.cacheIssues }

// HasFindings reports whether any check recorded a problem.
func (r *Report) HasFindings() bool {
	return len(r.issues) > 0 || len(r.missingFonts) > 0 ||
		len(r.corruptedFonts) > 0 || len(r.integrityIssue) > 0 ||
		len(r.scalingIssues) > 0 || len(r.softwareIssues) > 0 || r.cacheIssues
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Render formats the report for a terminal. Sections appear in a fixed
// order and empty sections are omitted.
func (r *Report) Render(styles ui.Styles) string {
	var b strings.Builder

	b.WriteString(styles.Header.Render("Font Diagnostic Report") + "\n")
	fmt.Fprintf(&b, "%s %s (%s), host %s\n", styles.Dim.Render("system:"),
		r.system.OS, r.system.Arch, r.system.Hostname)

	writeList := func(title string, items []string, style lipgloss.Style) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n" + styles.Section.Render(title) + "\n")
		for _, item := range items {
			b.WriteString("  " + style.Render(item) + "\n")
		}
	}

	writeList("Issues", r.issues, styles.Issue)
	writeList("Missing fonts", r.missingFonts, styles.Issue)
	writeList("Corrupted fonts (unreadable)", r.corruptedFonts, styles.Issue)
	writeList("Font integrity issues", r.integrityIssue, styles.Issue)
	writeList("DPI / scaling issues", r.scalingIssues, styles.Issue)

	if r.cacheIssues {
		b.WriteString("\n" + styles.Section.Render("Font cache") + "\n")
		b.WriteString("  " + styles.Issue.Render("font cache problems detected") + "\n")
	}

	if len(r.softwareIssues) > 0 {
		b.WriteString("\n" + styles.Section.Render("Application-specific issues") + "\n")
		apps := make([]string, 0, len(r.softwareIssues))
		for app := range r.softwareIssues {
			apps = append(apps, app)
		}
		sort.Strings(apps)
		for _, app := range apps {
			for _, detail := range r.softwareIssues[app] {
				fmt.Fprintf(&b, "  %s: %s\n", app, styles.Issue.Render(detail))
			}
		}
	}

	writeList("Suggestions", r.suggestions, styles.Suggest)

	if !r.HasFindings() {
		b.WriteString("\n" + styles.OK.Render("No font problems detected.") + "\n")
	}
	return b.String()
}

// MarshalJSON serializes the report with all fields present.
func (r *Report) MarshalJSON() ([]byte, error) {
	s := serialized{
		System:              r.system,
		Issues:              ensure(r.issues),
		Suggestions:         ensure(r.suggestions),
		MissingFonts:        ensure(r.missingFonts),
		CorruptedFonts:      ensure(r.corruptedFonts),
		FontIntegrityIssues: ensure(r.integrityIssue),
		DPIScalingIssues:    ensure(r.scalingIssues),
		SoftwareIssues:      r.softwareIssues,
		FontCacheIssues:     r.cacheIssues,
	}
	if s.SoftwareIssues == nil {
		s.SoftwareIssues = map[string][]string{}
	}
	return json.MarshalIndent(s, "", "  ")
}

func ensure(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// DefaultPath returns the report location under the user's data directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fontdoctor-report.json"
	}
	return filepath.Join(home, ".fontdoctor", "report.json")
}

// Persist writes the report as JSON to path, overwriting any previous run.
// A file lock guards against concurrent invocations clobbering each other.
func (r *Report) Persist(path string) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return diagerr.New(diagerr.ErrCodeReportUnwritable, "encode report", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return diagerr.New(diagerr.ErrCodeReportUnwritable, "create report directory", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return diagerr.New(diagerr.ErrCodeReportUnwritable, "lock report file", err)
	}
	defer lock.Unlock() //nolint:errcheck

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return diagerr.New(diagerr.ErrCodeReportUnwritable, "write report file", err)
	}
	return nil
}
