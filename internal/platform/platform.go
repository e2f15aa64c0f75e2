// Package platform resolves the running operating system into a Profile: the
// canonical font directories, the critical font set, and the external probe
// commands every checker depends on. Checkers never branch on raw OS names;
// they consume a Profile resolved once per run.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Family identifies a supported platform family.
type Family string

const (
	FamilyWindows Family = "windows"
	FamilyLinux   Family = "linux"
	FamilyDarwin  Family = "darwin"
	FamilyUnknown Family = "unknown"
)

// Probe declares an external command a checker may run. Commands are platform
// contracts fontdoctor depends on but does not own.
type Probe struct {
	// Name labels the probe in logs and report text.
	Name string
	// Command is the executable name, resolved via PATH.
	Command string
	// Args are the fixed arguments.
	Args []string
}

// Profile is the capability set for one platform family. A zero Profile
// (Family == FamilyUnknown) has empty lists and nil probes; callers treat
// every platform-dependent check as a no-op.
type Profile struct {
	Family Family

	// DisplayName is the value recorded as the report's system identifier.
	DisplayName string

	// FontDirs are the font directories to search, in order. The first entry
	// is the primary directory used for font installation.
	FontDirs []string

	// CriticalFonts are the font file names expected to exist somewhere in
	// FontDirs.
	CriticalFonts []string

	// CacheDir is a font cache directory whose absence indicates a cache
	// problem. Only set where the cache is a plain directory (Windows).
	CacheDir string

	// CacheProbe is a read-only cache health command (Linux: fc-cache -v).
	CacheProbe *Probe

	// CacheRepair rebuilds the font cache (Linux: fc-cache -f -v). Nil when
	// no safe automated command exists; CacheRepairSteps is printed instead.
	CacheRepair *Probe

	// FontMatchProbe queries the font matching configuration
	// (Linux: fc-match sans-serif).
	FontMatchProbe *Probe

	// FontMatchInstallHint suggests how to install the matcher when missing.
	FontMatchInstallHint string

	// LocaleProbe lists locale settings (Linux: locale).
	LocaleProbe *Probe

	// DPIProbe queries the display scaling source.
	DPIProbe *Probe

	// DPIWhitelist holds the scaling values considered standard. Anything
	// else (or a "scaled" marker on Darwin) is reported as a scaling issue.
	DPIWhitelist []string

	// Manual remediation steps, printed by the explicit repair operations.
	CacheRepairSteps   []string
	RestoreSteps       []string
	ScalingRepairSteps []string

	// ScalingRepair is a single settings-write command where the platform
	// supports one (Linux gsettings). Nil elsewhere.
	ScalingRepair *Probe
}

// Supported reports whether the profile belongs to a recognized family.
func (p Profile) Supported() bool {
	return p.Family != FamilyUnknown
}

// PrimaryFontDir returns the installation target directory, or "" when the
// platform is unsupported.
func (p Profile) PrimaryFontDir() string {
	if len(p.FontDirs) == 0 {
		return ""
	}
	return p.FontDirs[0]
}

// WithExtraDirs returns a copy of the profile with user-configured font
// directories appended after the canonical list.
func (p Profile) WithExtraDirs(dirs []string) Profile {
	if len(dirs) == 0 {
		return p
	}
	merged := make([]string, 0, len(p.FontDirs)+len(dirs))
	merged = append(merged, p.FontDirs...)
	for _, d := range dirs {
		merged = append(merged, ExpandPath(d))
	}
	p.FontDirs = merged
	return p
}

// Detect resolves the profile for the running operating system.
func Detect() Profile {
	return Resolve(runtime.GOOS)
}

// Resolve maps an operating system identifier (runtime.GOOS values) to its
// profile. Unrecognized identifiers yield an unsupported profile, never an
// error.
func Resolve(goos string) Profile {
	switch goos {
	case "windows":
		return windowsProfile()
	case "linux":
		return linuxProfile()
	case "darwin":
		return darwinProfile()
	default:
		return Profile{Family: FamilyUnknown, DisplayName: goos}
	}
}

func windowsProfile() Profile {
	windir := envOr("WINDIR", `C:\Windows`)
	localAppData := envOr("LOCALAPPDATA", "")
	dirs := []string{filepath.Join(windir, "Fonts")}
	if localAppData != "" {
		dirs = append(dirs, filepath.Join(localAppData, "Microsoft", "Windows", "Fonts"))
	}
	cacheDir := ""
	if localAppData != "" {
		cacheDir = filepath.Join(localAppData, "Microsoft", "Windows", "FontCache")
	}
	return Profile{
		Family:        FamilyWindows,
		DisplayName:   "Windows",
		FontDirs:      dirs,
		CriticalFonts: []string{"Arial.ttf", "Times New Roman.ttf", "Segoe UI.ttf"},
		CacheDir:      cacheDir,
		DPIProbe: &Probe{
			Name:    "registry DPI query",
			Command: "reg",
			Args:    []string{"query", `HKCU\Control Panel\Desktop`, "/v", "LogPixels"},
		},
		DPIWhitelist: []string{"96", "120", "144"},
		CacheRepairSteps: []string{
			"Open an elevated command prompt",
			"Run: net stop FontCache",
			`Run: del /q %windir%\System32\FNTCACHE.DAT`,
			"Run: net start FontCache",
			"Restart the computer",
		},
		RestoreSteps: []string{
			"Open Settings > Personalization > Fonts",
			`Click "Restore default font settings"`,
			"Or copy the fonts from another machine running the same Windows version",
		},
		ScalingRepairSteps: []string{
			`Right-click the desktop and choose "Display settings"`,
			`Under "Scale and layout", set the size of text and apps to the recommended value (usually 100% or 125%)`,
			`Use "Advanced scaling settings" for a custom value, then sign out and back in`,
		},
	}
}

func linuxProfile() Profile {
	return Profile{
		Family:        FamilyLinux,
		DisplayName:   "Linux",
		FontDirs:      []string{"/usr/share/fonts", "/usr/local/share/fonts", ExpandPath("~/.fonts")},
		CriticalFonts: []string{"DejaVuSans.ttf", "FreeSans.ttf"},
		CacheProbe: &Probe{
			Name:    "font cache check",
			Command: "fc-cache",
			Args:    []string{"-v"},
		},
		CacheRepair: &Probe{
			Name:    "font cache rebuild",
			Command: "fc-cache",
			Args:    []string{"-f", "-v"},
		},
		FontMatchProbe: &Probe{
			Name:    "font match",
			Command: "fc-match",
			Args:    []string{"sans-serif"},
		},
		FontMatchInstallHint: "Install the fontconfig package: sudo apt install fontconfig",
		LocaleProbe: &Probe{
			Name:    "locale listing",
			Command: "locale",
		},
		DPIProbe: &Probe{
			Name:    "desktop scaling query",
			Command: "gsettings",
			Args:    []string{"get", "org.gnome.desktop.interface", "scaling-factor"},
		},
		DPIWhitelist: []string{"1", "2"},
		CacheRepairSteps: []string{
			"Run: fc-cache -f -v",
		},
		RestoreSteps: []string{
			"Reinstall the default font packages:",
			"  Debian/Ubuntu: sudo apt install --reinstall fonts-dejavu fonts-freefont-ttf",
			"  Fedora/RHEL:   sudo dnf reinstall dejavu-sans-fonts freefont",
		},
		ScalingRepairSteps: []string{
			"GNOME: open Settings > Displays and set the scale to 100% or 200%",
			"Or run: gsettings set org.gnome.desktop.interface scaling-factor 1",
		},
		ScalingRepair: &Probe{
			Name:    "desktop scaling reset",
			Command: "gsettings",
			Args:    []string{"set", "org.gnome.desktop.interface", "scaling-factor", "1"},
		},
	}
}

func darwinProfile() Profile {
	return Profile{
		Family:        FamilyDarwin,
		DisplayName:   "Darwin",
		FontDirs:      []string{"/Library/Fonts", "/System/Library/Fonts", ExpandPath("~/Library/Fonts")},
		CriticalFonts: []string{"Helvetica.dfont", "San Francisco.ttf"},
		DPIProbe: &Probe{
			Name:    "display profile query",
			Command: "system_profiler",
			Args:    []string{"SPDisplaysDataType"},
		},
		CacheRepairSteps: []string{
			"Open Terminal",
			"Run: atsutil databases -remove",
			"Restart the computer",
		},
		RestoreSteps: []string{
			"Restore /Library/Fonts and /System/Library/Fonts from a Time Machine backup",
			"Or reinstall the operating system",
		},
		ScalingRepairSteps: []string{
			"Open System Preferences > Displays",
			`Choose "Default for display" or "More Space"`,
			"Avoid scaled resolution options",
		},
	}
}

// ExpandPath expands a leading "~/" to the user's home directory and any
// environment references ($VAR or %VAR%) elsewhere in the path.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], string(filepath.Separator)))
		}
	}
	if strings.Contains(path, "%") {
		path = expandWindowsEnv(path)
	}
	return os.ExpandEnv(path)
}

// expandWindowsEnv expands %VAR% references, which os.ExpandEnv leaves alone.
func expandWindowsEnv(path string) string {
	var b strings.Builder
	rest := path
	for {
		start := strings.IndexByte(rest, '%')
		if start < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end := strings.IndexByte(rest[start+1:], '%')
		if end < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:start])
		b.WriteString(os.Getenv(rest[start+1 : start+1+end]))
		rest = rest[start+end+2:]
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
