package software

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontdoctor/fontdoctor/internal/platform"
)

func identityExpand(p string) string { return p }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testProfile(fontDirs ...string) platform.Profile {
	return platform.Profile{
		Family:      platform.FamilyLinux,
		DisplayName: "Linux",
		FontDirs:    fontDirs,
	}
}

func TestFirstFamily(t *testing.T) {
	cases := map[string]string{
		"Fira Code":                      "Fira Code",
		"'Fira Code', monospace":         "Fira Code",
		`"JetBrains Mono", 'Consolas'`:   "JetBrains Mono",
		"  Cascadia Code , sans-serif  ": "Cascadia Code",
		"":                               "",
	}
	for input, want := range cases {
		assert.Equal(t, want, firstFamily(input), "input %q", input)
	}
}

func TestScanSkipsUndetectedApps(t *testing.T) {
	tmp := t.TempDir()
	apps := []appSpec{{
		name:        "Ghost App",
		detectPaths: []string{filepath.Join(tmp, "definitely-missing")},
		checks: []check{func(*Scanner, *appSpec) []Finding {
			t.Fatal("check must not run for an undetected app")
			return nil
		}},
	}}
	s := NewScanner(testProfile(), WithExpander(identityExpand), withApps(apps))
	assert.Empty(t, s.Scan())
}

func TestScanSkipsOtherPlatformApps(t *testing.T) {
	tmp := t.TempDir()
	apps := []appSpec{{
		name:        "Windows Only",
		families:    []platform.Family{platform.FamilyWindows},
		detectPaths: []string{tmp},
		checks: []check{func(*Scanner, *appSpec) []Finding {
			return []Finding{{App: "Windows Only", Detail: "x"}}
		}},
	}}
	s := NewScanner(testProfile(), WithExpander(identityExpand), withApps(apps))
	assert.Empty(t, s.Scan())
}

func TestWildcardDetection(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "IntelliJIdea2024.1"), 0o755))

	s := NewScanner(testProfile(), WithExpander(identityExpand))
	resolved := s.resolveFirst([]string{filepath.Join(tmp, "IntelliJIdea*")})
	assert.Equal(t, filepath.Join(tmp, "IntelliJIdea2024.1"), resolved)
}

func TestCacheArtifactCheck(t *testing.T) {
	tmp := t.TempDir()
	appDir := filepath.Join(tmp, "app")
	cacheDir := filepath.Join(tmp, "cache")
	require.NoError(t, os.MkdirAll(appDir, 0o755))

	newScanner := func() *Scanner {
		apps := []appSpec{{
			name:        "Adobe Creative Cloud",
			detectPaths: []string{appDir},
			checks: []check{
				cacheArtifactCheck([]string{cacheDir}, ".lst", "re-sync fonts"),
			},
		}}
		return NewScanner(testProfile(), WithExpander(identityExpand), withApps(apps))
	}

	t.Run("missing cache dir", func(t *testing.T) {
		findings := newScanner().Scan()
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Detail, "missing")
	})

	t.Run("cache dir without artifacts", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(cacheDir, 0o755))
		writeFile(t, filepath.Join(cacheDir, "readme.txt"), "")
		findings := newScanner().Scan()
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Detail, ".lst")
	})

	t.Run("healthy cache", func(t *testing.T) {
		writeFile(t, filepath.Join(cacheDir, "fonts.lst"), "")
		assert.Empty(t, newScanner().Scan())
	})
}

func TestFontSetCheck(t *testing.T) {
	tmp := t.TempDir()
	fontDir := filepath.Join(tmp, "fonts")
	appDir := filepath.Join(tmp, "office")
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	writeFile(t, filepath.Join(fontDir, "Calibri.ttf"), "font")

	apps := []appSpec{{
		name:        "Microsoft Office",
		detectPaths: []string{appDir},
		checks: []check{
			fontSetCheck([]string{"Calibri.ttf", "Cambria.ttf"}, "repair Office"),
		},
	}}
	s := NewScanner(testProfile(fontDir), WithExpander(identityExpand), withApps(apps))

	findings := s.Scan()
	require.Len(t, findings, 1)
	assert.Equal(t, "Microsoft Office", findings[0].App)
	assert.Contains(t, findings[0].Detail, "Cambria.ttf")
	assert.NotContains(t, findings[0].Detail, "Calibri.ttf")
}

func TestConfigFontCheckVSCode(t *testing.T) {
	tmp := t.TempDir()
	fontDir := filepath.Join(tmp, "fonts")
	appDir := filepath.Join(tmp, "vscode")
	settings := filepath.Join(appDir, "settings.json")
	require.NoError(t, os.MkdirAll(fontDir, 0o755))
	writeFile(t, settings, `{"editor.fontFamily": "'Fira Code', monospace"}`)

	newScanner := func() *Scanner {
		apps := []appSpec{{
			name:        "Visual Studio Code",
			detectPaths: []string{appDir},
			checks: []check{
				configFontCheck([]string{settings}, "editor.fontFamily", extractVSCodeFont),
			},
		}}
		return NewScanner(testProfile(fontDir), WithExpander(identityExpand), withApps(apps))
	}

	findings := newScanner().Scan()
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Detail, `"Fira Code"`)
	assert.Contains(t, findings[0].Suggestion, "editor.fontFamily")

	// Installing the family under any probed extension clears the finding.
	writeFile(t, filepath.Join(fontDir, "Fira Code.otf"), "font")
	assert.Empty(t, newScanner().Scan())
}

func TestConfigFontCheckMalformedSettings(t *testing.T) {
	tmp := t.TempDir()
	appDir := filepath.Join(tmp, "vscode")
	settings := filepath.Join(appDir, "settings.json")
	writeFile(t, settings, `{not json`)

	apps := []appSpec{{
		name:        "Visual Studio Code",
		detectPaths: []string{appDir},
		checks: []check{
			configFontCheck([]string{settings}, "editor.fontFamily", extractVSCodeFont),
		},
	}}
	s := NewScanner(testProfile(), WithExpander(identityExpand), withApps(apps))
	assert.Empty(t, s.Scan())
}

func TestExtractIntelliJFont(t *testing.T) {
	doc := `<application>
  <component name="DefaultFont">
    <option name="FONT_SIZE" value="13"/>
    <option name="FONT_FAMILY" value="JetBrains Mono"/>
  </component>
</application>`

	family, ok := extractIntelliJFont([]byte(doc))
	require.True(t, ok)
	assert.Equal(t, "JetBrains Mono", family)

	_, ok = extractIntelliJFont([]byte(`<application/>`))
	assert.False(t, ok)

	_, ok = extractIntelliJFont([]byte(`not xml at all`))
	assert.False(t, ok)
}

func TestExtractAlacrittyFont(t *testing.T) {
	doc := `
[font]
size = 12.0

[font.normal]
family = "Cascadia Code"
style = "Regular"
`
	family, ok := extractAlacrittyFont([]byte(doc))
	require.True(t, ok)
	assert.Equal(t, "Cascadia Code", family)

	_, ok = extractAlacrittyFont([]byte("[font]\nsize = 12.0\n"))
	assert.False(t, ok)

	_, ok = extractAlacrittyFont([]byte("= broken"))
	assert.False(t, ok)
}

func TestExtractVSCodeFontMissingKey(t *testing.T) {
	_, ok := extractVSCodeFont([]byte(`{"editor.fontSize": 13}`))
	assert.False(t, ok)
}

func TestDefaultRegistryAppliesPlatformFilters(t *testing.T) {
	var windowsOnly, everywhere int
	for _, app := range defaultRegistry() {
		if app.appliesTo(platform.FamilyLinux) {
			everywhere++
		} else {
			windowsOnly++
		}
	}
	assert.Equal(t, 2, windowsOnly, "Adobe and Office are Windows-specific")
	assert.Equal(t, 3, everywhere)
}
