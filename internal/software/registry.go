package software

import (
	"bytes"
	"encoding/json"
	"encoding/xml"

	"github.com/BurntSushi/toml"

	"github.com/fontdoctor/fontdoctor/internal/platform"
)

// defaultRegistry declares every application fontdoctor knows how to scan.
func defaultRegistry() []appSpec {
	return []appSpec{
		{
			name:     "Adobe Creative Cloud",
			families: []platform.Family{platform.FamilyWindows},
			detectPaths: []string{
				`C:\Program Files\Adobe`,
			},
			checks: []check{
				cacheArtifactCheck(
					[]string{`%APPDATA%\Adobe\CoreSync\plugins\livetype\c`},
					".lst",
					"Sign out of Creative Cloud, sign back in, and re-sync your fonts",
				),
			},
		},
		{
			name:     "Microsoft Office",
			families: []platform.Family{platform.FamilyWindows},
			detectPaths: []string{
				`C:\Program Files\Microsoft Office`,
			},
			checks: []check{
				fontSetCheck(
					[]string{"Calibri.ttf", "Cambria.ttf", "Consolas.ttf"},
					"Repair Microsoft Office from Settings > Apps to restore its fonts",
				),
			},
		},
		{
			name: "Visual Studio Code",
			detectPaths: []string{
				"~/.vscode",
				`~/AppData/Roaming/Code`,
			},
			checks: []check{
				configFontCheck(
					[]string{
						`~/AppData/Roaming/Code/User/settings.json`,
						"~/.config/Code/User/settings.json",
						"~/Library/Application Support/Code/User/settings.json",
					},
					"editor.fontFamily",
					extractVSCodeFont,
				),
			},
		},
		{
			name: "JetBrains IntelliJ IDEA",
			detectPaths: []string{
				"~/.IntelliJIdea*",
				"~/Library/Preferences/IntelliJIdea*",
			},
			checks: []check{
				configFontCheck(
					[]string{
						"~/.IntelliJIdea*/config/options/editor.xml",
						"~/.IntelliJIdea*/options/editor.xml",
						"~/Library/Preferences/IntelliJIdea*/options/editor.xml",
					},
					"FONT_FAMILY",
					extractIntelliJFont,
				),
			},
		},
		{
			name: "Alacritty",
			detectPaths: []string{
				"~/.config/alacritty",
				`%APPDATA%\alacritty`,
			},
			checks: []check{
				configFontCheck(
					[]string{
						"~/.config/alacritty/alacritty.toml",
						`%APPDATA%\alacritty\alacritty.toml`,
					},
					"font.normal.family",
					extractAlacrittyFont,
				),
			},
		},
	}
}

// extractVSCodeFont reads editor.fontFamily from a settings.json document.
func extractVSCodeFont(data []byte) (string, bool) {
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return "", false
	}
	value, ok := settings["editor.fontFamily"].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// extractIntelliJFont reads the FONT_FAMILY option from an editor.xml
// document.
func extractIntelliJFont(data []byte) (string, bool) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", false
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "option" {
			continue
		}
		var name, value string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "name":
				name = attr.Value
			case "value":
				value = attr.Value
			}
		}
		if name == "FONT_FAMILY" && value != "" {
			return value, true
		}
	}
}

// extractAlacrittyFont reads font.normal.family from an alacritty.toml
// document.
func extractAlacrittyFont(data []byte) (string, bool) {
	var cfg struct {
		Font struct {
			Normal struct {
				Family string `toml:"family"`
			} `toml:"normal"`
		} `toml:"font"`
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return "", false
	}
	if cfg.Font.Normal.Family == "" {
		return "", false
	}
	return cfg.Font.Normal.Family, true
}
