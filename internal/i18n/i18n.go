// Package i18n resolves interface strings for the supported languages from
// catalogs embedded in the binary.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Default is used when no language has been chosen.
const Default = "en"

// Language is a selectable interface language.
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var languages = []Language{
	{Code: "en", Label: "English"},
	{Code: "ru", Label: "Русский"},
	{Code: "ua", Label: "Українська"},
	{Code: "es", Label: "Español"},
	{Code: "kr", Label: "한국어"},
	{Code: "fr", Label: "Français"},
}

//go:embed locales/*.json
var locales embed.FS

var (
	loadOnce sync.Once
	catalogs map[string]map[string]string
	loadErr  error
)

// Languages lists the supported languages in menu order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Supported reports whether code names a supported language.
func Supported(code string) bool {
	for _, l := range languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Translate returns the string for key in lang, falling back to English and
// then to the key itself. Each {name} placeholder is replaced once from params.
func Translate(lang, key string, params map[string]any) string {
	all := load()
	value := all[lang][key]
	if value == "" {
		value = all[Default][key]
	}
	if value == "" {
		value = key
	}
	for name, v := range params {
		value = strings.Replace(value, "{"+name+"}", fmt.Sprint(v), 1)
	}
	return value
}

// Translator binds Translate to one language.
type Translator func(key string, params map[string]any) string

// For returns a Translator for lang.
func For(lang string) Translator {
	return func(key string, params map[string]any) string {
		return Translate(lang, key, params)
	}
}

func load() map[string]map[string]string {
	loadOnce.Do(func() {
		catalogs = make(map[string]map[string]string, len(languages))
		for _, l := range languages {
			raw, err := locales.ReadFile("locales/" + l.Code + ".json")
			if err != nil {
				loadErr = fmt.Errorf("read %s catalog: %w", l.Code, err)
				continue
			}
			entries := map[string]string{}
			if err := json.Unmarshal(raw, &entries); err != nil {
				loadErr = fmt.Errorf("decode %s catalog: %w", l.Code, err)
				continue
			}
			catalogs[l.Code] = entries
		}
	})
	return catalogs
}

// Validate reports the first catalog that failed to load.
func Validate() error {
	load()
	return loadErr
}
