// Package i18n loads the flat locale dictionaries and negotiates the visitor's language.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

// Bundle holds one flat key→string dictionary per supported language.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported []string
	matcher   language.Matcher
}

// Default loads the locales shipped with the binary, English and Arabic, with fallback as the
// default language. An empty fallback means English.
func Default(fallback string) (*Bundle, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	if fallback == "" {
		fallback = "en"
	}
	return Load(sub, fallback, []string{"en", "ar"})
}

// Load reads <lang>.json for every supported language from fsys. Only the fallback file is
// required.
func Load(fsys fs.FS, fallback string, supported []string) (*Bundle, error) {
	if len(supported) == 0 {
		supported = []string{fallback}
	}
	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
	}
	for _, l := range supported {
		raw, err := fs.ReadFile(fsys, path.Clean(l+".json"))
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
		b.supported = append(b.supported, l)
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
	}

	// The matcher's first tag is its default, so the fallback goes first.
	tags := []language.Tag{language.Make(fallback)}
	for _, l := range b.supported {
		if l != fallback {
			tags = append(tags, language.Make(l))
		}
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported returns the loaded languages in configuration order.
func (b *Bundle) Supported() []string {
	return append([]string(nil), b.supported...)
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// IsSupported reports whether lang has a loaded dictionary.
func (b *Bundle) IsSupported(lang string) bool {
	_, ok := b.dict[lang]
	return ok
}

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang, key string) string {
	if m, ok := b.dict[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Resolve chooses the best supported language from an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	acceptLang = strings.TrimSpace(acceptLang)
	if acceptLang == "" {
		return b.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(prefs) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No {
		return b.fallback
	}
	if idx == 0 {
		return b.fallback
	}
	return b.nonFallback()[idx-1]
}

func (b *Bundle) nonFallback() []string {
	out := make([]string, 0, len(b.supported))
	for _, l := range b.supported {
		if l != b.fallback {
			out = append(out, l)
		}
	}
	return out
}
