// Package i18n serves the bot's localized strings. Locale tables are YAML
// files embedded at build time; lookups fall back to the default locale and
// finally to the raw key so a missing translation never breaks a reply.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maabuz/ishbot/core/logger"
	"github.com/maabuz/ishbot/internal/model"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Bundle holds the parsed locale tables.
type Bundle struct {
	tables map[string]map[string]string
}

// Load parses every embedded locale file. It fails when the default locale is
// absent, since it is the fallback for all lookups.
func Load() (*Bundle, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	tables := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		lang := strings.TrimSuffix(name, path.Ext(name))
		data, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}
		table := map[string]string{}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		tables[lang] = table
	}

	if _, ok := tables[model.LocaleDefault]; !ok {
		return nil, fmt.Errorf("default locale %q missing", model.LocaleDefault)
	}

	logger.I18N.LogAttrs(context.Background(), slog.LevelDebug, "locales loaded",
		slog.String("event", "i18n.load"),
		slog.Int("count", len(tables)),
	)
	return &Bundle{tables: tables}, nil
}

// T resolves key for lang and substitutes {name} placeholders from args.
// Unknown locales resolve through the default locale; unknown keys fall back
// to the default locale's entry and then to the key itself. When a
// placeholder has no matching arg the unformatted template is returned
// instead of partial output.
func (b *Bundle) T(lang, key string, args map[string]any) string {
	table, ok := b.tables[lang]
	if !ok {
		table = b.tables[model.LocaleDefault]
	}
	text, ok := table[key]
	if !ok {
		if text, ok = b.tables[model.LocaleDefault][key]; !ok {
			return key
		}
	}
	if len(args) == 0 {
		return text
	}
	return render(text, args)
}

// Has reports whether lang has its own table.
func (b *Bundle) Has(lang string) bool {
	_, ok := b.tables[lang]
	return ok
}

func render(template string, args map[string]any) string {
	out := template
	for name, value := range args {
		out = strings.ReplaceAll(out, "{"+name+"}", fmt.Sprint(value))
	}
	if missingPlaceholder(out) {
		return template
	}
	return out
}

// missingPlaceholder detects a leftover {name} token after substitution.
func missingPlaceholder(s string) bool {
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			return false
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			return false
		}
		inner := s[open+1 : open+end]
		if inner != "" && !strings.ContainsAny(inner, " \n\t{") {
			return true
		}
		s = s[open+1:]
	}
}
