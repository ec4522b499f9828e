package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maabuz/ishbot/internal/model"
)

func loadBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load()
	require.NoError(t, err)
	return b
}

func TestAllLocalesEmbedded(t *testing.T) {
	b := loadBundle(t)
	for _, lang := range model.Locales {
		assert.True(t, b.Has(lang), lang)
	}
}

func TestPlaceholderSubstitution(t *testing.T) {
	b := loadBundle(t)
	out := b.T(model.LocaleEnglish, "hello_registered", map[string]any{"full_name": "John Smith"})
	assert.Contains(t, out, "John Smith")
	assert.NotContains(t, out, "{full_name}")
}

func TestUnknownLangFallsBackToDefault(t *testing.T) {
	b := loadBundle(t)
	assert.Equal(t,
		b.T(model.LocaleDefault, "ask_password", nil),
		b.T("de", "ask_password", nil),
	)
}

func TestUnknownKeyReturnsKey(t *testing.T) {
	b := loadBundle(t)
	assert.Equal(t, "no_such_key", b.T(model.LocaleEnglish, "no_such_key", nil))
}

func TestMenuActionsCoverEveryLocale(t *testing.T) {
	b := loadBundle(t)
	actions := b.MenuActions()

	for _, lang := range model.Locales {
		for _, action := range []Action{ActionViewJobs, ActionMyCart, ActionChangeLang} {
			label := b.MenuLabel(lang, action)
			require.NotEmpty(t, label)
			assert.Equal(t, action, actions[label], "%s/%s", lang, action)
		}
	}
}

func TestMenuLabelsDistinctWithinLocale(t *testing.T) {
	b := loadBundle(t)
	for _, lang := range model.Locales {
		seen := map[string]struct{}{}
		for _, action := range []Action{ActionViewJobs, ActionMyCart, ActionChangeLang} {
			label := b.MenuLabel(lang, action)
			_, dup := seen[label]
			require.False(t, dup, "duplicate label %q in %s", label, lang)
			seen[label] = struct{}{}
		}
	}
}
