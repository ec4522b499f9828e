package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maabuz/ishbot/internal/i18n"
	"github.com/maabuz/ishbot/internal/listing"
	"github.com/maabuz/ishbot/internal/model"
)

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.Load()
	require.NoError(t, err)
	return b
}

func TestNormalizeDescription(t *testing.T) {
	in := "<p>We need a <strong>Go developer</strong>.</p><p>Remote is <em>fine</em>.</p>"
	out := normalizeDescription(in)
	assert.Equal(t, "We need a <b>Go developer</b>.\nRemote is <i>fine</i>.", out)
}

func TestNormalizeDescriptionStripsListsAndBreaks(t *testing.T) {
	in := "<ul><li>Go</li><li>SQL</li></ul>Line<br/>Break"
	out := normalizeDescription(in)
	assert.NotContains(t, out, "<ul>")
	assert.NotContains(t, out, "<li>")
	assert.Contains(t, out, "Line\nBreak")
}

func TestNormalizeDescriptionCollapsesBlankRuns(t *testing.T) {
	out := normalizeDescription("<p>a</p><p></p><p></p><p>b</p>")
	assert.NotContains(t, out, "\n\n\n")
}

func TestRenderJobCard(t *testing.T) {
	bundle := testBundle(t)
	job := &model.JobPosting{
		ID:          1,
		Name:        "Go Developer",
		Company:     "ACME",
		Location:    "Tashkent",
		Skills:      "Go, SQL",
		Description: "<p>Build <strong>services</strong>.</p>",
		Link:        "https://example.com/1",
	}

	card := renderJobCard(bundle, model.LocaleEnglish, job)
	assert.Contains(t, card, "<b>Go Developer</b>")
	assert.Contains(t, card, "ACME")
	assert.Contains(t, card, "Build <b>services</b>.")
	assert.Contains(t, card, `<a href="https://example.com/1">`)
	assert.NotContains(t, card, "<strong>")
}

func TestRenderJobCardOmitsEmptyFields(t *testing.T) {
	bundle := testBundle(t)
	card := renderJobCard(bundle, model.LocaleEnglish, &model.JobPosting{ID: 2, Name: "Bare"})
	assert.Equal(t, "<b>Bare</b>", card)
}

func TestRenderJobsPageNumbering(t *testing.T) {
	bundle := testBundle(t)
	items := []model.JobPosting{
		{ID: 21, Name: "A", Company: "X"},
		{ID: 22, Name: "B", Company: "Y"},
	}
	hdr := listing.HeaderFor(12, 1, 10)

	page := renderJobsPage(bundle, model.LocaleEnglish, hdr, items)
	// Line numbers restart every page even though this is jobs 11-12 globally.
	assert.Contains(t, page, "<b>1.</b> A — X")
	assert.Contains(t, page, "<b>2.</b> B — Y")
	assert.Contains(t, page, "2/2")
	assert.Contains(t, page, "11–12")
}

func TestWireSourceRoundTrip(t *testing.T) {
	for _, src := range append([]model.Source{model.SourceAll, model.SourceDefault}, model.NamedSources...) {
		assert.Equal(t, src, model.ParseSource(wireSource(src)), string(src))
	}
}

func TestSourceLabelFallback(t *testing.T) {
	assert.Equal(t, "LinkedIn", sourceLabel(model.SourceLinkedIn))
	assert.Equal(t, "MAAB", sourceLabel(model.SourceDefault))
}
