package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/maabuz/ishbot/internal/i18n"
	"github.com/maabuz/ishbot/internal/listing"
	"github.com/maabuz/ishbot/internal/model"
)

// Display names for job sources. Brand names, not localized.
var sourceLabels = map[model.Source]string{
	model.SourceHH:       "HH.uz",
	model.SourceLinkedIn: "LinkedIn",
	model.SourceOLX:      "OLX",
	model.SourceIshUZ:    "Ish.uz",
}

func sourceLabel(src model.Source) string {
	if label, ok := sourceLabels[src]; ok {
		return label
	}
	return "MAAB"
}

var (
	htmlParaOpenRe  = regexp.MustCompile(`(?i)<p[^>]*>`)
	htmlParaCloseRe = regexp.MustCompile(`(?i)</p>`)
	htmlStrongRe    = regexp.MustCompile(`(?i)<(/?)strong>`)
	htmlEmRe        = regexp.MustCompile(`(?i)<(/?)em>`)
	htmlBreakRe     = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlStripRe     = regexp.MustCompile(`(?i)</?(ul|ol|li|div|span|h[1-6])[^>]*>`)
	blankRunsRe     = regexp.MustCompile(`\n{3,}`)
)

// normalizeDescription rewrites scraped HTML descriptions into the small tag
// set Telegram accepts: paragraphs and breaks become newlines, strong/em
// become b/i, list and block wrappers are stripped.
func normalizeDescription(s string) string {
	s = htmlParaOpenRe.ReplaceAllString(s, "")
	s = htmlParaCloseRe.ReplaceAllString(s, "\n")
	s = htmlBreakRe.ReplaceAllString(s, "\n")
	s = htmlStrongRe.ReplaceAllString(s, "<${1}b>")
	s = htmlEmRe.ReplaceAllString(s, "<${1}i>")
	s = htmlStripRe.ReplaceAllString(s, "")
	s = blankRunsRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// renderJobCard builds the HTML detail card for a single posting.
func renderJobCard(bundle *i18n.Bundle, lang string, job *model.JobPosting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", job.Name)
	if job.Company != "" {
		fmt.Fprintf(&b, "🏢 %s\n", job.Company)
	}
	if job.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", job.Location)
	}
	if job.Skills != "" {
		fmt.Fprintf(&b, "🛠 %s\n", job.Skills)
	}
	if desc := normalizeDescription(job.Description); desc != "" {
		fmt.Fprintf(&b, "\n%s\n", desc)
	}
	if job.Link != "" {
		fmt.Fprintf(&b, "\n🔗 <a href=\"%s\">%s</a>", job.Link, bundle.T(lang, "job_apply_link", nil))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderJobsPage builds the listing text: a localized header followed by one
// numbered line per visible posting. Line numbers restart at 1 on every page;
// the global job id travels only inside callback payloads.
func renderJobsPage(bundle *i18n.Bundle, lang string, hdr listing.Header, items []model.JobPosting) string {
	var b strings.Builder
	b.WriteString(bundle.T(lang, "jobs_header", map[string]any{
		"total": hdr.Total,
		"page":  hdr.PageNumber,
		"pages": hdr.PageCount,
		"start": hdr.DisplayStart,
		"end":   hdr.DisplayEnd,
	}))
	b.WriteString("\n\n")
	for i, job := range items {
		fmt.Fprintf(&b, "<b>%d.</b> %s — %s\n", i+1, job.Name, job.Company)
	}
	b.WriteString("\n")
	b.WriteString(bundle.T(lang, "jobs_list_footer", nil))
	return b.String()
}

// renderCartItem builds one cart entry line from its locale template.
func renderCartItem(bundle *i18n.Bundle, lang string, job *model.JobPosting) string {
	return bundle.T(lang, "cart_item_line", map[string]any{
		"name":     job.Name,
		"company":  job.Company,
		"location": job.Location,
		"link":     job.Link,
	})
}
