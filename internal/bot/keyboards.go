package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/maabuz/ishbot/core/telegram/keyboard"
	"github.com/maabuz/ishbot/internal/i18n"
	"github.com/maabuz/ishbot/internal/model"
)

// Callback uniques. Payload layout is documented next to each builder.
const (
	cbLang    = "lang"    // payload: locale code
	cbJoined  = "joined"  // no payload
	cbSource  = "src"     // payload: source token
	cbPage    = "page"    // payload: source|page
	cbPick    = "pick"    // payload: source|job_id|page
	cbAdd     = "add"     // payload: source|job_id|page
	cbDislike = "dislike" // payload: source|job_id|page
	cbRemove  = "rm"      // payload: job_id
	cbMenu    = "menu"    // no payload
)

const sourcesPerRow = 2

// wireSource encodes a source for callback payloads. The default catalog has
// no name of its own so it travels as "legacy"; ParseSource maps any unknown
// token back to the default source.
func wireSource(src model.Source) string {
	if src == model.SourceDefault {
		return "legacy"
	}
	return string(src)
}

func pagePayload(src model.Source, page int) string {
	return fmt.Sprintf("%s|%d", wireSource(src), page)
}

func jobPayload(src model.Source, jobID int64, page int) string {
	return fmt.Sprintf("%s|%d|%d", wireSource(src), jobID, page)
}

// languageKeyboard offers every supported locale on one row.
func languageKeyboard(bundle *i18n.Bundle) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(model.Locales))
	for _, code := range model.Locales {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   bundle.T(model.LocaleDefault, "btn_lang_"+code, nil),
			Unique: cbLang,
			Data:   code,
		})
	}
	return keyboard.InlineButtonsNPerRow(buttons, len(buttons))
}

// joinKeyboard links to the channel and offers the "I joined" confirmation.
func joinKeyboard(bundle *i18n.Bundle, lang, channelUsername string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, 2)
	if channelUsername != "" {
		url := "https://t.me/" + channelUsername
		rows = append(rows, markup.Row(markup.URL(bundle.T(lang, "btn_goto_channel", nil), url)))
	}
	rows = append(rows, markup.Row(markup.Data(bundle.T(lang, "btn_joined", nil), cbJoined)))
	markup.Inline(rows...)
	return markup
}

// mainMenuKeyboard is the persistent reply keyboard: jobs and cart on the
// first row, language change on its own row.
func mainMenuKeyboard(bundle *i18n.Bundle, lang string) *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{
			bundle.MenuLabel(lang, i18n.ActionViewJobs),
			bundle.MenuLabel(lang, i18n.ActionMyCart),
		},
		[]string{bundle.MenuLabel(lang, i18n.ActionChangeLang)},
	)
}

// contactKeyboard offers the share-contact button plus the manual fallback.
func contactKeyboard(bundle *i18n.Bundle, lang string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Contact(bundle.T(lang, "btn_share_phone", nil))),
		markup.Row(markup.Text(bundle.T(lang, "btn_manual_phone", nil))),
	)
	return markup
}

// sourceKeyboard lists the named catalogs two per row with an "all" button on
// top; order follows model.NamedSources.
func sourceKeyboard(bundle *i18n.Bundle, lang string) *tele.ReplyMarkup {
	buttons := []keyboard.InlineBtn{{
		Text:   bundle.T(lang, "btn_src_all", nil),
		Unique: cbSource,
		Data:   string(model.SourceAll),
	}}
	for _, src := range model.NamedSources {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   sourceLabel(src),
			Unique: cbSource,
			Data:   string(src),
		})
	}
	rows := [][]keyboard.InlineBtn{buttons[:1]}
	for i := 1; i < len(buttons); i += sourcesPerRow {
		end := i + sourcesPerRow
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return keyboard.InlineButtonsRows(rows...)
}

// pageKeyboard renders numbered pick buttons for the visible slice, then the
// prev/next navigation row, then the menu row.
func pageKeyboard(bundle *i18n.Bundle, lang string, src model.Source, page int, items []model.JobPosting, hasPrev, hasNext bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	// Pick labels restart at 1 on every page; the job id is only in the payload.
	picks := make([]tele.Btn, 0, len(items))
	for i, job := range items {
		picks = append(picks, markup.Data(
			strconv.Itoa(i+1),
			cbPick,
			jobPayload(src, job.ID, page),
		))
	}
	rows := keyboard.ChunkButtons(picks, 5)

	var nav []tele.Btn
	if hasPrev {
		nav = append(nav, markup.Data(bundle.T(lang, "btn_prev", nil), cbPage, pagePayload(src, page-1)))
	}
	if hasNext {
		nav = append(nav, markup.Data(bundle.T(lang, "btn_next", nil), cbPage, pagePayload(src, page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []tele.Btn{markup.Data(bundle.T(lang, "btn_menu", nil), cbMenu)})

	markup.InlineKeyboard = keyboard.ToInlineKeyboard(rows)
	return markup
}

// jobDetailKeyboard offers cart/dislike actions plus a way back to the page
// the posting was picked from.
func jobDetailKeyboard(bundle *i18n.Bundle, lang string, src model.Source, jobID int64, page int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = keyboard.ToInlineKeyboard([][]tele.Btn{
		{
			markup.Data(bundle.T(lang, "btn_add_cart", nil), cbAdd, jobPayload(src, jobID, page)),
			markup.Data(bundle.T(lang, "btn_dislike", nil), cbDislike, jobPayload(src, jobID, page)),
		},
		{markup.Data(bundle.T(lang, "btn_back_list", nil), cbPage, pagePayload(src, page))},
	})
	return markup
}

// cartItemKeyboard attaches the remove action to a single cart entry.
func cartItemKeyboard(bundle *i18n.Bundle, lang string, jobID int64) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = keyboard.ToInlineKeyboard([][]tele.Btn{
		{markup.Data(bundle.T(lang, "btn_remove_from_cart", nil), cbRemove, strconv.FormatInt(jobID, 10))},
	})
	return markup
}
