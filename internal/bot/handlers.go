package bot

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/maabuz/ishbot/core/telegram/callbacks"
	tghelpers "github.com/maabuz/ishbot/core/telegram/helpers"
	"github.com/maabuz/ishbot/core/telegram/keyboard"
	"github.com/maabuz/ishbot/internal/flow"
	"github.com/maabuz/ishbot/internal/i18n"
	"github.com/maabuz/ishbot/internal/listing"
	"github.com/maabuz/ishbot/internal/model"
	"github.com/maabuz/ishbot/internal/service"
)

func langOf(p model.UserProfile) string {
	if p.Lang == "" {
		return model.LocaleDefault
	}
	return p.Lang
}

// sendReply renders a flow directive to the chat.
func (a *App) sendReply(c tele.Context, lang string, r flow.Reply) error {
	text := a.bundle.T(lang, r.Key, r.Args)
	switch r.Keyboard {
	case flow.KbLanguage:
		return tghelpers.SendHTML(c, text, languageKeyboard(a.bundle))
	case flow.KbJoin:
		return tghelpers.SendHTML(c, text, joinKeyboard(a.bundle, lang, a.cfg.Bot.ChannelUsername))
	case flow.KbMainMenu:
		return tghelpers.SendHTML(c, text, mainMenuKeyboard(a.bundle, lang))
	case flow.KbContact:
		return tghelpers.SendHTML(c, text, contactKeyboard(a.bundle, lang))
	case flow.KbRemove:
		return tghelpers.SendHTML(c, text, keyboard.RemoveKeyboard())
	}
	return tghelpers.SendHTML(c, text)
}

func (a *App) handleStart(c tele.Context) error {
	a.gate.Bind(c.Bot())
	ctx := tghelpers.BuildContext(c)
	p, r, err := a.engine.Start(ctx, c.Sender().ID)
	if err != nil {
		return err
	}
	return a.sendReply(c, langOf(p), r)
}

// handleStats is the hidden admin command reporting store counters.
func (a *App) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	total, err := a.users.Count(ctx)
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf("users: %d\ncart limit: %d", total, a.carts.Limit()))
}

// handleFlowText feeds message text into the active registration step. It is
// registered as the FSM handler for every registration state.
func (a *App) handleFlowText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	r, handled, err := a.engine.SubmitText(ctx, userID, c.Text())
	if err != nil {
		return err
	}
	if !handled {
		return nil
	}
	p, perr := tghelpers.CurrentProfile(ctx, a.users, userID)
	if perr != nil {
		return perr
	}
	return a.sendReply(c, langOf(p), r)
}

// handleContact completes registration from a shared contact. The route is
// gated to the phone state, so an unexpected contact never reaches it.
func (a *App) handleContact(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Contact == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	r, handled, err := a.engine.SubmitContact(ctx, userID, msg.Contact.PhoneNumber)
	if err != nil {
		return err
	}
	if !handled {
		return nil
	}
	p, perr := tghelpers.CurrentProfile(ctx, a.users, userID)
	if perr != nil {
		return perr
	}
	return a.sendReply(c, langOf(p), r)
}

// handleMenuText routes reply-keyboard presses by their localized label.
// Unknown text outside a flow is ignored.
func (a *App) handleMenuText(c tele.Context) error {
	action, ok := a.menu[c.Text()]
	if !ok {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	p, err := tghelpers.CurrentProfile(ctx, a.users, c.Sender().ID)
	if err != nil {
		return err
	}
	lang := langOf(p)
	if !p.Registered {
		return tghelpers.SendHTML(c, a.bundle.T(lang, "not_registered", nil))
	}

	switch action {
	case i18n.ActionViewJobs:
		return tghelpers.SendHTML(c, a.bundle.T(lang, "choose_source", nil), sourceKeyboard(a.bundle, lang))
	case i18n.ActionMyCart:
		return a.showCart(c, p)
	case i18n.ActionChangeLang:
		return tghelpers.SendHTML(c, a.bundle.T(lang, "choose_language_title", nil), languageKeyboard(a.bundle))
	}
	return nil
}

func (a *App) handleLangCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	code := callbacks.CallbackPayload(c)
	p, r, err := a.engine.SetLanguage(ctx, c.Sender().ID, code)
	if err != nil {
		return err
	}
	// The chooser is stale once a locale is picked; replies that carry a
	// reply keyboard cannot be attached via edit anyway.
	_ = c.Delete()
	return a.sendReply(c, langOf(p), r)
}

func (a *App) handleJoinedCallback(c tele.Context) error {
	a.gate.Bind(c.Bot())
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	r, err := a.engine.ConfirmMembership(ctx, userID)
	if err != nil {
		return err
	}
	p, perr := tghelpers.CurrentProfile(ctx, a.users, userID)
	if perr != nil {
		return perr
	}
	if r.Keyboard == flow.KbNone {
		_ = c.Delete()
	}
	return a.sendReply(c, langOf(p), r)
}

func (a *App) handleSourceCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	p, err := tghelpers.CurrentProfile(ctx, a.users, c.Sender().ID)
	if err != nil {
		return err
	}
	src := model.ParseSource(callbacks.CallbackPayload(c))
	return a.showJobsPage(c, p, src, 0, true)
}

func (a *App) handlePageCallback(c tele.Context) error {
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 2 {
		return fmt.Errorf("page callback: malformed payload")
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("page callback: bad page %q: %w", parts[1], err)
	}

	ctx := tghelpers.BuildContext(c)
	p, err := tghelpers.CurrentProfile(ctx, a.users, c.Sender().ID)
	if err != nil {
		return err
	}
	return a.showJobsPage(c, p, model.ParseSource(parts[0]), page, true)
}

func (a *App) handlePickCallback(c tele.Context) error {
	src, jobID, page, err := jobCallbackArgs(c)
	if err != nil {
		return err
	}

	ctx := tghelpers.BuildContext(c)
	p, err := tghelpers.CurrentProfile(ctx, a.users, c.Sender().ID)
	if err != nil {
		return err
	}
	lang := langOf(p)

	jobs, err := a.loader.Load(ctx, src)
	if err != nil {
		return err
	}
	job, found := model.FindJob(jobs, jobID)
	if !found {
		return tghelpers.EditOrSendHTML(c, a.bundle.T(lang, "job_not_found", nil))
	}
	return tghelpers.EditHTML(c,
		renderJobCard(a.bundle, lang, &job),
		jobDetailKeyboard(a.bundle, lang, src, jobID, page),
	)
}

func (a *App) handleAddCallback(c tele.Context) error {
	_, jobID, _, err := jobCallbackArgs(c)
	if err != nil {
		return err
	}

	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	status, err := a.carts.Add(ctx, userID, jobID)
	if err != nil {
		return err
	}
	p, perr := tghelpers.CurrentProfile(ctx, a.users, userID)
	if perr != nil {
		return perr
	}
	lang := langOf(p)

	switch status {
	case service.StatusDuplicate:
		return tghelpers.SendHTML(c, a.bundle.T(lang, "added_dup", nil))
	case service.StatusLimit:
		return tghelpers.SendHTML(c, a.bundle.T(lang, "added_limit", map[string]any{"limit": a.carts.Limit()}))
	}
	return tghelpers.SendHTML(c, a.bundle.T(lang, "added_ok", nil))
}

func (a *App) handleDislikeCallback(c tele.Context) error {
	src, jobID, page, err := jobCallbackArgs(c)
	if err != nil {
		return err
	}

	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	status, err := a.carts.Dislike(ctx, userID, jobID)
	if err != nil {
		return err
	}
	p, perr := tghelpers.CurrentProfile(ctx, a.users, userID)
	if perr != nil {
		return perr
	}
	lang := langOf(p)

	key := "disliked_ok"
	if status == service.StatusDuplicate {
		key = "disliked_dup"
	}
	if err := tghelpers.SendHTML(c, a.bundle.T(lang, key, nil)); err != nil {
		return err
	}
	// The posting just disappeared from the listing; take the user back to
	// the page it was on, clamped if the page emptied out.
	return a.showJobsPage(c, p, src, page, true)
}

func (a *App) handleRemoveCallback(c tele.Context) error {
	jobID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return fmt.Errorf("remove callback: %w", err)
	}

	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	if _, err := a.carts.Remove(ctx, userID, jobID); err != nil {
		return err
	}
	p, perr := tghelpers.CurrentProfile(ctx, a.users, userID)
	if perr != nil {
		return perr
	}
	// Removal is idempotent: a second press lands on the same final state.
	return tghelpers.EditHTML(c, a.bundle.T(langOf(p), "removed_ok", nil))
}

func (a *App) handleMenuCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	p, err := tghelpers.CurrentProfile(ctx, a.users, c.Sender().ID)
	if err != nil {
		return err
	}
	lang := langOf(p)
	_ = c.Delete()
	return tghelpers.SendHTML(c,
		a.bundle.T(lang, "hello_registered", map[string]any{"full_name": p.FullName()}),
		mainMenuKeyboard(a.bundle, lang),
	)
}

// showJobsPage renders one page of the dislike-filtered listing for src.
// edit controls whether the current message is rewritten in place.
func (a *App) showJobsPage(c tele.Context, p model.UserProfile, src model.Source, page int, edit bool) error {
	ctx := tghelpers.BuildContext(c)
	lang := langOf(p)

	jobs, err := a.loader.Load(ctx, src)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return a.showOrSend(c, a.bundle.T(lang, "jobs_none", nil), nil, edit)
	}

	visible := listing.Visible(jobs, p.Disliked)
	if len(visible) == 0 {
		return a.showOrSend(c, a.bundle.T(lang, "no_visible_jobs", nil), nil, edit)
	}

	pageSize := a.cfg.Bot.PageSize
	page = listing.ClampPage(page, len(visible), pageSize)
	_, end, items := listing.Slice(visible, page, pageSize)
	hdr := listing.HeaderFor(len(visible), page, pageSize)

	text := renderJobsPage(a.bundle, lang, hdr, items)
	markup := pageKeyboard(a.bundle, lang, src, page, items,
		listing.HasPrev(page), listing.HasNext(end, len(visible)))
	return a.showOrSend(c, text, markup, edit)
}

func (a *App) showOrSend(c tele.Context, text string, markup *tele.ReplyMarkup, edit bool) error {
	if edit {
		if markup != nil {
			return tghelpers.EditOrSendHTML(c, text, markup)
		}
		return tghelpers.EditOrSendHTML(c, text)
	}
	if markup != nil {
		return tghelpers.SendHTML(c, text, markup)
	}
	return tghelpers.SendHTML(c, text)
}

// showCart sends every saved posting as its own message so each one carries
// its remove button.
func (a *App) showCart(c tele.Context, p model.UserProfile) error {
	lang := langOf(p)
	if len(p.Cart) == 0 {
		return tghelpers.SendHTML(c, a.bundle.T(lang, "cart_empty", nil))
	}

	ctx := tghelpers.BuildContext(c)
	jobs, err := a.loadAllJobs(ctx)
	if err != nil {
		return err
	}

	sent := 0
	for _, id := range p.Cart {
		job, found := model.FindJob(jobs, id)
		if !found {
			// Catalog rotated since the job was saved; skip the orphan.
			continue
		}
		if err := tghelpers.SendHTML(c,
			renderCartItem(a.bundle, lang, &job),
			cartItemKeyboard(a.bundle, lang, job.ID),
		); err != nil {
			return err
		}
		sent++
	}
	if sent == 0 {
		return tghelpers.SendHTML(c, a.bundle.T(lang, "cart_empty", nil))
	}
	return nil
}

// loadAllJobs concatenates every catalog, named sources first and the legacy
// file last, so cart lookups can resolve a job saved from any source.
func (a *App) loadAllJobs(ctx context.Context) ([]model.JobPosting, error) {
	named, err := a.loader.Load(ctx, model.SourceAll)
	if err != nil {
		return nil, err
	}
	legacy, err := a.loader.Load(ctx, model.SourceDefault)
	if err != nil {
		return nil, err
	}
	return append(named, legacy...), nil
}

func jobCallbackArgs(c tele.Context) (model.Source, int64, int, error) {
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 3 {
		return model.SourceDefault, 0, 0, fmt.Errorf("job callback: malformed payload")
	}
	jobID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return model.SourceDefault, 0, 0, fmt.Errorf("job callback: bad job id %q: %w", parts[1], err)
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return model.SourceDefault, 0, 0, fmt.Errorf("job callback: bad page %q: %w", parts[2], err)
	}
	return model.ParseSource(parts[0]), jobID, page, nil
}
