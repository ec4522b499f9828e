// Package flow drives the registration conversation: language selection,
// channel membership, password gate, then name and phone capture. The durable
// profile only ever sees completed registrations; everything captured mid-flow
// lives in the FSM session and is committed in one write when the phone step
// succeeds. The engine returns render directives instead of talking to
// Telegram, which keeps every transition testable without a live bot.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maabuz/ishbot/core/logger"
	"github.com/maabuz/ishbot/core/telegram/state"
	"github.com/maabuz/ishbot/internal/i18n"
	"github.com/maabuz/ishbot/internal/model"
	"github.com/maabuz/ishbot/internal/store"
)

// FSM states of the registration flow. Absence of a state (idle session)
// means no flow is active; it is never inferred from profile fields.
const (
	StateAwaitPassword  state.State = "reg_password"
	StateAwaitFirstName state.State = "reg_first_name"
	StateAwaitLastName  state.State = "reg_last_name"
	StateAwaitPhone     state.State = "reg_phone"
)

// Session temp-data keys for in-flight values.
const (
	tempFirstName = "reg_first_name"
	tempLastName  = "reg_last_name"
)

// Keyboard tells the handler which reply markup to attach.
type Keyboard int

const (
	KbNone Keyboard = iota
	KbLanguage
	KbJoin
	KbMainMenu
	KbContact
	KbRemove
)

// Reply is a render directive: an i18n key, its args, and a keyboard.
type Reply struct {
	Key      string
	Args     map[string]any
	Keyboard Keyboard
}

// MembershipChecker verifies channel membership. Implementations must fail
// open to false on transport errors.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID int64) bool
}

// PasswordFunc reads the acceptable shared secrets, fresh per attempt.
type PasswordFunc func() (map[string]struct{}, error)

// Engine is the registration state machine.
type Engine struct {
	users     *store.Users
	sessions  state.Manager
	bundle    *i18n.Bundle
	passwords PasswordFunc
	members   MembershipChecker
}

// NewEngine wires the state machine to its collaborators.
func NewEngine(users *store.Users, sessions state.Manager, bundle *i18n.Bundle, passwords PasswordFunc, members MembershipChecker) *Engine {
	return &Engine{
		users:     users,
		sessions:  sessions,
		bundle:    bundle,
		passwords: passwords,
		members:   members,
	}
}

// Start handles the entry command. Registered users short-circuit to the main
// menu regardless of any persisted flow position.
func (e *Engine) Start(ctx context.Context, userID int64) (model.UserProfile, Reply, error) {
	p, err := e.users.GetOrCreate(ctx, userID)
	if err != nil {
		return model.UserProfile{}, Reply{}, err
	}
	switch {
	case p.Lang == "":
		return p, Reply{Key: "choose_language_title", Keyboard: KbLanguage}, nil
	case p.Registered:
		return p, greeting(&p), nil
	}
	return p, Reply{Key: "ask_join", Keyboard: KbJoin}, nil
}

// SetLanguage persists the selected locale. For an already registered user
// this is a terminal short-circuit back to the menu, not a flow restart.
func (e *Engine) SetLanguage(ctx context.Context, userID int64, code string) (model.UserProfile, Reply, error) {
	if !model.KnownLocale(code) {
		code = model.LocaleDefault
	}
	p, err := e.users.Mutate(ctx, userID, func(p *model.UserProfile) {
		p.Lang = code
	})
	if err != nil {
		return model.UserProfile{}, Reply{}, err
	}
	e.logTransition(ctx, userID, "language", string(e.sessions.GetState(userID)))
	if p.Registered {
		return p, greeting(&p), nil
	}
	return p, Reply{Key: "ask_join", Keyboard: KbJoin}, nil
}

// ConfirmMembership advances past the channel gate when the external check
// passes, otherwise re-presents the join prompt.
func (e *Engine) ConfirmMembership(ctx context.Context, userID int64) (Reply, error) {
	if !e.members.IsMember(ctx, userID) {
		return Reply{Key: "not_joined", Keyboard: KbJoin}, nil
	}
	e.sessions.SetState(userID, StateAwaitPassword)
	e.logTransition(ctx, userID, "membership", string(StateAwaitPassword))
	return Reply{Key: "ask_password"}, nil
}

// InProgress reports whether the user has an active registration flow.
func (e *Engine) InProgress(userID int64) bool {
	return e.sessions.InProgress(userID)
}

// SubmitText feeds free text into the active flow step. handled is false when
// no registration state is active for the user.
func (e *Engine) SubmitText(ctx context.Context, userID int64, text string) (Reply, bool, error) {
	text = strings.TrimSpace(text)
	switch e.sessions.GetState(userID) {
	case StateAwaitPassword:
		r, err := e.submitPassword(ctx, userID, text)
		return r, true, err
	case StateAwaitFirstName:
		return e.submitName(ctx, userID, text, tempFirstName, StateAwaitLastName, "ask_first_name", "ask_last_name"), true, nil
	case StateAwaitLastName:
		r := e.submitName(ctx, userID, text, tempLastName, StateAwaitPhone, "ask_last_name", "ask_phone")
		if r.Key == "ask_phone" {
			r.Keyboard = KbContact
		}
		return r, true, nil
	case StateAwaitPhone:
		r, err := e.submitPhoneText(ctx, userID, text)
		return r, true, err
	}
	return Reply{}, false, nil
}

// SubmitContact completes the flow from a shared-contact payload. The phone
// number is accepted unconditionally. handled is false outside the phone step.
func (e *Engine) SubmitContact(ctx context.Context, userID int64, phone string) (Reply, bool, error) {
	if e.sessions.GetState(userID) != StateAwaitPhone {
		return Reply{}, false, nil
	}
	r, err := e.complete(ctx, userID, strings.TrimSpace(phone))
	return r, true, err
}

func (e *Engine) submitPassword(ctx context.Context, userID int64, pwd string) (Reply, error) {
	if pwd == "" {
		return Reply{Key: "ask_password"}, nil
	}
	passwords, err := e.passwords()
	if err != nil {
		return Reply{}, fmt.Errorf("load passwords: %w", err)
	}
	if _, ok := passwords[pwd]; !ok {
		return Reply{Key: "wrong_password"}, nil
	}
	e.sessions.SetState(userID, StateAwaitFirstName)
	e.logTransition(ctx, userID, "password", string(StateAwaitFirstName))
	return Reply{Key: "ask_first_name", Keyboard: KbRemove}, nil
}

func (e *Engine) submitName(ctx context.Context, userID int64, value, tempKey string, next state.State, reprompt, advance string) Reply {
	if value == "" {
		return Reply{Key: reprompt}
	}
	e.sessions.SetTemp(userID, tempKey, value)
	e.sessions.SetState(userID, next)
	e.logTransition(ctx, userID, tempKey, string(next))
	return Reply{Key: advance}
}

func (e *Engine) submitPhoneText(ctx context.Context, userID int64, text string) (Reply, error) {
	lang := e.userLang(ctx, userID)
	if text == e.bundle.T(lang, "btn_manual_phone", nil) {
		// Sentinel press: re-prompt without rejection framing.
		return Reply{Key: "ask_phone"}, nil
	}
	if !ValidPhone(text) {
		return Reply{Key: "phone_bad_format"}, nil
	}
	return e.complete(ctx, userID, text)
}

// complete commits the in-flight names and the phone to the profile in a
// single write and clears the transient session.
func (e *Engine) complete(ctx context.Context, userID int64, phone string) (Reply, error) {
	first, firstOK := tempString(e.sessions, userID, tempFirstName)
	last, lastOK := tempString(e.sessions, userID, tempLastName)
	if !firstOK || !lastOK {
		// Transient data vanished (restart mid-flow); re-run from the
		// password gate rather than committing a partial profile.
		e.sessions.Clear(userID)
		e.sessions.SetState(userID, StateAwaitPassword)
		return Reply{Key: "ask_password"}, nil
	}

	_, err := e.users.Mutate(ctx, userID, func(p *model.UserProfile) {
		p.FirstName = &first
		p.LastName = &last
		p.Phone = &phone
		p.Registered = true
	})
	if err != nil {
		return Reply{}, err
	}
	e.sessions.Clear(userID)
	e.logTransition(ctx, userID, "phone", "registered")
	return Reply{Key: "reg_success", Keyboard: KbMainMenu}, nil
}

func (e *Engine) userLang(ctx context.Context, userID int64) string {
	p, err := e.users.GetOrCreate(ctx, userID)
	if err != nil || p.Lang == "" {
		return model.LocaleDefault
	}
	return p.Lang
}

func (e *Engine) logTransition(ctx context.Context, userID int64, step, next string) {
	logger.Flow.LogAttrs(ctx, slog.LevelDebug, "flow.step",
		slog.String("event", "flow.step"),
		slog.Int64("user_id", userID),
		slog.String("op", step),
		slog.String("state", next),
	)
}

func greeting(p *model.UserProfile) Reply {
	return Reply{
		Key:      "hello_registered",
		Args:     map[string]any{"full_name": p.FullName()},
		Keyboard: KbMainMenu,
	}
}

func tempString(sessions state.Manager, userID int64, key string) (string, bool) {
	v, ok := sessions.GetTemp(userID, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
