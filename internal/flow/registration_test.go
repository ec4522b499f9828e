package flow

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maabuz/ishbot/core/telegram/state"
	"github.com/maabuz/ishbot/internal/i18n"
	"github.com/maabuz/ishbot/internal/model"
	"github.com/maabuz/ishbot/internal/store"
)

type stubMembers struct {
	member bool
}

func (s stubMembers) IsMember(context.Context, int64) bool { return s.member }

type fixture struct {
	engine  *Engine
	users   *store.Users
	members *stubMembers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := store.NewUsers(filepath.Join(t.TempDir(), "users.json"))
	bundle, err := i18n.Load()
	require.NoError(t, err)

	members := &stubMembers{member: true}
	passwords := func() (map[string]struct{}, error) {
		return map[string]struct{}{"MAAB-2025": {}}, nil
	}
	engine := NewEngine(users, state.NewMemoryManager(), bundle, passwords, members)
	return &fixture{engine: engine, users: users, members: members}
}

func TestValidPhone(t *testing.T) {
	valid := []string{
		"+998 90 123 45 67",
		"+998901234567",
		"+99890 123 4567",
	}
	for _, s := range valid {
		assert.True(t, ValidPhone(s), s)
	}

	invalid := []string{
		"998901234567",
		"+7 900 123 45 67",
		"+998 90 123 45 6",
		"+998 90 123 45 678",
		"hello",
		"",
	}
	for _, s := range invalid {
		assert.False(t, ValidPhone(s), s)
	}
}

func TestHappyPathRegistration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const userID int64 = 42

	_, r, err := f.engine.Start(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "choose_language_title", r.Key)
	assert.Equal(t, KbLanguage, r.Keyboard)

	_, r, err = f.engine.SetLanguage(ctx, userID, model.LocaleEnglish)
	require.NoError(t, err)
	assert.Equal(t, "ask_join", r.Key)

	r, err = f.engine.ConfirmMembership(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "ask_password", r.Key)
	assert.True(t, f.engine.InProgress(userID))

	r, handled, err := f.engine.SubmitText(ctx, userID, "MAAB-2025")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, "ask_first_name", r.Key)

	r, _, err = f.engine.SubmitText(ctx, userID, "John")
	require.NoError(t, err)
	assert.Equal(t, "ask_last_name", r.Key)

	r, _, err = f.engine.SubmitText(ctx, userID, "Smith")
	require.NoError(t, err)
	assert.Equal(t, "ask_phone", r.Key)
	assert.Equal(t, KbContact, r.Keyboard)

	r, _, err = f.engine.SubmitText(ctx, userID, "+998 90 123 45 67")
	require.NoError(t, err)
	assert.Equal(t, "reg_success", r.Key)
	assert.Equal(t, KbMainMenu, r.Keyboard)
	assert.False(t, f.engine.InProgress(userID))

	p, err := f.users.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.True(t, p.Registered)
	require.NotNil(t, p.FirstName)
	assert.Equal(t, "John", *p.FirstName)
	require.NotNil(t, p.LastName)
	assert.Equal(t, "Smith", *p.LastName)
	require.NotNil(t, p.Phone)
	assert.Equal(t, "+998 90 123 45 67", *p.Phone)
	assert.Equal(t, "John Smith", p.FullName())
}

func TestMembershipGateBlocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.members.member = false

	r, err := f.engine.ConfirmMembership(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "not_joined", r.Key)
	assert.Equal(t, KbJoin, r.Keyboard)
	assert.False(t, f.engine.InProgress(5))
}

func TestWrongPasswordReprompts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.engine.SetLanguage(ctx, 6, model.LocaleUzbek)
	require.NoError(t, err)
	_, err = f.engine.ConfirmMembership(ctx, 6)
	require.NoError(t, err)

	r, handled, err := f.engine.SubmitText(ctx, 6, "guess")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, "wrong_password", r.Key)

	// Still on the password step.
	r, _, err = f.engine.SubmitText(ctx, 6, "MAAB-2025")
	require.NoError(t, err)
	assert.Equal(t, "ask_first_name", r.Key)
}

func TestBadPhoneFormatRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const userID int64 = 8

	advanceToPhone(t, f, userID)

	r, handled, err := f.engine.SubmitText(ctx, userID, "998901234567")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, "phone_bad_format", r.Key)
	assert.True(t, f.engine.InProgress(userID))

	p, err := f.users.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.False(t, p.Registered)
}

func TestSharedContactSkipsValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const userID int64 = 12

	advanceToPhone(t, f, userID)

	r, handled, err := f.engine.SubmitContact(ctx, userID, "998911112233")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, "reg_success", r.Key)

	p, err := f.users.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, p.Phone)
	assert.Equal(t, "998911112233", *p.Phone)
}

func TestContactOutsidePhoneStepIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, handled, err := f.engine.SubmitContact(ctx, 13, "+998901234567")
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestManualPhoneButtonReprompts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const userID int64 = 14

	bundle, err := i18n.Load()
	require.NoError(t, err)

	advanceToPhone(t, f, userID)

	label := bundle.T(model.LocaleEnglish, "btn_manual_phone", nil)
	r, handled, err := f.engine.SubmitText(ctx, userID, label)
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, "ask_phone", r.Key)
}

func TestRegisteredUserStartShortCircuits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const userID int64 = 21

	advanceToPhone(t, f, userID)
	_, _, err := f.engine.SubmitText(ctx, userID, "+998 90 123 45 67")
	require.NoError(t, err)

	_, r, err := f.engine.Start(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "hello_registered", r.Key)
	assert.Equal(t, KbMainMenu, r.Keyboard)
}

func advanceToPhone(t *testing.T, f *fixture, userID int64) {
	t.Helper()
	ctx := context.Background()

	_, _, err := f.engine.SetLanguage(ctx, userID, model.LocaleEnglish)
	require.NoError(t, err)
	_, err = f.engine.ConfirmMembership(ctx, userID)
	require.NoError(t, err)
	_, _, err = f.engine.SubmitText(ctx, userID, "MAAB-2025")
	require.NoError(t, err)
	_, _, err = f.engine.SubmitText(ctx, userID, "John")
	require.NoError(t, err)
	_, _, err = f.engine.SubmitText(ctx, userID, "Smith")
	require.NoError(t, err)
}
