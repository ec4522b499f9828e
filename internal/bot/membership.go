package bot

import (
	"context"
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/maabuz/ishbot/core/logger"
)

// memberAPI is the slice of tele.Bot used by the channel gate.
type memberAPI interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// chatUsername addresses a public chat by @username.
type chatUsername string

func (u chatUsername) Recipient() string { return "@" + string(u) }

// channelGate checks channel membership through the Bot API. The API handle
// is bound lazily because the bot instance only exists once the runtime is
// up; a zero chat target disables the gate entirely.
type channelGate struct {
	mu   sync.Mutex
	api  memberAPI
	chat tele.Recipient
}

func newChannelGate(channelID int64, channelUsername string) *channelGate {
	g := &channelGate{}
	switch {
	case channelID != 0:
		g.chat = tele.ChatID(channelID)
	case channelUsername != "":
		g.chat = chatUsername(channelUsername)
	}
	return g
}

// Bind attaches the Bot API handle. Later calls are no-ops.
func (g *channelGate) Bind(api memberAPI) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.api == nil {
		g.api = api
	}
}

func (g *channelGate) current() memberAPI {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.api
}

// IsMember reports whether the user currently belongs to the channel.
// Transport errors count as not a member so the gate never silently opens.
func (g *channelGate) IsMember(ctx context.Context, userID int64) bool {
	if g.chat == nil {
		return true
	}
	api := g.current()
	if api == nil {
		return false
	}
	member, err := api.ChatMemberOf(g.chat, &tele.User{ID: userID})
	if err != nil {
		logger.TG.LogAttrs(ctx, slog.LevelWarn, "membership.check",
			slog.String("event", "membership.check"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}
	switch member.Role {
	case tele.Creator, tele.Administrator, tele.Member:
		return true
	}
	return false
}
