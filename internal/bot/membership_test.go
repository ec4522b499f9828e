package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

type stubMemberAPI struct {
	role tele.MemberStatus
	err  error
	chat string
}

func (s *stubMemberAPI) ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error) {
	s.chat = chat.Recipient()
	if s.err != nil {
		return nil, s.err
	}
	return &tele.ChatMember{Role: s.role}, nil
}

func TestGateDisabledWithoutChannel(t *testing.T) {
	gate := newChannelGate(0, "")
	assert.True(t, gate.IsMember(context.Background(), 1))
}

func TestGateUnboundDeniesAccess(t *testing.T) {
	gate := newChannelGate(0, "maabuz")
	assert.False(t, gate.IsMember(context.Background(), 1))
}

func TestGateAcceptsMemberRoles(t *testing.T) {
	for _, role := range []tele.MemberStatus{tele.Member, tele.Administrator, tele.Creator} {
		gate := newChannelGate(-100123, "")
		gate.Bind(&stubMemberAPI{role: role})
		assert.True(t, gate.IsMember(context.Background(), 7), string(role))
	}
}

func TestGateRejectsLeftAndErrors(t *testing.T) {
	gate := newChannelGate(-100123, "")
	gate.Bind(&stubMemberAPI{role: tele.Left})
	assert.False(t, gate.IsMember(context.Background(), 7))

	gate = newChannelGate(-100123, "")
	gate.Bind(&stubMemberAPI{err: errors.New("api down")})
	assert.False(t, gate.IsMember(context.Background(), 7))
}

func TestGateAddressesUsernameChannels(t *testing.T) {
	api := &stubMemberAPI{role: tele.Member}
	gate := newChannelGate(0, "maabuz")
	gate.Bind(api)
	gate.IsMember(context.Background(), 7)
	assert.Equal(t, "@maabuz", api.chat)
}
