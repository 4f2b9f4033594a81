package service

import (
	"testing"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/repository"
	"talent_nest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageService(env *testEnv) *MessageService {
	return NewMessageService(repository.NewMessageRepository(env.db), env.queries)
}

func TestSendRequiresActiveRelationship(t *testing.T) {
	env := newTestEnv(t)
	svc := newMessageService(env)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	_, err := svc.Send(alice, bob, "hello")
	assert.ErrorIs(t, err, util.ErrForbidden)

	env.activeFriends(t, alice, bob)

	msg, err := svc.Send(alice, bob, "hello")
	require.NoError(t, err)
	assert.Equal(t, alice, msg.SenderID)
	assert.Equal(t, bob, msg.ReceiverID)
	assert.False(t, msg.Read)
}

func TestSendValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	svc := newMessageService(env)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	env.activeFriends(t, alice, bob)

	_, err := svc.Send(alice, bob, "")
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.Send(alice, alice, "hi me")
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestPendingRelationshipDoesNotAllowMessaging(t *testing.T) {
	env := newTestEnv(t)
	svc := newMessageService(env)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	_, err := env.engine.Request(model.KindFriend, alice, bob, "")
	require.NoError(t, err)

	// 申请中还不算连接
	_, err = svc.Send(alice, bob, "hello")
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestGetConversationMarksRead(t *testing.T) {
	env := newTestEnv(t)
	svc := newMessageService(env)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	env.activeFriends(t, alice, bob)

	_, err := svc.Send(alice, bob, "one")
	require.NoError(t, err)
	_, err = svc.Send(bob, alice, "two")
	require.NoError(t, err)
	_, err = svc.Send(alice, bob, "three")
	require.NoError(t, err)

	msgs, total, err := svc.GetConversation(bob, alice, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "three", msgs[2].Content)

	// 再读时 alice 发来的消息已被置为已读
	msgs, _, err = svc.GetConversation(bob, alice, 0, 0)
	require.NoError(t, err)
	for _, m := range msgs {
		if m.SenderID == alice {
			assert.True(t, m.Read)
		}
	}
}

func TestGetConversationPagination(t *testing.T) {
	env := newTestEnv(t)
	svc := newMessageService(env)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	env.activeFriends(t, alice, bob)

	for _, content := range []string{"a", "b", "c", "d"} {
		_, err := svc.Send(alice, bob, content)
		require.NoError(t, err)
	}

	msgs, total, err := svc.GetConversation(bob, alice, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, msgs, 2)
	assert.Equal(t, "c", msgs[0].Content)
}
