package service

import (
	"testing"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListConnectedDeduplicatesParties(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	env.activeFriends(t, alice, bob)

	// 同一对人再叠加一条活跃经纪关系
	rel, err := env.engine.Propose(alice, bob, "")
	require.NoError(t, err)
	_, err = env.engine.Accept(rel.ID, bob)
	require.NoError(t, err)

	views, err := env.queries.ListConnected(alice, nil, "", 0)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, bob, views[0].ID)
	assert.ElementsMatch(t, []string{"friend", "career_agent"}, views[0].Kinds)
}

func TestListConnectedFiltersByKindAndStatus(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carla := env.seedUser(t, "carla")

	env.activeFriends(t, alice, bob)
	_, err := env.engine.Request(model.KindFriend, alice, carla, "")
	require.NoError(t, err)

	// 默认只看 active
	views, err := env.queries.ListConnected(alice, nil, "", 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, bob, views[0].ID)

	// requested 视角能看到 carla
	views, err = env.queries.ListConnected(alice, nil, model.StatusRequested, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, carla, views[0].ID)

	kind := model.KindCareerAgent
	views, err = env.queries.ListConnected(alice, &kind, "", 0)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestListConnectedSortsByName(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "zoe")
	bob := env.seedUser(t, "bob")
	alice := env.seedUser(t, "alice")
	carla := env.seedUser(t, "carla")

	env.activeFriends(t, me, carla)
	env.activeFriends(t, me, alice)
	env.activeFriends(t, me, bob)

	views, err := env.queries.ListConnected(me, nil, "", 0)
	require.NoError(t, err)

	require.Len(t, views, 3)
	assert.Equal(t, "alice", views[0].Name)
	assert.Equal(t, "bob", views[1].Name)
	assert.Equal(t, "carla", views[2].Name)
}

// 连接视图里的 mutualFriends 按既有口径是对方自己的活跃好友总数
func TestConnectionCountsFollowExistingSemantics(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "me")
	bob := env.seedUser(t, "bob")
	carla := env.seedUser(t, "carla")
	dave := env.seedUser(t, "dave")

	env.activeFriends(t, me, bob)
	env.activeFriends(t, bob, carla)
	env.activeFriends(t, bob, dave)

	views, err := env.queries.ListConnected(me, nil, "", 0)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, bob, views[0].ID)
	// bob 的活跃好友：me、carla、dave
	assert.Equal(t, int64(3), views[0].MutualFriends)
}

func TestConnectionCountsIncludeActiveCandidates(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "me")
	agent := env.seedUser(t, "amy")
	carla := env.seedUser(t, "carla")

	env.activeFriends(t, me, agent)

	rel, err := env.engine.Propose(agent, carla, "")
	require.NoError(t, err)
	_, err = env.engine.Accept(rel.ID, carla)
	require.NoError(t, err)

	views, err := env.queries.ListConnected(me, nil, "", 0)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, int64(1), views[0].ActiveCandidates)
}

func TestRequestsReceivedAggregatesByParty(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "me")
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	_, err := env.engine.Request(model.KindFriend, alice, me, "be my friend")
	require.NoError(t, err)
	_, err = env.engine.Request(model.KindCareerAgent, alice, me, "be my agent")
	require.NoError(t, err)
	_, err = env.engine.Request(model.KindFriend, bob, me, "")
	require.NoError(t, err)

	views, err := env.queries.ListRequestsReceived(me, nil, 0)
	require.NoError(t, err)

	require.Len(t, views, 2)
	byID := make(map[uint]RequestView)
	for _, v := range views {
		byID[v.ID] = v
	}

	aliceView := byID[alice]
	assert.ElementsMatch(t, []string{"friend_request", "career_agent_request"}, aliceView.Types)
	assert.Len(t, aliceView.Items, 2)

	bobView := byID[bob]
	assert.Equal(t, []string{"friend_request"}, bobView.Types)
}

func TestRequestsDistinguishProposalTag(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "me")
	agent := env.seedUser(t, "amy")

	_, err := env.engine.Propose(agent, me, "")
	require.NoError(t, err)

	views, err := env.queries.ListRequestsReceived(me, nil, 0)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, []string{"career_agent_proposal"}, views[0].Types)
}

func TestRequestsExcludeSettledRecords(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "me")
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	rel, err := env.engine.Request(model.KindFriend, alice, me, "")
	require.NoError(t, err)
	_, err = env.engine.Accept(rel.ID, me)
	require.NoError(t, err)

	rel2, err := env.engine.Request(model.KindFriend, bob, me, "")
	require.NoError(t, err)
	_, err = env.engine.Reject(rel2.ID, me, "")
	require.NoError(t, err)

	views, err := env.queries.ListRequestsReceived(me, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestRequestsSentMirrorsReceived(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "me")
	alice := env.seedUser(t, "alice")

	_, err := env.engine.Request(model.KindFriend, me, alice, "")
	require.NoError(t, err)

	sent, err := env.queries.ListRequestsSent(me, nil, 0)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, alice, sent[0].ID)

	received, err := env.queries.ListRequestsSent(alice, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestProposalViewsAreRoleOriented(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "amy")
	candidate := env.seedUser(t, "carla")

	rel, err := env.engine.Propose(agent, candidate, "join me")
	require.NoError(t, err)

	// 候选人看到的是经纪人
	received, err := env.queries.ListProposalsReceived(candidate, 0)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, rel.ID, received[0].RelationshipID)
	assert.Equal(t, agent, received[0].Party.ID)
	assert.Equal(t, "join me", received[0].Note)

	// 经纪人看到的是候选人
	sent, err := env.queries.ListProposalsSent(agent, 0)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, candidate, sent[0].Party.ID)
}

func TestProposalViewsOnlyCoverProposedStatus(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "amy")
	candidate := env.seedUser(t, "carla")

	rel, err := env.engine.Propose(agent, candidate, "")
	require.NoError(t, err)
	_, err = env.engine.Accept(rel.ID, candidate)
	require.NoError(t, err)

	received, err := env.queries.ListProposalsReceived(candidate, 0)
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestPotentialContactsExcludeLinkedParties(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "me")
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carla := env.seedUser(t, "carla")

	env.activeFriends(t, me, alice)
	_, err := env.engine.Request(model.KindFriend, me, bob, "")
	require.NoError(t, err)

	views, err := env.queries.ListPotentialContacts(me, 0)
	require.NoError(t, err)

	// 自己、活跃的 alice、申请中的 bob 都被排除
	require.Len(t, views, 1)
	assert.Equal(t, carla, views[0].ID)
}

func TestPotentialContactsReincludeAfterTermination(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "me")
	alice := env.seedUser(t, "alice")

	rel, err := env.engine.Request(model.KindFriend, me, alice, "")
	require.NoError(t, err)

	views, err := env.queries.ListPotentialContacts(me, 0)
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = env.engine.Reject(rel.ID, alice, "")
	require.NoError(t, err)

	// 终态记录不再把对方挡在潜在联系人之外
	views, err = env.queries.ListPotentialContacts(me, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, alice, views[0].ID)
}

func TestGetCareerAgentRelationshipPointLookup(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "amy")
	candidate := env.seedUser(t, "carla")

	_, err := env.queries.GetCareerAgentRelationship(agent, candidate)
	assert.ErrorIs(t, err, util.ErrNotFound)

	rel, err := env.engine.Propose(agent, candidate, "")
	require.NoError(t, err)

	// proposed 还不算，只认 active
	_, err = env.queries.GetCareerAgentRelationship(agent, candidate)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = env.engine.Accept(rel.ID, candidate)
	require.NoError(t, err)

	found, err := env.queries.GetCareerAgentRelationship(agent, candidate)
	require.NoError(t, err)
	assert.Equal(t, rel.ID, found.ID)

	// 方向不对称：候选人不是经纪人的经纪人
	_, err = env.queries.GetCareerAgentRelationship(candidate, agent)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestIsActivelyConnected(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	eve := env.seedUser(t, "eve")

	env.activeFriends(t, alice, bob)

	connected, err := env.queries.IsActivelyConnected(alice, bob)
	require.NoError(t, err)
	assert.True(t, connected)

	connected, err = env.queries.IsActivelyConnected(alice, eve)
	require.NoError(t, err)
	assert.False(t, connected)
}

func TestListConnectedHonorsLimit(t *testing.T) {
	env := newTestEnv(t)
	me := env.seedUser(t, "me")
	for _, name := range []string{"alice", "bob", "carla"} {
		other := env.seedUser(t, name)
		env.activeFriends(t, me, other)
	}

	views, err := env.queries.ListConnected(me, nil, "", 2)
	require.NoError(t, err)
	require.Len(t, views, 2)
	// 截断发生在按姓名排序之后
	assert.Equal(t, "alice", views[0].Name)
	assert.Equal(t, "bob", views[1].Name)
}
