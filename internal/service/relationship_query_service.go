package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/repository"
	"talent_nest_backend/internal/util"

	"gorm.io/gorm"
)

const DefaultListLimit = 50

// requestStatuses 请求视图里算作“待处理”的状态
var requestStatuses = []model.RelationshipStatus{
	model.StatusRequested,
	model.StatusProposed,
	model.StatusPending,
}

// RelationshipQueryService 只读的派生视图，从不写存储。
// 所有查询先按关系成员过滤再关联身份目录，不反向扫全量档案。
type RelationshipQueryService struct {
	RelRepo  *repository.RelationshipRepository
	UserRepo *repository.UserRepository
}

func NewRelationshipQueryService(relRepo *repository.RelationshipRepository, userRepo *repository.UserRepository) *RelationshipQueryService {
	return &RelationshipQueryService{
		RelRepo:  relRepo,
		UserRepo: userRepo,
	}
}

// ConnectionView 已连接/潜在联系人视图的一行
// swagger:model ConnectionView
type ConnectionView struct {
	model.UserSummary
	Kinds            []string `json:"kinds,omitempty"`
	MutualFriends    int64    `json:"mutualFriends"`
	ActiveCandidates int64    `json:"activeCandidates,omitempty"`
}

// RequestItem 聚合行里的单条请求
// swagger:model RequestItem
type RequestItem struct {
	RelationshipID string    `json:"relationshipId"`
	Type           string    `json:"type"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RequestView 同一对方的多条并行请求聚合成一行，带类型标签集合
// swagger:model RequestView
type RequestView struct {
	model.UserSummary
	Types []string      `json:"types"`
	Items []RequestItem `json:"items"`
}

// ProposalView 按 agent/candidate 角色定向的邀约视图
// swagger:model ProposalView
type ProposalView struct {
	RelationshipID string            `json:"relationshipId"`
	Party          model.UserSummary `json:"party"`
	Note           string            `json:"note,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// enrichCounts 给一组用户补全聚合数字。
// 注意：上游把“共同好友数”实现成了对方自己的活跃好友总数，
// 而不是和调用方好友集合的交集；这里按既有口径保留，勿自行修正。
func (s *RelationshipQueryService) enrichCounts(userIDs []uint) (map[uint]int64, map[uint]int64, error) {
	friendCounts, err := s.RelRepo.CountActiveFriendsByUsers(userIDs)
	if err != nil {
		return nil, nil, err
	}
	candidateCounts, err := s.RelRepo.CountActiveCandidatesByAgents(userIDs)
	if err != nil {
		return nil, nil, err
	}
	return friendCounts, candidateCounts, nil
}

// ListConnected 当前用户在给定状态下连接到的所有人，
// 同一对方即使有多条不同类型的关系也只出现一次
func (s *RelationshipQueryService) ListConnected(userID uint, kind *model.RelationshipKind, status model.RelationshipStatus, limit int) ([]ConnectionView, error) {
	if status == "" {
		status = model.StatusActive
	}
	limit = normalizeLimit(limit)

	rels, err := s.RelRepo.ListByParty(userID, kind, []model.RelationshipStatus{status})
	if err != nil {
		return nil, err
	}

	kindsByOther := make(map[uint][]string)
	otherIDs := make([]uint, 0, len(rels))
	for _, rel := range rels {
		other := rel.OtherParty(userID)
		if other == 0 {
			continue
		}
		if _, seen := kindsByOther[other]; !seen {
			otherIDs = append(otherIDs, other)
		}
		k := string(rel.Kind)
		dup := false
		for _, existing := range kindsByOther[other] {
			if existing == k {
				dup = true
				break
			}
		}
		if !dup {
			kindsByOther[other] = append(kindsByOther[other], k)
		}
	}

	users, err := s.UserRepo.FindByIDs(otherIDs)
	if err != nil {
		return nil, err
	}
	friendCounts, candidateCounts, err := s.enrichCounts(otherIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ConnectionView, 0, len(otherIDs))
	for _, id := range otherIDs {
		user, ok := users[id]
		if !ok {
			continue
		}
		views = append(views, ConnectionView{
			UserSummary:      user.Summary(),
			Kinds:            kindsByOther[id],
			MutualFriends:    friendCounts[id],
			ActiveCandidates: candidateCounts[id],
		})
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].Name != views[j].Name {
			return views[i].Name < views[j].Name
		}
		return views[i].ID < views[j].ID
	})
	if len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

// ListRequestsReceived 当前用户作为接收方的所有非终态请求，
// 同一对方的多条请求聚合成一行
func (s *RelationshipQueryService) ListRequestsReceived(userID uint, kind *model.RelationshipKind, limit int) ([]RequestView, error) {
	rels, err := s.RelRepo.ListReceived(userID, kind, requestStatuses)
	if err != nil {
		return nil, err
	}
	return s.aggregateRequests(rels, userID, limit)
}

// ListRequestsSent 当前用户作为发起方的所有非终态请求
func (s *RelationshipQueryService) ListRequestsSent(userID uint, kind *model.RelationshipKind, limit int) ([]RequestView, error) {
	rels, err := s.RelRepo.ListSent(userID, kind, requestStatuses)
	if err != nil {
		return nil, err
	}
	return s.aggregateRequests(rels, userID, limit)
}

func (s *RelationshipQueryService) aggregateRequests(rels []model.Relationship, userID uint, limit int) ([]RequestView, error) {
	limit = normalizeLimit(limit)

	byOther := make(map[uint]*RequestView)
	order := make([]uint, 0, len(rels))
	for _, rel := range rels {
		other := rel.OtherParty(userID)
		if other == 0 {
			continue
		}
		view, ok := byOther[other]
		if !ok {
			view = &RequestView{}
			byOther[other] = view
			order = append(order, other)
		}
		tag := rel.RequestTag()
		dup := false
		for _, t := range view.Types {
			if t == tag {
				dup = true
				break
			}
		}
		if !dup {
			view.Types = append(view.Types, tag)
		}
		view.Items = append(view.Items, RequestItem{
			RelationshipID: rel.ID,
			Type:           tag,
			Note:           rel.Note,
			CreatedAt:      rel.CreatedAt,
		})
	}

	users, err := s.UserRepo.FindByIDs(order)
	if err != nil {
		return nil, err
	}

	views := make([]RequestView, 0, len(order))
	for _, id := range order {
		user, ok := users[id]
		if !ok {
			continue
		}
		view := byOther[id]
		view.UserSummary = user.Summary()
		views = append(views, *view)
		if len(views) >= limit {
			break
		}
	}
	return views, nil
}

// ListProposalsReceived 候选人视角收到的邀约
func (s *RelationshipQueryService) ListProposalsReceived(userID uint, limit int) ([]ProposalView, error) {
	rels, err := s.RelRepo.ListProposalsByCandidate(userID)
	if err != nil {
		return nil, err
	}
	return s.proposalViews(rels, true, limit)
}

// ListProposalsSent 经纪人视角发出的邀约
func (s *RelationshipQueryService) ListProposalsSent(userID uint, limit int) ([]ProposalView, error) {
	rels, err := s.RelRepo.ListProposalsByAgent(userID)
	if err != nil {
		return nil, err
	}
	return s.proposalViews(rels, false, limit)
}

func (s *RelationshipQueryService) proposalViews(rels []model.Relationship, showAgent bool, limit int) ([]ProposalView, error) {
	limit = normalizeLimit(limit)

	ids := make([]uint, 0, len(rels))
	for _, rel := range rels {
		if showAgent {
			ids = append(ids, rel.AgentID)
		} else {
			ids = append(ids, rel.CandidateID)
		}
	}
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	views := make([]ProposalView, 0, len(rels))
	for _, rel := range rels {
		partyID := rel.AgentID
		if !showAgent {
			partyID = rel.CandidateID
		}
		user, ok := users[partyID]
		if !ok {
			continue
		}
		views = append(views, ProposalView{
			RelationshipID: rel.ID,
			Party:          user.Summary(),
			Note:           rel.Note,
			CreatedAt:      rel.CreatedAt,
		})
		if len(views) >= limit {
			break
		}
	}
	return views, nil
}

// ListPotentialContacts 身份目录里还没有任何非终态关系牵连的陌生人，
// 按姓名升序、ID 做并列次序
func (s *RelationshipQueryService) ListPotentialContacts(userID uint, limit int) ([]ConnectionView, error) {
	limit = normalizeLimit(limit)

	linked, err := s.RelRepo.OpenPartyIDs(userID)
	if err != nil {
		return nil, err
	}
	exclude := append(linked, userID)

	users, err := s.UserRepo.ListExcluding(exclude, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	friendCounts, candidateCounts, err := s.enrichCounts(ids)
	if err != nil {
		return nil, err
	}

	views := make([]ConnectionView, 0, len(users))
	for _, u := range users {
		views = append(views, ConnectionView{
			UserSummary:      u.Summary(),
			MutualFriends:    friendCounts[u.ID],
			ActiveCandidates: candidateCounts[u.ID],
		})
	}
	return views, nil
}

// GetCareerAgentRelationship 跨模块的授权点查：agent 是否是 candidate 的活跃经纪人
func (s *RelationshipQueryService) GetCareerAgentRelationship(agentID, candidateID uint) (*model.Relationship, error) {
	rel, err := s.RelRepo.GetCareerAgentRelationship(agentID, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no active career agent relationship: %w", util.ErrNotFound)
		}
		return nil, err
	}
	return rel, nil
}

// IsActivelyConnected 私信等功能的准入检查，走缓存
func (s *RelationshipQueryService) IsActivelyConnected(userID, otherID uint) (bool, error) {
	ids, err := s.RelRepo.ActiveConnectionIDsCached(userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == otherID {
			return true, nil
		}
	}
	return false, nil
}
