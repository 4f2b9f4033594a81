package repository

import (
	"context"
	"fmt"
	"time"

	"talent_nest_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// terminalStatuses 终态集合，配对唯一性只约束非终态记录
var terminalStatuses = []model.RelationshipStatus{
	model.StatusInactive,
	model.StatusRejected,
}

type RelationshipRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewRelationshipRepository(db *gorm.DB, rdb *redis.Client) *RelationshipRepository {
	return &RelationshipRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// Transaction 引擎的每个写操作都在一个事务里完成校验和写入
func (r *RelationshipRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.DB.Transaction(fn)
}

// forUpdate 在支持行锁的方言上加 SELECT ... FOR UPDATE，
// 保证并发的 request/propose/accept 之间恰好一个成功
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (r *RelationshipRepository) Create(tx *gorm.DB, rel *model.Relationship) error {
	return tx.Create(rel).Error
}

func (r *RelationshipRepository) Save(tx *gorm.DB, rel *model.Relationship) error {
	return tx.Save(rel).Error
}

func (r *RelationshipRepository) FindByID(id string) (*model.Relationship, error) {
	var rel model.Relationship
	err := r.DB.First(&rel, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// FindByIDLocked 事务内带锁读取，状态校验和写回之间不允许插队
func (r *RelationshipRepository) FindByIDLocked(tx *gorm.DB, id string) (*model.Relationship, error) {
	var rel model.Relationship
	err := forUpdate(tx).First(&rel, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// FindActiveAgentForCandidate 排他性检查：候选人同一时间至多一个活跃经纪人
func (r *RelationshipRepository) FindActiveAgentForCandidate(tx *gorm.DB, candidateID uint) (*model.Relationship, error) {
	var rel model.Relationship
	err := forUpdate(tx).
		Where("kind = ? AND candidate_id = ? AND status = ?",
			model.KindCareerAgent, candidateID, model.StatusActive).
		First(&rel).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// FindOpenBetween 配对唯一性检查：同一无序对同一类型至多一条非终态记录
func (r *RelationshipRepository) FindOpenBetween(tx *gorm.DB, kind model.RelationshipKind, a, b uint) (*model.Relationship, error) {
	var rel model.Relationship
	err := forUpdate(tx).
		Where("kind = ?", kind).
		Where("(requestor_id = ? AND recipient_id = ?) OR (requestor_id = ? AND recipient_id = ?)", a, b, b, a).
		Where("status NOT IN ?", terminalStatuses).
		First(&rel).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// DeleteHard 管理清理用的物理删除
func (r *RelationshipRepository) DeleteHard(id string) error {
	res := r.DB.Where("id = ?", id).Delete(&model.Relationship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByParty 按关系一方查询，先按成员过滤再关联档案
func (r *RelationshipRepository) ListByParty(userID uint, kind *model.RelationshipKind, statuses []model.RelationshipStatus) ([]model.Relationship, error) {
	var rels []model.Relationship
	db := r.DB.Where("requestor_id = ? OR recipient_id = ?", userID, userID)
	if kind != nil {
		db = db.Where("kind = ?", *kind)
	}
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}
	err := db.Order("created_at ASC").Find(&rels).Error
	return rels, err
}

// ListReceived 接收方视角的非终态请求
func (r *RelationshipRepository) ListReceived(userID uint, kind *model.RelationshipKind, statuses []model.RelationshipStatus) ([]model.Relationship, error) {
	var rels []model.Relationship
	db := r.DB.Where("recipient_id = ?", userID).Where("status IN ?", statuses)
	if kind != nil {
		db = db.Where("kind = ?", *kind)
	}
	err := db.Order("created_at ASC").Find(&rels).Error
	return rels, err
}

// ListSent 发起方视角的非终态请求
func (r *RelationshipRepository) ListSent(userID uint, kind *model.RelationshipKind, statuses []model.RelationshipStatus) ([]model.Relationship, error) {
	var rels []model.Relationship
	db := r.DB.Where("requestor_id = ?", userID).Where("status IN ?", statuses)
	if kind != nil {
		db = db.Where("kind = ?", *kind)
	}
	err := db.Order("created_at ASC").Find(&rels).Error
	return rels, err
}

// ListProposalsByCandidate 候选人收到的 proposed 状态记录，按角色而非发起方向
func (r *RelationshipRepository) ListProposalsByCandidate(candidateID uint) ([]model.Relationship, error) {
	var rels []model.Relationship
	err := r.DB.
		Where("kind = ? AND candidate_id = ? AND status = ?",
			model.KindCareerAgent, candidateID, model.StatusProposed).
		Order("created_at ASC").Find(&rels).Error
	return rels, err
}

// ListProposalsByAgent 经纪人发出的 proposed 状态记录
func (r *RelationshipRepository) ListProposalsByAgent(agentID uint) ([]model.Relationship, error) {
	var rels []model.Relationship
	err := r.DB.
		Where("kind = ? AND agent_id = ? AND status = ?",
			model.KindCareerAgent, agentID, model.StatusProposed).
		Order("created_at ASC").Find(&rels).Error
	return rels, err
}

// OpenPartyIDs 与 userID 存在任意类型非终态关系的对方ID集合，
// 潜在联系人视图用它做排除
func (r *RelationshipRepository) OpenPartyIDs(userID uint) ([]uint, error) {
	var rels []model.Relationship
	err := r.DB.Select("requestor_id", "recipient_id").
		Where("requestor_id = ? OR recipient_id = ?", userID, userID).
		Where("status NOT IN ?", terminalStatuses).
		Find(&rels).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(rels))
	ids := make([]uint, 0, len(rels))
	for _, rel := range rels {
		other := rel.OtherParty(userID)
		if other != 0 && !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids, nil
}

// GetCareerAgentRelationship 点查：agent 是否是 candidate 的活跃经纪人。
// 求职信等文档的跨用户访问控制走这里，只认 active 记录。
func (r *RelationshipRepository) GetCareerAgentRelationship(agentID, candidateID uint) (*model.Relationship, error) {
	var rel model.Relationship
	err := r.DB.
		Where("kind = ? AND agent_id = ? AND candidate_id = ? AND status = ?",
			model.KindCareerAgent, agentID, candidateID, model.StatusActive).
		First(&rel).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// CountActiveFriendsByUsers 每个用户自己的活跃好友数，两列分组后合并
func (r *RelationshipRepository) CountActiveFriendsByUsers(userIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	type row struct {
		UserID uint
		Total  int64
	}

	for _, column := range []string{"requestor_id", "recipient_id"} {
		var rows []row
		err := r.DB.Model(&model.Relationship{}).
			Select(column+" AS user_id, COUNT(*) AS total").
			Where("kind = ? AND status = ?", model.KindFriend, model.StatusActive).
			Where(column+" IN ?", userIDs).
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, rw := range rows {
			counts[rw.UserID] += rw.Total
		}
	}
	return counts, nil
}

// CountActiveCandidatesByAgents 每个经纪人当前带的活跃候选人数
func (r *RelationshipRepository) CountActiveCandidatesByAgents(userIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	type row struct {
		UserID uint
		Total  int64
	}
	var rows []row
	err := r.DB.Model(&model.Relationship{}).
		Select("agent_id AS user_id, COUNT(*) AS total").
		Where("kind = ? AND status = ?", model.KindCareerAgent, model.StatusActive).
		Where("agent_id IN ?", userIDs).
		Group("agent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.UserID] = rw.Total
	}
	return counts, nil
}

// ActiveConnectionIDs 与 userID 存在活跃关系（任意类型）的对方ID
func (r *RelationshipRepository) ActiveConnectionIDs(userID uint) ([]uint, error) {
	var rels []model.Relationship
	err := r.DB.Select("requestor_id", "recipient_id").
		Where("requestor_id = ? OR recipient_id = ?", userID, userID).
		Where("status = ?", model.StatusActive).
		Find(&rels).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(rels))
	ids := make([]uint, 0, len(rels))
	for _, rel := range rels {
		other := rel.OtherParty(userID)
		if other != 0 && !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids, nil
}

// ActiveConnectionIDsCached 活跃关系ID集合（带缓存），私信发送前的关卡走这里
func (r *RelationshipRepository) ActiveConnectionIDsCached(userID uint) ([]uint, error) {
	if r.Redis == nil {
		return r.ActiveConnectionIDs(userID)
	}

	key := fmt.Sprintf("network:connected:%d", userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		var ids []uint
		for _, s := range cached {
			var id uint
			fmt.Sscanf(s, "%d", &id)
			if id > 0 {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	// 缓存失效，回源数据库
	ids, err := r.ActiveConnectionIDs(userID)
	if err == nil && len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else if err == nil {
		// 防止缓存穿透：存一个特殊值并设置短过期时间
		r.Redis.SAdd(r.ctx, key, 0)
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, err
}

// InvalidateConnections 状态流转成功后清除双方的关系缓存
func (r *RelationshipRepository) InvalidateConnections(userIDs ...uint) {
	if r.Redis == nil {
		return
	}
	for _, id := range userIDs {
		r.Redis.Del(r.ctx, fmt.Sprintf("network:connected:%d", id))
	}
}
