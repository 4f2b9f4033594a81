package model

import "time"

type RelationshipKind string

const (
	KindFriend      RelationshipKind = "friend"
	KindCareerAgent RelationshipKind = "career_agent"
)

type RelationshipStatus string

const (
	StatusRequested RelationshipStatus = "requested"
	StatusProposed  RelationshipStatus = "proposed"
	StatusPending   RelationshipStatus = "pending"
	StatusActive    RelationshipStatus = "active"
	StatusInactive  RelationshipStatus = "inactive"
	StatusRejected  RelationshipStatus = "rejected"
)

// IsTerminal 终态不再参与任何状态流转
func (s RelationshipStatus) IsTerminal() bool {
	return s == StatusInactive || s == StatusRejected
}

// Relationship 人际关系记录，friend 和 career_agent 两种类型共用一张表。
//
// requestor/recipient 始终按发起方向填写；career_agent 记录额外携带
// agent/candidate 角色对，等于 (requestor,recipient) 或 (recipient,requestor)，
// 取决于是经纪人主动提议还是候选人主动申请。friend 记录的 agent/candidate 为 0。
// swagger:model Relationship
type Relationship struct {
	UUIDBase
	Kind        RelationshipKind   `gorm:"type:varchar(20);not null;index:idx_rel_pair,priority:1" json:"kind"`
	RequestorID uint               `gorm:"not null;index;index:idx_rel_pair,priority:2" json:"requestorId"`
	RecipientID uint               `gorm:"not null;index;index:idx_rel_pair,priority:3" json:"recipientId"`
	AgentID     uint               `gorm:"index" json:"agentId,omitempty"`
	CandidateID uint               `gorm:"index:idx_rel_candidate,priority:1" json:"candidateId,omitempty"`
	Status      RelationshipStatus `gorm:"type:varchar(20);not null;index;index:idx_rel_candidate,priority:2" json:"status"`
	StartDate   *time.Time         `json:"startDate,omitempty"`
	EndDate     *time.Time         `json:"endDate,omitempty"`
	Note        string             `gorm:"size:1000" json:"note,omitempty"`
}

func (Relationship) TableName() string {
	return "relationships"
}

// IsParty 判断用户是否为该关系的一方
func (r *Relationship) IsParty(userID uint) bool {
	return r.RequestorID == userID || r.RecipientID == userID
}

// OtherParty 返回对方的用户ID，userID 不是关系一方时返回 0
func (r *Relationship) OtherParty(userID uint) uint {
	switch userID {
	case r.RequestorID:
		return r.RecipientID
	case r.RecipientID:
		return r.RequestorID
	}
	return 0
}

// ReceiverID 接收方，即有权 accept/reject 的一方。
// 候选人发起的 career_agent 申请里接收方就是经纪人本人。
func (r *Relationship) ReceiverID() uint {
	return r.RecipientID
}

// InitiatedByCandidate career_agent 记录是否由候选人发起
func (r *Relationship) InitiatedByCandidate() bool {
	return r.Kind == KindCareerAgent && r.RequestorID == r.CandidateID
}

// RequestTag 请求视图聚合时使用的类型标签，按发起形态区分
func (r *Relationship) RequestTag() string {
	if r.Kind == KindFriend {
		return "friend_request"
	}
	if r.InitiatedByCandidate() {
		return "career_agent_request"
	}
	return "career_agent_proposal"
}
