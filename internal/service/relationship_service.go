package service

import (
	"errors"
	"fmt"
	"time"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/repository"
	"talent_nest_backend/internal/util"
	"talent_nest_backend/pkg/monitoring"

	"gorm.io/gorm"
)

const maxNoteLength = 1000

// awaitingStatuses 可以被 accept/reject 的状态
var awaitingStatuses = map[model.RelationshipStatus]bool{
	model.StatusRequested: true,
	model.StatusProposed:  true,
	model.StatusPending:   true,
}

// RelationshipService 关系引擎：所有写路径都从这里走，
// 不变量校验和写入在同一个事务里完成
type RelationshipService struct {
	RelRepo  *repository.RelationshipRepository
	UserRepo *repository.UserRepository
}

func NewRelationshipService(relRepo *repository.RelationshipRepository, userRepo *repository.UserRepository) *RelationshipService {
	return &RelationshipService{
		RelRepo:  relRepo,
		UserRepo: userRepo,
	}
}

// CreateDirectInput 直接建立关系的入参。
// friend 填 RequestorID/RecipientID；career_agent 填 AgentID/CandidateID，
// InitiatedBy 决定名义上的发起方，默认经纪人发起。
type CreateDirectInput struct {
	Kind        model.RelationshipKind
	RequestorID uint
	RecipientID uint
	AgentID     uint
	CandidateID uint
	InitiatedBy string // "agent" 或 "candidate"
	Status      model.RelationshipStatus
	Note        string
}

// UpdateRelationshipInput 管理/界面直改路径的入参，nil 字段不变
type UpdateRelationshipInput struct {
	Status  *model.RelationshipStatus
	Note    *string
	EndDate *time.Time
}

func validateNote(note string) error {
	if len(note) > maxNoteLength {
		return util.NewValidation("note", fmt.Sprintf("must be at most %d characters", maxNoteLength))
	}
	return nil
}

// observe 状态流转埋点
func observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	monitoring.RelationshipTransitions.WithLabelValues(operation, outcome).Inc()
}

// checkProfiles 关系双方必须存在于身份目录
func (s *RelationshipService) checkProfiles(ids ...uint) error {
	for _, id := range ids {
		ok, err := s.UserRepo.Exists(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("profile %d: %w", id, util.ErrNotFound)
		}
	}
	return nil
}

// checkPairUniqueness 同一无序对同一类型至多一条非终态记录
func (s *RelationshipService) checkPairUniqueness(tx *gorm.DB, kind model.RelationshipKind, a, b uint) error {
	existing, err := s.RelRepo.FindOpenBetween(tx, kind, a, b)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return util.NewConflict("an open relationship of this kind already exists between these parties", existing.ID)
}

// checkCandidateExclusivity 候选人同一时间至多一个活跃经纪人。
// selfID 非空时跳过记录自身（accept 时的复查）。
func (s *RelationshipService) checkCandidateExclusivity(tx *gorm.DB, candidateID uint, selfID string) error {
	existing, err := s.RelRepo.FindActiveAgentForCandidate(tx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return util.NewConflict("candidate already has an active career agent", existing.ID)
}

// CreateDirect 直接建立关系，默认初始状态 active
func (s *RelationshipService) CreateDirect(input CreateDirectInput) (rel *model.Relationship, err error) {
	defer func() { observe("create_direct", err) }()

	status := input.Status
	if status == "" {
		status = model.StatusActive
	}
	if status.IsTerminal() {
		return nil, util.NewValidation("status", "cannot create a relationship in a terminal status")
	}
	if err = validateNote(input.Note); err != nil {
		return nil, err
	}

	record := model.Relationship{
		Kind:   input.Kind,
		Status: status,
		Note:   input.Note,
	}

	switch input.Kind {
	case model.KindFriend:
		if status == model.StatusProposed {
			return nil, util.NewValidation("status", "friend relationships cannot be proposed")
		}
		if input.RequestorID == 0 || input.RecipientID == 0 {
			return nil, util.NewValidation("parties", "requestor and recipient are required")
		}
		if input.RequestorID == input.RecipientID {
			return nil, util.NewValidation("parties", "cannot create a relationship with yourself")
		}
		record.RequestorID = input.RequestorID
		record.RecipientID = input.RecipientID

	case model.KindCareerAgent:
		if input.AgentID == 0 || input.CandidateID == 0 {
			return nil, util.NewValidation("parties", "agent and candidate are required")
		}
		if input.AgentID == input.CandidateID {
			return nil, util.NewValidation("parties", "agent and candidate must be different people")
		}
		record.AgentID = input.AgentID
		record.CandidateID = input.CandidateID
		if input.InitiatedBy == "candidate" {
			record.RequestorID = input.CandidateID
			record.RecipientID = input.AgentID
		} else {
			record.RequestorID = input.AgentID
			record.RecipientID = input.CandidateID
		}

	default:
		return nil, util.NewValidation("kind", "unknown relationship kind")
	}

	if err = s.checkProfiles(record.RequestorID, record.RecipientID); err != nil {
		return nil, err
	}

	err = s.RelRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.checkPairUniqueness(tx, record.Kind, record.RequestorID, record.RecipientID); err != nil {
			return err
		}
		if record.Kind == model.KindCareerAgent {
			if err := s.checkCandidateExclusivity(tx, record.CandidateID, ""); err != nil {
				return err
			}
		}
		if record.Status == model.StatusActive {
			now := time.Now()
			record.StartDate = &now
		}
		return s.RelRepo.Create(tx, &record)
	})
	if err != nil {
		return nil, err
	}

	s.RelRepo.InvalidateConnections(record.RequestorID, record.RecipientID)
	return &record, nil
}

// Request 申请建立关系：好友申请，或候选人向经纪人发起的申请
func (s *RelationshipService) Request(kind model.RelationshipKind, requestorID, recipientID uint, note string) (rel *model.Relationship, err error) {
	defer func() { observe("request", err) }()

	if requestorID == 0 || recipientID == 0 {
		return nil, util.NewValidation("parties", "requestor and recipient are required")
	}
	if requestorID == recipientID {
		return nil, util.NewValidation("parties", "cannot create a relationship with yourself")
	}
	if err = validateNote(note); err != nil {
		return nil, err
	}

	record := model.Relationship{
		Kind:        kind,
		RequestorID: requestorID,
		RecipientID: recipientID,
		Status:      model.StatusRequested,
		Note:        note,
	}

	switch kind {
	case model.KindFriend:
	case model.KindCareerAgent:
		// 候选人向经纪人发起
		record.CandidateID = requestorID
		record.AgentID = recipientID
	default:
		return nil, util.NewValidation("kind", "unknown relationship kind")
	}

	if err = s.checkProfiles(requestorID, recipientID); err != nil {
		return nil, err
	}

	err = s.RelRepo.Transaction(func(tx *gorm.DB) error {
		if kind == model.KindCareerAgent {
			if err := s.checkCandidateExclusivity(tx, record.CandidateID, ""); err != nil {
				return err
			}
		}
		if err := s.checkPairUniqueness(tx, kind, requestorID, recipientID); err != nil {
			return err
		}
		return s.RelRepo.Create(tx, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Propose 经纪人向候选人发出的邀约
func (s *RelationshipService) Propose(agentID, candidateID uint, note string) (rel *model.Relationship, err error) {
	defer func() { observe("propose", err) }()

	if agentID == 0 || candidateID == 0 {
		return nil, util.NewValidation("parties", "agent and candidate are required")
	}
	if agentID == candidateID {
		return nil, util.NewValidation("parties", "agent and candidate must be different people")
	}
	if err = validateNote(note); err != nil {
		return nil, err
	}

	record := model.Relationship{
		Kind:        model.KindCareerAgent,
		RequestorID: agentID,
		RecipientID: candidateID,
		AgentID:     agentID,
		CandidateID: candidateID,
		Status:      model.StatusProposed,
		Note:        note,
	}

	if err = s.checkProfiles(agentID, candidateID); err != nil {
		return nil, err
	}

	err = s.RelRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.checkCandidateExclusivity(tx, candidateID, ""); err != nil {
			return err
		}
		if err := s.checkPairUniqueness(tx, model.KindCareerAgent, agentID, candidateID); err != nil {
			return err
		}
		return s.RelRepo.Create(tx, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Accept 接收方同意。排他性在提交时刻重新校验：
// 两个经纪人对同一候选人并发 accept，只有一个能成功。
func (s *RelationshipService) Accept(id string, actingUserID uint) (rel *model.Relationship, err error) {
	defer func() { observe("accept", err) }()

	var record *model.Relationship
	err = s.RelRepo.Transaction(func(tx *gorm.DB) error {
		var txErr error
		record, txErr = s.RelRepo.FindByIDLocked(tx, id)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("relationship %s: %w", id, util.ErrNotFound)
			}
			return txErr
		}

		if actingUserID != record.ReceiverID() {
			return fmt.Errorf("only the receiving party may accept: %w", util.ErrForbidden)
		}
		if !awaitingStatuses[record.Status] {
			return util.NewConflict(fmt.Sprintf("relationship is %s and cannot be accepted", record.Status), record.ID)
		}

		if record.Kind == model.KindCareerAgent {
			if err := s.checkCandidateExclusivity(tx, record.CandidateID, record.ID); err != nil {
				return err
			}
		}

		record.Status = model.StatusActive
		if record.StartDate == nil {
			now := time.Now()
			record.StartDate = &now
		}
		return s.RelRepo.Save(tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.RelRepo.InvalidateConnections(record.RequestorID, record.RecipientID)
	return record, nil
}

// Reject 接收方拒绝，note 非空时覆盖原备注
func (s *RelationshipService) Reject(id string, actingUserID uint, note string) (rel *model.Relationship, err error) {
	defer func() { observe("reject", err) }()

	if err = validateNote(note); err != nil {
		return nil, err
	}

	var record *model.Relationship
	err = s.RelRepo.Transaction(func(tx *gorm.DB) error {
		var txErr error
		record, txErr = s.RelRepo.FindByIDLocked(tx, id)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("relationship %s: %w", id, util.ErrNotFound)
			}
			return txErr
		}

		if actingUserID != record.ReceiverID() {
			return fmt.Errorf("only the receiving party may reject: %w", util.ErrForbidden)
		}
		if !awaitingStatuses[record.Status] {
			return util.NewConflict(fmt.Sprintf("relationship is %s and cannot be rejected", record.Status), record.ID)
		}

		record.Status = model.StatusRejected
		now := time.Now()
		record.EndDate = &now
		if note != "" {
			record.Note = note
		}
		return s.RelRepo.Save(tx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Update 管理/界面直改路径。终态只进不出，置 inactive 自动补 endDate。
func (s *RelationshipService) Update(id string, actingUserID uint, input UpdateRelationshipInput) (rel *model.Relationship, err error) {
	defer func() { observe("update", err) }()

	if input.Note != nil {
		if err = validateNote(*input.Note); err != nil {
			return nil, err
		}
	}

	var record *model.Relationship
	err = s.RelRepo.Transaction(func(tx *gorm.DB) error {
		var txErr error
		record, txErr = s.RelRepo.FindByIDLocked(tx, id)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("relationship %s: %w", id, util.ErrNotFound)
			}
			return txErr
		}

		if !record.IsParty(actingUserID) {
			return fmt.Errorf("only a party to the relationship may update it: %w", util.ErrForbidden)
		}

		if input.Status != nil && *input.Status != record.Status {
			target := *input.Status
			if record.Status.IsTerminal() {
				return util.NewConflict(fmt.Sprintf("relationship is %s and its status can no longer change", record.Status), record.ID)
			}
			switch target {
			case model.StatusActive:
				if record.Kind == model.KindCareerAgent {
					if err := s.checkCandidateExclusivity(tx, record.CandidateID, record.ID); err != nil {
						return err
					}
				}
				if record.StartDate == nil {
					now := time.Now()
					record.StartDate = &now
				}
			case model.StatusInactive, model.StatusRejected:
				if input.EndDate == nil {
					now := time.Now()
					record.EndDate = &now
				}
			}
			record.Status = target
		}

		if input.Note != nil {
			record.Note = *input.Note
		}
		if input.EndDate != nil {
			record.EndDate = input.EndDate
		}

		return s.RelRepo.Save(tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.RelRepo.InvalidateConnections(record.RequestorID, record.RecipientID)
	return record, nil
}

// Delete 物理删除，仅做存在性检查，管理清理专用
func (s *RelationshipService) Delete(id string) (err error) {
	defer func() { observe("delete", err) }()

	record, findErr := s.RelRepo.FindByID(id)
	if findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("relationship %s: %w", id, util.ErrNotFound)
		}
		return findErr
	}

	if err = s.RelRepo.DeleteHard(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("relationship %s: %w", id, util.ErrNotFound)
		}
		return err
	}

	s.RelRepo.InvalidateConnections(record.RequestorID, record.RecipientID)
	return nil
}
