package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/repository"
	"talent_nest_backend/internal/util"

	"gorm.io/gorm"
)

// DocumentService 简历/求职信的存取封装。
// 求职信对非本人开放的唯一通道：读取者是文档所有者的活跃经纪人。
type DocumentService struct {
	DocRepo  *repository.DocumentRepository
	Storage  *StorageService
	QuerySvc *RelationshipQueryService
}

func NewDocumentService(docRepo *repository.DocumentRepository, storage *StorageService, querySvc *RelationshipQueryService) *DocumentService {
	return &DocumentService{
		DocRepo:  docRepo,
		Storage:  storage,
		QuerySvc: querySvc,
	}
}

func (s *DocumentService) Upload(ctx context.Context, ownerID uint, docType model.DocumentType, fileName string, reader io.Reader, size int64, contentType string) (*model.Document, error) {
	if docType != model.DocumentResume && docType != model.DocumentCoverLetter {
		return nil, util.NewValidation("type", "unknown document type")
	}
	if fileName == "" {
		return nil, util.NewValidation("fileName", "file name is required")
	}

	objectKey := fmt.Sprintf("documents/%d/%s%s", ownerID, model.GenerateUUID(), filepath.Ext(fileName))
	if _, err := s.Storage.Upload(ctx, objectKey, reader, size, contentType); err != nil {
		return nil, err
	}

	doc := &model.Document{
		OwnerID:     ownerID,
		Type:        docType,
		FileName:    fileName,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        size,
	}
	if err := s.DocRepo.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) ListOwn(ownerID uint, docType *model.DocumentType) ([]model.Document, error) {
	return s.DocRepo.ListByOwner(ownerID, docType)
}

// DownloadURL 所有者直接放行；求职信额外允许所有者的活跃经纪人读取
func (s *DocumentService) DownloadURL(ctx context.Context, id string, actingUserID uint) (string, error) {
	doc, err := s.DocRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("document %s: %w", id, util.ErrNotFound)
		}
		return "", err
	}

	if doc.OwnerID != actingUserID {
		if doc.Type != model.DocumentCoverLetter {
			return "", fmt.Errorf("document belongs to another user: %w", util.ErrForbidden)
		}
		if _, err := s.QuerySvc.GetCareerAgentRelationship(actingUserID, doc.OwnerID); err != nil {
			if errors.Is(err, util.ErrNotFound) {
				return "", fmt.Errorf("cover letters are only visible to the owner's active career agent: %w", util.ErrForbidden)
			}
			return "", err
		}
	}

	return s.Storage.GetURL(ctx, doc.ObjectKey)
}

func (s *DocumentService) Delete(ctx context.Context, id string, actingUserID uint) error {
	doc, err := s.DocRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("document %s: %w", id, util.ErrNotFound)
		}
		return err
	}
	if doc.OwnerID != actingUserID {
		return fmt.Errorf("document belongs to another user: %w", util.ErrForbidden)
	}

	if err := s.Storage.Delete(ctx, doc.ObjectKey); err != nil {
		return err
	}
	return s.DocRepo.Delete(id)
}
