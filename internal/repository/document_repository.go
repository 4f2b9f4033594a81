package repository

import (
	"talent_nest_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) FindByID(id string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.First(&doc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByOwner(ownerID uint, docType *model.DocumentType) ([]model.Document, error) {
	var docs []model.Document
	db := r.DB.Where("owner_id = ?", ownerID)
	if docType != nil {
		db = db.Where("type = ?", *docType)
	}
	err := db.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Document{}).Error
}
