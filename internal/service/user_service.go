package service

import (
	"errors"
	"fmt"
	"time"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/repository"
	"talent_nest_backend/internal/util"

	"gorm.io/gorm"
)

// UserService 身份目录的业务封装
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile %d: %w", id, util.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// ProfileUpdate 可编辑的档案字段
type ProfileUpdate struct {
	Name     string
	Headline string
	Company  string
	Industry string
}

func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	user.Headline = update.Headline
	user.Company = update.Company
	user.Industry = update.Industry
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetPictureURL(userID uint, url string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.PictureURL = url
	return s.UserRepo.Update(user)
}
