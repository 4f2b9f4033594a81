package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"talent_nest_backend/internal/repository"
	"talent_nest_backend/internal/util"
	"talent_nest_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const verificationCodeTTL = 10 * time.Minute

// VerificationService 邮箱一次性验证码，只存 Redis。
// 实际的邮件投递由外部服务负责，这里只生成、保存并记录。
type VerificationService struct {
	Redis    *redis.Client
	UserRepo *repository.UserRepository
	ctx      context.Context
}

func NewVerificationService(rdb *redis.Client, userRepo *repository.UserRepository) *VerificationService {
	return &VerificationService{
		Redis:    rdb,
		UserRepo: userRepo,
		ctx:      context.Background(),
	}
}

// RequestCode 生成6位数字验证码，覆盖同邮箱未过期的旧码
func (s *VerificationService) RequestCode(email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("profile with email %s: %w", email, util.ErrNotFound)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	key := "verification:" + email
	if err := s.Redis.Set(s.ctx, key, code, verificationCodeTTL).Err(); err != nil {
		return err
	}

	// 投递交给外部邮件服务；这里记录已签发
	logger.Log.Info("verification code issued",
		zap.String("email", email),
		zap.Uint("userId", user.ID),
	)
	return nil
}

// ConfirmCode 校验通过后标记邮箱已验证，验证码一次性使用
func (s *VerificationService) ConfirmCode(email, code string) error {
	key := "verification:" + email
	stored, err := s.Redis.Get(s.ctx, key).Result()
	if err != nil || stored != code {
		return util.NewValidation("code", "invalid or expired verification code")
	}
	s.Redis.Del(s.ctx, key)

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("profile with email %s: %w", email, util.ErrNotFound)
	}
	user.EmailVerified = true
	return s.UserRepo.Update(user)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
