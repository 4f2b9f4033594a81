package service

import (
	"testing"
	"time"

	"talent_nest_backend/internal/config"
	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(env *testEnv) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-used-only-in-unit-tests"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(env.users, cfg)
}

func TestRegisterHashesPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user := &model.User{Name: "alice", Email: "alice@example.com", Password: "plaintext"}
	require.NoError(t, svc.Register(user))

	stored, err := env.users.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext", stored.Password)
}

// 新账号落库即带 lastLogin，列默认值不依赖具体方言
func TestNewAccountsCarryLastLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	require.NoError(t, svc.Register(&model.User{Name: "alice", Email: "alice@example.com", Password: "pw"}))

	stored, err := env.users.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.False(t, stored.LastLogin.IsZero())

	require.NoError(t, env.users.UpdateLastSeen(stored.ID))
	refreshed, err := env.users.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.False(t, refreshed.LastLogin.Before(stored.LastLogin))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	require.NoError(t, svc.Register(&model.User{Name: "alice", Email: "alice@example.com", Password: "pw"}))

	err := svc.Register(&model.User{Name: "alice2", Email: "alice@example.com", Password: "pw"})
	assert.ErrorIs(t, err, util.ErrConflict)
}

func TestLoginReturnsParsableToken(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user := &model.User{Name: "alice", Email: "alice@example.com", Password: "correct horse", Role: model.Member}
	require.NoError(t, svc.Register(user))

	token, err := svc.Login("alice@example.com", "correct horse")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, model.Member, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	require.NoError(t, svc.Register(&model.User{Name: "alice", Email: "alice@example.com", Password: "pw"}))

	_, err := svc.Login("alice@example.com", "wrong")
	assert.Error(t, err)

	_, err = svc.Login("nobody@example.com", "pw")
	assert.Error(t, err)
}
