package service

import (
	"testing"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/repository"
	"talent_nest_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db      *gorm.DB
	users   *repository.UserRepository
	rels    *repository.RelationshipRepository
	engine  *RelationshipService
	queries *RelationshipQueryService
}

// newTestEnv 内存 sqlite，单连接保证事务语义和 :memory: 不漂移
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	users := repository.NewUserRepository(db)
	rels := repository.NewRelationshipRepository(db, nil)
	return &testEnv{
		db:      db,
		users:   users,
		rels:    rels,
		engine:  NewRelationshipService(rels, users),
		queries: NewRelationshipQueryService(rels, users),
	}
}

func (e *testEnv) seedUser(t *testing.T, name string) uint {
	t.Helper()
	u := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret",
		Role:     model.Member,
	}
	require.NoError(t, e.users.Create(u))
	return u.ID
}

func (e *testEnv) seedDisabledUser(t *testing.T, name string) uint {
	t.Helper()
	u := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret",
		Role:     model.Member,
		Disabled: true,
	}
	require.NoError(t, e.users.Create(u))
	return u.ID
}

// activeFriends 建立一条 active 好友关系的快捷方式
func (e *testEnv) activeFriends(t *testing.T, a, b uint) *model.Relationship {
	t.Helper()
	rel, err := e.engine.Request(model.KindFriend, a, b, "")
	require.NoError(t, err)
	rel, err = e.engine.Accept(rel.ID, b)
	require.NoError(t, err)
	return rel
}
