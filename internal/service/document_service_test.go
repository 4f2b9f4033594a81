package service

import (
	"context"
	"strings"
	"testing"

	"talent_nest_backend/internal/config"
	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/repository"
	"talent_nest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentService(t *testing.T, env *testEnv) *DocumentService {
	t.Helper()
	storage := &StorageService{
		Provider: &LocalStorageProvider{
			Config: &config.StorageConfig{LocalPath: t.TempDir()},
		},
	}
	return NewDocumentService(repository.NewDocumentRepository(env.db), storage, env.queries)
}

func uploadDoc(t *testing.T, svc *DocumentService, ownerID uint, docType model.DocumentType) *model.Document {
	t.Helper()
	doc, err := svc.Upload(context.Background(), ownerID, docType, "file.pdf", strings.NewReader("content"), 7, "application/pdf")
	require.NoError(t, err)
	return doc
}

func TestUploadRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	svc := newDocumentService(t, env)
	owner := env.seedUser(t, "alice")

	_, err := svc.Upload(context.Background(), owner, "diploma", "file.pdf", strings.NewReader("x"), 1, "application/pdf")
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestOwnerCanDownloadOwnDocuments(t *testing.T) {
	env := newTestEnv(t)
	svc := newDocumentService(t, env)
	owner := env.seedUser(t, "alice")

	doc := uploadDoc(t, svc, owner, model.DocumentResume)

	url, err := svc.DownloadURL(context.Background(), doc.ID, owner)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
}

func TestStrangerCannotDownloadResume(t *testing.T) {
	env := newTestEnv(t)
	svc := newDocumentService(t, env)
	owner := env.seedUser(t, "alice")
	stranger := env.seedUser(t, "eve")

	doc := uploadDoc(t, svc, owner, model.DocumentResume)

	_, err := svc.DownloadURL(context.Background(), doc.ID, stranger)
	assert.ErrorIs(t, err, util.ErrForbidden)
}

// 求职信对非本人开放的唯一通道：所有者的活跃经纪人
func TestActiveAgentCanReadCoverLetter(t *testing.T) {
	env := newTestEnv(t)
	svc := newDocumentService(t, env)
	owner := env.seedUser(t, "carla")
	agent := env.seedUser(t, "amy")
	stranger := env.seedUser(t, "eve")

	doc := uploadDoc(t, svc, owner, model.DocumentCoverLetter)

	// 没有经纪关系之前不行
	_, err := svc.DownloadURL(context.Background(), doc.ID, agent)
	assert.ErrorIs(t, err, util.ErrForbidden)

	rel, err := env.engine.Propose(agent, owner, "")
	require.NoError(t, err)
	_, err = env.engine.Accept(rel.ID, owner)
	require.NoError(t, err)

	url, err := svc.DownloadURL(context.Background(), doc.ID, agent)
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	// 经纪关系打开的门只对经纪人本人开
	_, err = svc.DownloadURL(context.Background(), doc.ID, stranger)
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestTerminatedAgentLosesCoverLetterAccess(t *testing.T) {
	env := newTestEnv(t)
	svc := newDocumentService(t, env)
	owner := env.seedUser(t, "carla")
	agent := env.seedUser(t, "amy")

	doc := uploadDoc(t, svc, owner, model.DocumentCoverLetter)

	rel, err := env.engine.Propose(agent, owner, "")
	require.NoError(t, err)
	_, err = env.engine.Accept(rel.ID, owner)
	require.NoError(t, err)

	inactive := model.StatusInactive
	_, err = env.engine.Update(rel.ID, owner, UpdateRelationshipInput{Status: &inactive})
	require.NoError(t, err)

	_, err = svc.DownloadURL(context.Background(), doc.ID, agent)
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestAgentCannotReadCandidateResume(t *testing.T) {
	env := newTestEnv(t)
	svc := newDocumentService(t, env)
	owner := env.seedUser(t, "carla")
	agent := env.seedUser(t, "amy")

	doc := uploadDoc(t, svc, owner, model.DocumentResume)

	rel, err := env.engine.Propose(agent, owner, "")
	require.NoError(t, err)
	_, err = env.engine.Accept(rel.ID, owner)
	require.NoError(t, err)

	// 经纪人通道只覆盖求职信
	_, err = svc.DownloadURL(context.Background(), doc.ID, agent)
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestDeleteDocumentOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := newDocumentService(t, env)
	owner := env.seedUser(t, "alice")
	stranger := env.seedUser(t, "eve")

	doc := uploadDoc(t, svc, owner, model.DocumentResume)

	err := svc.Delete(context.Background(), doc.ID, stranger)
	assert.ErrorIs(t, err, util.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), doc.ID, owner))

	_, err = svc.DownloadURL(context.Background(), doc.ID, owner)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestListOwnFiltersByType(t *testing.T) {
	env := newTestEnv(t)
	svc := newDocumentService(t, env)
	owner := env.seedUser(t, "alice")

	uploadDoc(t, svc, owner, model.DocumentResume)
	uploadDoc(t, svc, owner, model.DocumentCoverLetter)

	all, err := svc.ListOwn(owner, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	resume := model.DocumentResume
	resumes, err := svc.ListOwn(owner, &resume)
	require.NoError(t, err)
	require.Len(t, resumes, 1)
	assert.Equal(t, model.DocumentResume, resumes[0].Type)
}
