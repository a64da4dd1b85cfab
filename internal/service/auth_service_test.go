package service

import (
	"context"
	"testing"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginRefresh(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, testCodec())
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	_, err = svc.Register(ctx, "alice", "another1")
	assert.ErrorIs(t, err, util.ErrUserExists)

	_, err = svc.Login(ctx, "alice", "wrong-pass")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	logged, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	pair, err := svc.IssuePair(logged)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)

	// 访问令牌不能当作刷新令牌使用
	_, err = svc.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, util.ErrInvalidToken)

	require.NoError(t, f.users.Delete(ctx, user.ID))
	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUserServiceEnsureAdminAndUpdate(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	auth := NewAuthService(f.users, testCodec())
	ctx := context.Background()

	admin, created, err := svc.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	_, created, err = svc.EnsureAdmin(ctx, "admin", "other-pass")
	require.NoError(t, err)
	assert.False(t, created)
	_, err = auth.Login(ctx, "admin", "admin123")
	assert.NoError(t, err, "existing password must be kept")

	u, err := svc.Create(ctx, CreateUserReq{Username: "bob", Password: "bobpass1"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)

	role, pass := "ADMIN", "newpass1"
	u, err = svc.Update(ctx, u.ID, UpdateUserReq{Role: &role, Password: &pass})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	_, err = auth.Login(ctx, "bob", "newpass1")
	assert.NoError(t, err)

	_, err = svc.Update(ctx, 9999, UpdateUserReq{Role: &role})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestQuestionServiceMergesBeforeValidating(t *testing.T) {
	f := newFixture(t)
	svc := NewQuestionService(f.questions, f.skills)
	ctx := context.Background()
	s := f.skill(t, "Go")

	_, err := svc.Create(ctx, CreateQuestionReq{SkillID: s.ID, Text: "q", Options: map[string]string{"A": "a", "B": "b"}, CorrectOption: "C"})
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)

	_, err = svc.Create(ctx, CreateQuestionReq{SkillID: 9999, Text: "q", Options: map[string]string{"A": "a", "B": "b"}, CorrectOption: "A"})
	assert.ErrorIs(t, err, util.ErrNotFound)

	q, err := svc.Create(ctx, CreateQuestionReq{SkillID: s.ID, Text: "q", Options: map[string]string{"A": "a", "B": "b"}, CorrectOption: "A"})
	require.NoError(t, err)

	// 只改 options 且去掉当前正确答案，应被拒绝
	_, err = svc.Update(ctx, q.ID, UpdateQuestionReq{Options: map[string]string{"B": "b", "C": "c"}})
	require.ErrorAs(t, err, &appErr)

	correct := "C"
	q, err = svc.Update(ctx, q.ID, UpdateQuestionReq{Options: map[string]string{"B": "b", "C": "c"}, CorrectOption: &correct})
	require.NoError(t, err)
	assert.Equal(t, "C", q.CorrectOption)

	public, err := svc.ListForQuiz(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, model.Options{"B": "b", "C": "c"}, public[0].Options)
}
