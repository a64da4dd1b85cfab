package service

import (
	"context"
	"testing"

	"skill_portal_backend/internal/config"
	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/util"
	"skill_portal_backend/pkg/database"
	"skill_portal_backend/pkg/logger"
	"skill_portal_backend/pkg/monitoring"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	users     *repository.UserRepository
	skills    *repository.SkillRepository
	questions *repository.QuestionRepository
	quizzes   *repository.QuizRepository
	reports   *repository.ReportRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.InitNop()
	monitoring.Init()

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &fixture{
		db:        db,
		users:     repository.NewUserRepository(db),
		skills:    repository.NewSkillRepository(db),
		questions: repository.NewQuestionRepository(db),
		quizzes:   repository.NewQuizRepository(db),
		reports:   repository.NewReportRepository(db),
	}
}

func testCodec() *util.TokenCodec {
	return util.NewTokenCodec(config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     "900s",
		RefreshTTL:    "14d",
	})
}

func (f *fixture) user(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{Username: name, PasswordHash: "x", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) skill(t *testing.T, name string) *model.SkillCategory {
	t.Helper()
	s := &model.SkillCategory{Name: name}
	require.NoError(t, f.skills.Create(context.Background(), s))
	return s
}

func (f *fixture) question(t *testing.T, skillID uint, correct string) *model.Question {
	t.Helper()
	q := &model.Question{
		SkillID:       skillID,
		Text:          "question",
		Options:       model.Options{"A": "a", "B": "b", "C": "c", "D": "d"},
		CorrectOption: correct,
	}
	require.NoError(t, f.questions.Create(context.Background(), q))
	return q
}
