package service

import (
	"context"
	"testing"
	"time"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 75, Percent(15, 20))
	assert.Equal(t, 80, Percent(40, 50))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 0, Percent(5, 0))
}

func TestBuildGaps(t *testing.T) {
	user := []repository.SkillSums{
		{SkillID: 1, Skill: "Go", SumScore: 15, SumTotal: 20},
		{SkillID: 2, Skill: "SQL", SumScore: 9, SumTotal: 10},
		{SkillID: 3, Skill: "Docker", SumScore: 9, SumTotal: 10},
	}
	global := []repository.SkillSums{
		{SkillID: 1, Skill: "Go", SumScore: 40, SumTotal: 50},
		{SkillID: 2, Skill: "SQL", SumScore: 18, SumTotal: 20},
		{SkillID: 3, Skill: "Docker", SumScore: 9, SumTotal: 10},
		{SkillID: 4, Skill: "K8s", SumScore: 1, SumTotal: 10},
	}

	gaps := BuildGaps(user, global)
	require.Len(t, gaps, 3)
	assert.Equal(t, SkillGap{SkillID: 1, Skill: "Go", UserAvg: 75, GlobalAvg: 80, Gap: -5}, gaps[0])
	// 并列时按技能名
	assert.Equal(t, "Docker", gaps[1].Skill)
	assert.Equal(t, "SQL", gaps[2].Skill)
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	rng, err := ResolveRange(ReportQuery{Period: "week"}, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), rng.From)
	assert.True(t, rng.To.IsZero())

	rng, err = ResolveRange(ReportQuery{Period: "month"}, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, -1, 0), rng.From)

	rng, err = ResolveRange(ReportQuery{From: "2024-01-01", To: "2024-02-01T10:00:00Z", Period: "week"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), rng.To)

	rng, err = ResolveRange(ReportQuery{Period: " Week "}, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), rng.From)

	// 未知 period 不限时间
	rng, err = ResolveRange(ReportQuery{Period: "year"}, now)
	require.NoError(t, err)
	assert.True(t, rng.From.IsZero())
	assert.True(t, rng.To.IsZero())

	_, err = ResolveRange(ReportQuery{From: "yesterday"}, now)
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)

	_, err = ResolveRange(ReportQuery{From: "2024-02-01", To: "2024-01-01"}, now)
	assert.Error(t, err)
}

func TestReportServiceAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", model.RoleUser)
	bob := f.user(t, "bob", model.RoleUser)
	goSkill := f.skill(t, "Go")

	now := time.Now().UTC()
	for _, a := range []model.QuizAttempt{
		{UserID: alice.ID, SkillID: goSkill.ID, Score: 10, Total: 10},
		{UserID: alice.ID, SkillID: goSkill.ID, Score: 5, Total: 10},
		{UserID: bob.ID, SkillID: goSkill.ID, Score: 25, Total: 30},
	} {
		a.StartedAt, a.SubmittedAt = now, now
		require.NoError(t, f.db.Create(&a).Error)
	}

	svc := NewReportService(f.reports)
	p := util.PrincipalOf(alice)

	perf, err := svc.Performance(ctx, p, alice.ID, ReportQuery{})
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, PerformanceItem{SkillID: goSkill.ID, Skill: "Go", AvgPercent: 75, AttemptsTotal: 20}, perf[0])

	gaps, err := svc.SkillGaps(ctx, p, alice.ID, ReportQuery{})
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, 75, gaps[0].UserAvg)
	assert.Equal(t, 80, gaps[0].GlobalAvg)
	assert.Equal(t, -5, gaps[0].Gap)

	_, err = svc.Performance(ctx, p, bob.ID, ReportQuery{})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 时间范围之外没有数据
	perf, err = svc.Performance(ctx, p, alice.ID, ReportQuery{From: "2000-01-01", To: "2000-02-01"})
	require.NoError(t, err)
	assert.Empty(t, perf)
}
