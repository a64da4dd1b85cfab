package service

import (
	"context"
	"strings"
	"testing"

	"skill_portal_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skillsFile = `[
  {"name": "Go", "questions": [
    {"text": "Zero value of int?", "options": {"A": "0", "B": "nil"}, "correctOption": "A"},
    {"text": "Keyword for goroutine?", "options": {"A": "go", "B": "async"}, "correctOption": "A"}
  ]},
  {"name": "SQL", "description": "Relational basics", "questions": []}
]`

func TestImportSkills(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bundles, err := DecodeSkillBundles(strings.NewReader(skillsFile))
	require.NoError(t, err)

	skills, questions, err := ImportSkills(ctx, f.db, bundles)
	require.NoError(t, err)
	assert.Equal(t, 2, skills)
	assert.Equal(t, 2, questions)

	// 再次导入复用已有技能
	skills, questions, err = ImportSkills(ctx, f.db, bundles[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, skills)
	assert.Equal(t, 2, questions)
}

func TestImportSkillsRollsBackOnInvalidQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bundles := []SkillBundle{
		{Name: "Go", Questions: []QuestionSeed{{Text: "ok", Options: map[string]string{"A": "a", "B": "b"}, CorrectOption: "A"}}},
		{Name: "Rust", Questions: []QuestionSeed{{Text: "bad", Options: map[string]string{"A": "a", "B": "b"}, CorrectOption: "Z"}}},
	}
	_, _, err := ImportSkills(ctx, f.db, bundles)
	require.ErrorIs(t, err, model.ErrCorrectNotInOption)

	var n int64
	require.NoError(t, f.db.Model(&model.SkillCategory{}).Count(&n).Error)
	assert.Zero(t, n)
}
