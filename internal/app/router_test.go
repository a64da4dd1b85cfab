package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skill_portal_backend/internal/config"
	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/service"
	"skill_portal_backend/internal/util"
	"skill_portal_backend/pkg/database"
	"skill_portal_backend/pkg/logger"
	"skill_portal_backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitNop()
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "test"},
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessTTL:     "900s",
			RefreshTTL:    "14d",
		},
		Cookie:    config.CookieConfig{SameSite: "strict"},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		RateLimit: config.RateLimitConfig{Store: "memory", MaxRequests: 10000, Window: "60s"},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	a := New(testConfig(), db, nil, storage.NewLocalProvider(t.TempDir()))
	t.Cleanup(a.Close)
	return a
}

// client 模拟浏览器：保存 cookie，写请求自动带上 CSRF 头
type client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
	noCSRF  bool
}

func newClient(t *testing.T, a *App) *client {
	c := &client{t: t, handler: a.Router, cookies: map[string]*http.Cookie{}}
	// 先访问一次拿到 XSRF-TOKEN
	c.do(http.MethodGet, "/api/health", nil)
	require.NotNil(t, c.cookies[util.CSRFCookieName])
	return c
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	if ck, ok := c.cookies[util.CSRFCookieName]; ok && !c.noCSRF {
		req.Header.Set(util.CSRFHeaderName, ck.Value)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type listBody struct {
	Items []json.RawMessage `json:"items"`
	Total int64             `json:"total"`
}

func registerAndLogin(t *testing.T, a *App, username, password string) *client {
	c := newClient(t, a)
	w := c.do(http.MethodPost, "/api/auth/register", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return c
}

func adminClient(t *testing.T, a *App) *client {
	users := service.NewUserService(repositoryUsers(a))
	_, _, err := users.EnsureAdmin(context.Background(), "root", "rootpass")
	require.NoError(t, err)

	c := newClient(t, a)
	w := c.do(http.MethodPost, "/api/auth/login", gin.H{"username": "root", "password": "rootpass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return c
}

func TestRegisterLoginMe(t *testing.T) {
	a := newTestApp(t)
	c := newClient(t, a)

	w := c.do(http.MethodPost, "/api/auth/register", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reg struct {
		Message string `json:"message"`
		User    struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	decode(t, w, &reg)
	assert.Equal(t, "registered", reg.Message)
	assert.Equal(t, "USER", reg.User.Role)

	w = c.do(http.MethodPost, "/api/auth/register", gin.H{"username": "alice", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/api/auth/register", gin.H{"username": "al", "password": "1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var verr util.ErrorResponse
	decode(t, w, &verr)
	assert.Len(t, verr.Errors, 2, "every violated field is reported")

	fresh := newClient(t, a)
	w = fresh.do(http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = fresh.do(http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = fresh.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User util.Principal `json:"user"`
	}
	decode(t, w, &me)
	assert.Equal(t, util.Principal{Sub: reg.User.ID, Username: "alice", Role: model.RoleUser}, me.User)

	w = fresh.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = fresh.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRotation(t *testing.T) {
	a := newTestApp(t)
	c := registerAndLogin(t, a, "alice", "secret123")
	oldRefresh := c.cookies[util.RefreshCookieName].Value

	c.noCSRF = true
	w := c.do(http.MethodPost, "/api/auth/refresh", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	c.noCSRF = false

	w = c.do(http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEqual(t, oldRefresh, c.cookies[util.RefreshCookieName].Value)

	anon := newClient(t, a)
	w = anon.do(http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var e util.ErrorResponse
	decode(t, w, &e)
	assert.Equal(t, "No refresh token", e.Message)

	u, err := repositoryUsers(a).FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NoError(t, repositoryUsers(a).Delete(context.Background(), u.ID))
	w = c.do(http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	decode(t, w, &e)
	assert.Equal(t, "User revoked", e.Message)
}

func TestStateChangingRequestsRequireCSRF(t *testing.T) {
	a := newTestApp(t)
	c := registerAndLogin(t, a, "alice", "secret123")

	c.noCSRF = true
	w := c.do(http.MethodPost, "/api/quiz/attempts", gin.H{"skillId": 1, "answers": []gin.H{{"questionId": 1, "selected": "A"}}})
	require.Equal(t, http.StatusForbidden, w.Code)
	var e util.ErrorResponse
	decode(t, w, &e)
	assert.Equal(t, "CSRF token invalid", e.Message)

	// GET 不需要
	w = c.do(http.MethodGet, "/api/quiz/attempts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFCheckedBeforeSession(t *testing.T) {
	a := newTestApp(t)

	anon := newClient(t, a)
	anon.noCSRF = true
	for _, path := range []string{"/api/skills", "/api/quiz/attempts", "/api/auth/logout", "/api/users"} {
		w := anon.do(http.MethodPost, path, gin.H{})
		require.Equal(t, http.StatusForbidden, w.Code, path)
		var e util.ErrorResponse
		decode(t, w, &e)
		assert.Equal(t, "CSRF token invalid", e.Message, path)
	}

	// 无效的会话 cookie 同样先被 CSRF 拦下
	anon.cookies[util.AccessCookieName] = &http.Cookie{Name: util.AccessCookieName, Value: "garbage"}
	w := anon.do(http.MethodPost, "/api/skills", gin.H{"name": "Go"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 带上 CSRF 头后才轮到登录校验
	anon.noCSRF = false
	w = anon.do(http.MethodPost, "/api/skills", gin.H{"name": "Go"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserCannotUseAdminEndpoints(t *testing.T) {
	a := newTestApp(t)
	c := registerAndLogin(t, a, "alice", "secret123")

	w := c.do(http.MethodPost, "/api/skills", gin.H{"name": "Go"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = c.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var n int64
	require.NoError(t, a.DB.Model(&model.SkillCategory{}).Count(&n).Error)
	assert.Zero(t, n)

	w = newClient(t, a).do(http.MethodGet, "/api/skills", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSkillPagination(t *testing.T) {
	a := newTestApp(t)
	admin := adminClient(t, a)

	for i := 1; i <= 25; i++ {
		w := admin.do(http.MethodPost, "/api/skills", gin.H{"name": fmt.Sprintf("skill-%02d", i)})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := admin.do(http.MethodPost, "/api/skills", gin.H{"name": "skill-01"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var page listBody
	w = admin.do(http.MethodGet, "/api/skills?page=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Len(t, page.Items, 10)
	assert.EqualValues(t, 25, page.Total)

	w = admin.do(http.MethodGet, "/api/skills?page=3&pageSize=10", nil)
	decode(t, w, &page)
	assert.Len(t, page.Items, 5)

	w = admin.do(http.MethodGet, "/api/skills?page=1&pageSize=1000", nil)
	decode(t, w, &page)
	assert.Len(t, page.Items, 25)

	w = admin.do(http.MethodGet, "/api/skills?q=skill-2", nil)
	decode(t, w, &page)
	assert.EqualValues(t, 6, page.Total)
}

func createQuestion(t *testing.T, admin *client, skillID uint, correct string) uint {
	w := admin.do(http.MethodPost, "/api/questions", gin.H{
		"skillId":       skillID,
		"text":          "Pick " + correct,
		"options":       gin.H{"A": "a", "B": "b", "C": "c", "D": "d"},
		"correctOption": correct,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var q model.Question
	decode(t, w, &q)
	return q.ID
}

func TestQuizSubmissionAndReports(t *testing.T) {
	a := newTestApp(t)
	admin := adminClient(t, a)

	w := admin.do(http.MethodPost, "/api/skills", gin.H{"name": "Go"})
	require.Equal(t, http.StatusOK, w.Code)
	var skill model.SkillCategory
	decode(t, w, &skill)

	w = admin.do(http.MethodPost, "/api/questions", gin.H{
		"skillId": skill.ID, "text": "bad", "options": gin.H{"A": "a", "B": "b"}, "correctOption": "Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var ids []uint
	for _, correct := range []string{"A", "A", "B", "C", "D"} {
		ids = append(ids, createQuestion(t, admin, skill.ID, correct))
	}

	user := registerAndLogin(t, a, "alice", "secret123")

	w = user.do(http.MethodGet, fmt.Sprintf("/api/quiz/skills/%d/questions", skill.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "correctOption")

	var answers []gin.H
	for i, sel := range []string{"A", "B", "B", "C", "X"} {
		answers = append(answers, gin.H{"questionId": ids[i], "selected": sel})
	}
	w = user.do(http.MethodPost, "/api/quiz/attempts", gin.H{"skillId": skill.ID, "answers": answers})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var submitted struct {
		Attempt model.QuizAttempt `json:"attempt"`
	}
	decode(t, w, &submitted)
	assert.Equal(t, 3, submitted.Attempt.Score)
	assert.Equal(t, 5, submitted.Attempt.Total)

	var rows int64
	require.NoError(t, a.DB.Model(&model.QuizAnswer{}).Where("attempt_id = ?", submitted.Attempt.ID).Count(&rows).Error)
	assert.EqualValues(t, 5, rows)

	w = user.do(http.MethodPost, "/api/quiz/attempts", gin.H{"skillId": skill.ID, "answers": []gin.H{{"questionId": 9999, "selected": "A"}}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var e util.ErrorResponse
	decode(t, w, &e)
	assert.Equal(t, "invalid question set", e.Message)

	w = user.do(http.MethodPost, "/api/quiz/attempts", gin.H{"skillId": 0, "answers": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = user.do(http.MethodGet, fmt.Sprintf("/api/quiz/attempts/%d", submitted.Attempt.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail model.QuizAttempt
	decode(t, w, &detail)
	assert.Len(t, detail.Answers, 5)

	// 报表：alice 15/20，全体 40/50
	me := submitted.Attempt.UserID
	registerAndLogin(t, a, "bob", "secret123")
	bob, err := repositoryUsers(a).FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.NoError(t, a.DB.Where("1 = 1").Delete(&model.QuizAttempt{}).Error)
	now := time.Now().UTC()
	for _, at := range []model.QuizAttempt{
		{UserID: me, SkillID: skill.ID, Score: 15, Total: 20},
		{UserID: bob.ID, SkillID: skill.ID, Score: 25, Total: 30},
	} {
		at.StartedAt, at.SubmittedAt = now, now
		require.NoError(t, a.DB.Create(&at).Error)
	}

	w = user.do(http.MethodGet, fmt.Sprintf("/api/reports/user/%d/performance", me), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var perf struct {
		UserID uint                      `json:"userId"`
		Data   []service.PerformanceItem `json:"data"`
	}
	decode(t, w, &perf)
	assert.Equal(t, me, perf.UserID)
	require.Len(t, perf.Data, 1)
	assert.Equal(t, 75, perf.Data[0].AvgPercent)

	w = user.do(http.MethodGet, fmt.Sprintf("/api/reports/user/%d/skill-gaps?period=month", me), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var gaps struct {
		UserID uint               `json:"userId"`
		Data   []service.SkillGap `json:"data"`
	}
	decode(t, w, &gaps)
	assert.Equal(t, me, gaps.UserID)
	require.Len(t, gaps.Data, 1)
	assert.Equal(t, -5, gaps.Data[0].Gap)

	// period 不区分大小写，未知值不限时间
	w = user.do(http.MethodGet, fmt.Sprintf("/api/reports/user/%d/skill-gaps?period=Week", me), nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = user.do(http.MethodGet, fmt.Sprintf("/api/reports/user/%d/performance?period=decade", me), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &perf)
	require.Len(t, perf.Data, 1)

	w = user.do(http.MethodGet, fmt.Sprintf("/api/reports/user/%d/performance", bob.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = admin.do(http.MethodGet, fmt.Sprintf("/api/reports/user/%d/performance", bob.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = user.do(http.MethodGet, fmt.Sprintf("/api/reports/user/%d/performance?from=nope", me), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionExport(t *testing.T) {
	a := newTestApp(t)
	admin := adminClient(t, a)

	w := admin.do(http.MethodPost, "/api/skills", gin.H{"name": "Go"})
	var skill model.SkillCategory
	decode(t, w, &skill)
	createQuestion(t, admin, skill.ID, "A")

	w = admin.do(http.MethodPost, fmt.Sprintf("/api/questions/export?skillId=%d", skill.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res service.ExportResult
	decode(t, w, &res)
	assert.Equal(t, 1, res.Count)
	assert.Contains(t, res.URL, "/exports/questions/")

	w = admin.do(http.MethodGet, res.URL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "correctOption")

	// 普通用户和匿名请求不能下载
	w = registerAndLogin(t, a, "alice", "secret123").do(http.MethodGet, res.URL, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, res.URL, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthAndHeaders(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	req := httptest.NewRequest(http.MethodOptions, "/api/skills", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	// 热更新 CORS 白名单
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"https://portal.example.com"}
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	req = httptest.NewRequest(http.MethodOptions, "/api/skills", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
