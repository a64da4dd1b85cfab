package controller

import (
	"errors"
	"net/http"

	"skill_portal_backend/internal/service"
	"skill_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Cookies     *util.CookieWriter
}

func NewAuthController(authService *service.AuthService, cookies *util.CookieWriter) *AuthController {
	return &AuthController{
		AuthService: authService,
		Cookies:     cookies,
	}
}

// CredentialsRequest 注册和登录共用
// swagger:model CredentialsRequest
type CredentialsRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest 登录只校验非空，长度错误统一按凭证错误处理
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

type MeResponse struct {
	User util.Principal `json:"user"`
}

func (c *AuthController) startSession(ctx *gin.Context, pair service.TokenPair) {
	c.Cookies.SetPair(ctx, pair.Access, pair.Refresh)
}

// Register godoc
// @Summary 注册新用户
// @Description 注册成功后直接下发会话 cookie
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body CredentialsRequest true "用户名和密码"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} util.ErrorResponse "请求参数错误"
// @Failure 409 {object} util.ErrorResponse "用户名已存在"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req CredentialsRequest
	if err := util.BindJSON(ctx, &req); err != nil {
		util.RespondError(ctx, err)
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	pair, err := c.AuthService.IssuePair(user)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.startSession(ctx, pair)

	util.Success(ctx, RegisterResponse{
		Message: "registered",
		User:    UserSummary{ID: user.ID, Username: user.Username, Role: string(user.Role)},
	})
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "用户名和密码"
// @Success 200 {object} util.MessageResponse
// @Failure 400 {object} util.ErrorResponse "用户名或密码错误"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := util.BindJSON(ctx, &req); err != nil {
		util.RespondError(ctx, err)
		return
	}

	user, err := c.AuthService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	pair, err := c.AuthService.IssuePair(user)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.startSession(ctx, pair)

	util.Message(ctx, "logged_in")
}

// Refresh godoc
// @Summary 刷新会话
// @Description 使用 refresh cookie 轮换访问令牌和刷新令牌
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.MessageResponse
// @Failure 401 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse "CSRF 校验失败"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	token, err := ctx.Cookie(util.RefreshCookieName)
	if err != nil || token == "" {
		util.Unauthorized(ctx, "No refresh token")
		return
	}

	user, err := c.AuthService.Refresh(ctx.Request.Context(), token)
	switch {
	case errors.Is(err, util.ErrInvalidToken):
		util.Unauthorized(ctx, "Invalid or expired token")
		return
	case errors.Is(err, util.ErrUserNotFound):
		util.Unauthorized(ctx, "User revoked")
		return
	case err != nil:
		util.RespondError(ctx, err)
		return
	}

	pair, err := c.AuthService.IssuePair(user)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.startSession(ctx, pair)

	util.Message(ctx, "refreshed")
}

// Me godoc
// @Summary 当前登录用户
// @Tags 认证
// @Produce  json
// @Success 200 {object} MeResponse
// @Failure 401 {object} util.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, MeResponse{User: p})
}

// Logout godoc
// @Summary 退出登录
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.MessageResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.Cookies.Clear(ctx)
	util.Message(ctx, "logged_out")
}
