package controller

import (
	"skill_portal_backend/internal/service"
	"skill_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// List godoc
// @Summary 用户列表
// @Tags 用户管理
// @Produce  json
// @Param q query string false "用户名关键字"
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} util.ListResponse{items=[]model.User}
// @Failure 403 {object} util.ErrorResponse
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	users, total, err := c.UserService.List(ctx.Request.Context(), ctx.Query("q"), util.GetPagination(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.List(ctx, users, total)
}

// Create godoc
// @Summary 创建用户
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Param body body service.CreateUserReq true "用户信息"
// @Success 200 {object} model.User
// @Failure 400 {object} util.ErrorResponse
// @Failure 409 {object} util.ErrorResponse
// @Router /users [post]
func (c *UserController) Create(ctx *gin.Context) {
	var req service.CreateUserReq
	if err := util.BindJSON(ctx, &req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	user, err := c.UserService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Get godoc
// @Summary 用户详情
// @Tags 用户管理
// @Produce  json
// @Param id path int true "用户ID"
// @Success 200 {object} model.User
// @Failure 404 {object} util.ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	user, err := c.UserService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Update godoc
// @Summary 修改角色或重置密码
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Param id path int true "用户ID"
// @Param body body service.UpdateUserReq true "修改内容"
// @Success 200 {object} model.User
// @Router /users/{id} [patch]
func (c *UserController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateUserReq
	if err := util.BindJSON(ctx, &req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	user, err := c.UserService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Delete godoc
// @Summary 删除用户
// @Tags 用户管理
// @Param id path int true "用户ID"
// @Success 200 {object} util.MessageResponse
// @Router /users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.Delete(ctx.Request.Context(), id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Message(ctx, "deleted")
}
