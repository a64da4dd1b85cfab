package controller

import (
	"skill_portal_backend/internal/service"
	"skill_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService *service.SkillService
}

func NewSkillController(skillService *service.SkillService) *SkillController {
	return &SkillController{SkillService: skillService}
}

// List godoc
// @Summary 技能分类列表
// @Tags 技能
// @Produce  json
// @Param q query string false "名称关键字"
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} util.ListResponse{items=[]model.SkillCategory}
// @Router /skills [get]
func (c *SkillController) List(ctx *gin.Context) {
	skills, total, err := c.SkillService.List(ctx.Request.Context(), ctx.Query("q"), util.GetPagination(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.List(ctx, skills, total)
}

// Get godoc
// @Summary 技能详情
// @Tags 技能
// @Produce  json
// @Param id path int true "技能ID"
// @Success 200 {object} model.SkillCategory
// @Failure 404 {object} util.ErrorResponse
// @Router /skills/{id} [get]
func (c *SkillController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	skill, err := c.SkillService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}

// Create godoc
// @Summary 创建技能
// @Tags 技能
// @Accept  json
// @Produce  json
// @Param body body service.CreateSkillReq true "技能信息"
// @Success 200 {object} model.SkillCategory
// @Failure 409 {object} util.ErrorResponse "名称重复"
// @Router /skills [post]
func (c *SkillController) Create(ctx *gin.Context) {
	var req service.CreateSkillReq
	if err := util.BindJSON(ctx, &req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	skill, err := c.SkillService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}

// Update godoc
// @Summary 修改技能
// @Tags 技能
// @Accept  json
// @Produce  json
// @Param id path int true "技能ID"
// @Param body body service.UpdateSkillReq true "修改内容"
// @Success 200 {object} model.SkillCategory
// @Router /skills/{id} [patch]
func (c *SkillController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateSkillReq
	if err := util.BindJSON(ctx, &req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	skill, err := c.SkillService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}

// Delete godoc
// @Summary 删除技能及其题目
// @Tags 技能
// @Param id path int true "技能ID"
// @Success 200 {object} util.MessageResponse
// @Router /skills/{id} [delete]
func (c *SkillController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.SkillService.Delete(ctx.Request.Context(), id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Message(ctx, "deleted")
}
