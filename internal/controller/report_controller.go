package controller

import (
	"skill_portal_backend/internal/service"
	"skill_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

type PerformanceResponse struct {
	UserID uint                      `json:"userId"`
	Data   []service.PerformanceItem `json:"data"`
}

type SkillGapsResponse struct {
	UserID uint               `json:"userId"`
	Data   []service.SkillGap `json:"data"`
}

// Performance godoc
// @Summary 用户各技能得分率
// @Tags 报表
// @Produce  json
// @Param userId path int true "用户ID"
// @Param from query string false "开始时间 RFC3339 或 YYYY-MM-DD"
// @Param to query string false "结束时间"
// @Param period query string false "week 或 month，不区分大小写，其他值不限时间"
// @Success 200 {object} PerformanceResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /reports/user/{userId}/performance [get]
func (c *ReportController) Performance(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	userID, ok := uintParam(ctx, "userId")
	if !ok {
		return
	}
	var q service.ReportQuery
	if err := util.BindQuery(ctx, &q); err != nil {
		util.RespondError(ctx, err)
		return
	}

	items, err := c.ReportService.Performance(ctx.Request.Context(), p, userID, q)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, PerformanceResponse{UserID: userID, Data: items})
}

// SkillGaps godoc
// @Summary 用户与全体平均水平的差距
// @Tags 报表
// @Produce  json
// @Param userId path int true "用户ID"
// @Param from query string false "开始时间"
// @Param to query string false "结束时间"
// @Param period query string false "week 或 month，不区分大小写，其他值不限时间"
// @Success 200 {object} SkillGapsResponse
// @Router /reports/user/{userId}/skill-gaps [get]
func (c *ReportController) SkillGaps(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	userID, ok := uintParam(ctx, "userId")
	if !ok {
		return
	}
	var q service.ReportQuery
	if err := util.BindQuery(ctx, &q); err != nil {
		util.RespondError(ctx, err)
		return
	}

	gaps, err := c.ReportService.SkillGaps(ctx.Request.Context(), p, userID, q)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, SkillGapsResponse{UserID: userID, Data: gaps})
}
