package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"MemoryFarmGo/config"
	"MemoryFarmGo/models"
	"MemoryFarmGo/services"

	"github.com/gin-gonic/gin"
)

type InsightController struct {
	insightService *services.InsightService
}

func NewInsightController(insightService *services.InsightService) *InsightController {
	return &InsightController{
		insightService: insightService,
	}
}

// GenerateInsight 为当前用户生成洞察，同一触发条目数重复请求返回已有记录
func (c *InsightController) GenerateInsight(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var request models.GenerateInsightRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	insight, err := c.insightService.GenerateInsightForUser(ctx, uid.(string), request.EntryCount, request.TriggerMemoryID)
	if err != nil {
		config.Logger.Errorw("生成洞察失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "生成洞察失败"})
		return
	}
	if insight == nil {
		// 用户未开启AI洞察或数据读取失败，作为无结果返回
		ctx.JSON(http.StatusOK, gin.H{"insight": nil})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"insight": insight.ToResponse()})
}

// RegenerateInsight 重新生成洞察，月度和单条配额满后拒绝
func (c *InsightController) RegenerateInsight(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}
	insightID := ctx.Param("id")

	outcome, err := c.insightService.RegenerateInsight(ctx, insightID, uid.(string))
	if err != nil {
		config.Logger.Errorw("重新生成洞察失败", "error", err, "uid", uid, "insightID", insightID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "重新生成洞察失败"})
		return
	}
	if outcome == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "洞察不存在"})
		return
	}
	if outcome.Declined {
		var message string
		switch outcome.DeclineReason {
		case services.DeclineMonthlyLimit:
			message = fmt.Sprintf("本月重新生成次数已用完（每月%d次）", services.MaxRegeneratePerMonth)
		default:
			message = fmt.Sprintf("该洞察重新生成次数已用完（每条%d次）", services.MaxRegeneratePerInsight)
		}
		ctx.JSON(http.StatusForbidden, gin.H{
			"error":     message,
			"reason":    outcome.DeclineReason,
			"remaining": outcome.Remaining,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"insight":   outcome.Insight.ToResponse(),
		"remaining": outcome.Remaining,
	})
}

// GetDashboardInsights 获取用户的洞察列表
func (c *InsightController) GetDashboardInsights(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	insights, err := c.insightService.GetUserDashboardInsights(uid.(string), limit)
	if err != nil {
		config.Logger.Errorw("获取洞察列表失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取洞察列表失败"})
		return
	}

	responses := make([]models.InsightResponse, 0, len(insights))
	for i := range insights {
		responses = append(responses, insights[i].ToResponse())
	}
	ctx.JSON(http.StatusOK, gin.H{"insights": responses})
}

// MarkRead 标记洞察已读
func (c *InsightController) MarkRead(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	insight, err := c.insightService.MarkInsightRead(ctx.Param("id"), uid.(string))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "标记已读失败"})
		return
	}
	if insight == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "洞察不存在"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"insight": insight.ToResponse()})
}

// ToggleFavorite 切换洞察收藏状态
func (c *InsightController) ToggleFavorite(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	insight, err := c.insightService.ToggleInsightFavorite(ctx.Param("id"), uid.(string))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "收藏操作失败"})
		return
	}
	if insight == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "洞察不存在"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"insight": insight.ToResponse()})
}

// Health 生成链路健康检查，仅限内部调用
func (c *InsightController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.insightService.Health())
}
