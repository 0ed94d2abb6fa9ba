package controllers

import (
	"net/http"

	"MemoryFarmGo/config"
	"MemoryFarmGo/models"
	"MemoryFarmGo/services"

	"github.com/gin-gonic/gin"
)

type UserController struct{}

// GetAIUsage 获取当前用户的AI用量与月度配额
func (uc *UserController) GetAIUsage(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		return
	}

	c.JSON(http.StatusOK, models.AIUsageResponse{
		DeepseekTokens:    user.DeepseekTokens,
		DeepseekCost:      user.DeepseekCost,
		GLMTokens:         user.GLMTokens,
		GLMCost:           user.GLMCost,
		MonthlyRegenCount: user.MonthlyRegenCount,
		MonthlyRegenLimit: services.MaxRegeneratePerMonth,
	})
}

// UpdateInsightPreference 更新是否开启AI洞察
func (uc *UserController) UpdateInsightPreference(c *gin.Context) {
	uid := c.GetString("uid")

	var request models.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		return
	}

	if err := config.DB.Model(&user).Update("ai_insights_enabled", *request.AIInsightsEnabled).Error; err != nil {
		config.Logger.Errorw("更新洞察偏好失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新洞察偏好失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"aiInsightsEnabled": *request.AIInsightsEnabled,
	})
}
