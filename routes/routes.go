package routes

import (
	"MemoryFarmGo/controllers"
	"MemoryFarmGo/middleware"
	"MemoryFarmGo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, insightService *services.InsightService) {
	insightController := controllers.NewInsightController(insightService)
	userController := controllers.UserController{}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		// 洞察相关接口
		private.POST("/insights/generate", insightController.GenerateInsight)
		private.POST("/insights/:id/regenerate", insightController.RegenerateInsight)
		private.GET("/insights", insightController.GetDashboardInsights)
		private.POST("/insights/:id/read", insightController.MarkRead)
		private.POST("/insights/:id/favorite", insightController.ToggleFavorite)

		// 用户相关接口
		private.GET("/user/ai-usage", userController.GetAIUsage)
		private.PUT("/user/insight-preference", userController.UpdateInsightPreference)
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	{
		internal.GET("/insights/health", insightController.Health)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
