package app

import (
	"predict_earn_backend/docs"
	"predict_earn_backend/internal/config"
	"predict_earn_backend/internal/middleware"
	"predict_earn_backend/internal/model"
	"predict_earn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 公共竞猜列表走缓存，答案全部脱敏
		public.GET("/predictions", c.prediction.List)
		public.GET("/leaderboard", c.user.Leaderboard)
	}

	// 2. 商城订单 webhook，签名校验后进入处理器，处理器永远对发送方成功
	webhooks := router.Group("/api/webhooks")
	webhooks.Use(middleware.WebhookSignature(cfg.Webhook.Secret))
	{
		webhooks.POST("/orders/created", c.webhook.OrderCreated)
		webhooks.POST("/orders/updated", c.webhook.OrderUpdated)
		webhooks.POST("/orders/deleted", c.webhook.OrderDeleted)
	}

	// 3. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/user/profile", c.user.Profile)
		authGroup.GET("/user/transactions", c.user.Transactions)

		// 签到
		authGroup.GET("/checkin/question", c.checkin.GetQuestion)
		authGroup.POST("/checkin/submit", c.checkin.Submit)
		authGroup.POST("/checkin/skip", c.checkin.Skip)
		authGroup.GET("/checkin/status", c.checkin.Status)

		// 竞猜
		authGroup.POST("/predictions", c.prediction.Create)
		authGroup.GET("/predictions/:id", c.prediction.Detail)
		authGroup.PUT("/predictions/:id", c.prediction.Update)
		authGroup.POST("/predictions/:id/guess", c.prediction.Guess)

		// 推荐
		authGroup.POST("/referral/code", c.referral.SetCode)
		authGroup.GET("/referral/stats", c.referral.Stats)
	}

	// 4. 管理员相关接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin, model.RoleStaff))
	{
		adminGroup.POST("/points/grant", c.admin.GrantPoints)
		adminGroup.GET("/users", c.admin.ListUsers)
		adminGroup.POST("/questions", c.admin.CreateQuestion)
		adminGroup.GET("/questions", c.admin.ListQuestions)
		adminGroup.GET("/orders", c.admin.ListOrders)
	}
}
