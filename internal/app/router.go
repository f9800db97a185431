package app

import (
	"concert_connect_backend/internal/config"
	"concert_connect_backend/internal/middleware"
	"concert_connect_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		// 支付回调由签名头认证，不走用户凭证
		public.POST("/payments/webhook", c.payment.Webhook)
	}

	// 2. 活动模块：浏览类可选认证，登录后结果带个人交互标记
	events := router.Group("/api/events")
	events.Use(middleware.TryAuth(repos.user, cfg), middleware.Activity(repos.user))
	{
		events.GET("/search", c.event.Search)
		events.GET("/featured/upcoming", c.event.Featured)
		events.GET("/meta/genres", c.event.Genres)
		events.GET("/:id", c.event.Get)

		// 交互类：强制认证
		authorized := events.Group("/")
		authorized.Use(middleware.Auth(repos.user, cfg))
		{
			authorized.POST("/:id/interest", c.event.MarkInterest)
			authorized.DELETE("/:id/interest/:type", c.event.RemoveInterest)
			authorized.GET("/user/my-events", c.event.MyEvents)
		}
	}

	// 3. 认证用户路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.Auth(repos.user, cfg), middleware.Activity(repos.user))
	{
		authGroup.GET("/auth/me", c.auth.Me)
		authGroup.PATCH("/auth/me", c.auth.UpdateMe)
		authGroup.POST("/auth/change-password", c.auth.ChangePassword)

		social := authGroup.Group("/social")
		{
			social.POST("/friends/request", c.social.SendFriendRequest)
			social.PATCH("/friends/request/:id", c.social.RespondFriendRequest)
			social.GET("/friends/requests", c.social.PendingRequests)
			social.GET("/friends", c.social.ListFriends)
			social.DELETE("/friends/:userId", c.social.RemoveFriend)

			social.POST("/posts", c.social.CreatePost)
			social.GET("/posts", c.social.Feed)
			social.POST("/posts/upload-image", c.social.UploadImage)
			social.POST("/posts/:id/like", c.social.ToggleLike)
			social.POST("/posts/:id/comments", c.social.AddComment)
			social.GET("/posts/:id/comments", c.social.Comments)
		}

		payments := authGroup.Group("/payments")
		{
			payments.POST("/create-intent", c.payment.CreateIntent)
			payments.POST("/confirm/:paymentId", c.payment.Confirm)
			payments.GET("/history", c.payment.History)
		}
	}
}
