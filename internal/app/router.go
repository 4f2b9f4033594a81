package app

import (
	"talent_nest_backend/docs"
	"talent_nest_backend/internal/config"
	"talent_nest_backend/internal/middleware"
	"talent_nest_backend/internal/model"
	"talent_nest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerRelationshipRoutes(authGroup, c)
		a.registerNetworkRoutes(authGroup, c)
		a.registerDocumentRoutes(authGroup, c)
		a.registerMessageRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 邮箱验证码
		verification := public.Group("/auth/verification")
		{
			verification.POST("/request", c.auth.RequestVerification)
			verification.POST("/confirm", c.auth.ConfirmVerification)
		}
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/photo/upload", c.user.UploadPhoto)
	rg.GET("/users/:id", c.user.GetUser)
}

func (a *App) registerRelationshipRoutes(rg *gin.RouterGroup, c *controllers) {
	rel := rg.Group("/relationships")
	{
		// 管理路径：直接落库和物理删除只开放给管理员
		rel.POST("", middleware.RoleMiddleware(model.Admin), c.relationship.CreateDirect)
		rel.DELETE("/:id", middleware.RoleMiddleware(model.Admin), c.relationship.Delete)

		rel.POST("/request", c.relationship.Request)
		rel.POST("/propose", c.relationship.Propose)
		rel.POST("/:id/accept", c.relationship.Accept)
		rel.POST("/:id/reject", c.relationship.Reject)
		rel.PATCH("/:id", c.relationship.Update)
	}
}

func (a *App) registerNetworkRoutes(rg *gin.RouterGroup, c *controllers) {
	network := rg.Group("/network")
	{
		network.GET("/connections", c.network.GetConnections)
		network.GET("/requests/received", c.network.GetRequestsReceived)
		network.GET("/requests/sent", c.network.GetRequestsSent)
		network.GET("/proposals/received", c.network.GetProposalsReceived)
		network.GET("/proposals/sent", c.network.GetProposalsSent)
		network.GET("/potential-contacts", c.network.GetPotentialContacts)
		network.GET("/career-agent", c.network.GetCareerAgentRelationship)
	}
}

func (a *App) registerDocumentRoutes(rg *gin.RouterGroup, c *controllers) {
	documents := rg.Group("/documents")
	{
		documents.POST("/upload", c.document.Upload)
		documents.GET("", c.document.List)
		documents.GET("/:id/download", c.document.DownloadURL)
		documents.DELETE("/:id", c.document.Delete)
	}
}

func (a *App) registerMessageRoutes(rg *gin.RouterGroup, c *controllers) {
	messages := rg.Group("/messages")
	{
		messages.POST("", c.message.Send)
		messages.GET("/conversation/:userId", c.message.GetConversation)
	}
}
