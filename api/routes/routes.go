package routes

import (
	"net/http"

	"github.com/ArowuTest/pointhub-backend/internal/config"
	"github.com/ArowuTest/pointhub-backend/internal/handlers"
	"github.com/ArowuTest/pointhub-backend/internal/middleware"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies holds all handler instances needed by the router
type HandlerDependencies struct {
	RewardHandler       *handlers.RewardHandler
	TransferHandler     *handlers.TransferHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	PointHandler        *handlers.PointHandler
	VideoHandler        *handlers.VideoHandler
	Tokens              *jwt.TokenService
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	{
		protected.GET("/videos", deps.VideoHandler.List)
		protected.GET("/videos/:id", deps.VideoHandler.Get)

		protected.POST("/reward/settle", deps.RewardHandler.Settle)
		protected.POST("/videos/add-point", deps.RewardHandler.Settle)

		protected.POST("/transfer", deps.TransferHandler.Transfer)
		protected.POST("/point/transfer", deps.TransferHandler.Transfer)

		subscription := protected.Group("/subscription")
		{
			subscription.POST("/apply-code", deps.SubscriptionHandler.ApplyCode)
			subscription.POST("/activate-with-points", deps.SubscriptionHandler.ActivateWithPoints)
		}

		user := protected.Group("/user")
		{
			user.GET("/point", deps.PointHandler.GetPoint)
			user.GET("/point/history", deps.PointHandler.History)
		}
	}

	admin := router.Group("/api/v1")
	admin.Use(middleware.JWTAuthMiddleware(deps.Tokens), middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	{
		admin.POST("/videos", deps.VideoHandler.Create)
		admin.POST("/subscription/add-code", deps.SubscriptionHandler.AddCode)
		admin.GET("/subscription/all-codes", deps.SubscriptionHandler.AllCodes)
		admin.POST("/admin/points/add", deps.PointHandler.AddPoints)
		admin.POST("/admin/points/remove", deps.PointHandler.RemovePoints)
		admin.GET("/admin/transfers/stuck", deps.TransferHandler.StuckTransfers)
	}

	return router
}
