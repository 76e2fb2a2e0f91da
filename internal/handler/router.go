package handler

import (
	"bankapi/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter wires middleware and routes.
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(db, rdb, cfg)

	api := r.Group("/api/v1")
	{
		account := api.Group("/account")
		{
			account.GET("/balance", h.GetBalance)
			account.POST("/deposit", h.Deposit)
			account.POST("/withdraw", h.Withdraw)
			account.GET("/operations", h.ListOperations)
		}

		api.POST("/transfer", h.Transfer)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
