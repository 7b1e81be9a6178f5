package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/config"
	"github.com/pulsechat/pulse-backend/internal/httpapi/handlers"
	"github.com/pulsechat/pulse-backend/internal/httpapi/middleware"
	"github.com/pulsechat/pulse-backend/internal/message"
	"github.com/pulsechat/pulse-backend/internal/store/redisstore"
	"gorm.io/gorm"
)

// NewRouter builds the explicit request pipeline:
// recovery -> request id -> CORS allow-list -> (under /api) bearer auth.
func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, events message.EventPublisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, rds, events)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "pulse backend is online")
	})

	api := r.Group("/api")
	api.Use(middleware.AuthRequired(cfg.JWTSecret))
	api.GET("/channels", h.ListChannels)
	api.POST("/channels", h.CreateChannel)
	api.GET("/channels/:channelId/messages", h.ListMessages)
	api.POST("/channels/:channelId/messages", h.PostMessage)
	api.POST("/messages/:messageId/reactions", h.ToggleReaction)

	return r
}
