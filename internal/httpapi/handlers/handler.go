package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/channel"
	"github.com/pulsechat/pulse-backend/internal/config"
	"github.com/pulsechat/pulse-backend/internal/httpapi/middleware"
	"github.com/pulsechat/pulse-backend/internal/message"
	"github.com/pulsechat/pulse-backend/internal/profile"
	"github.com/pulsechat/pulse-backend/internal/reaction"
	"github.com/pulsechat/pulse-backend/internal/store/redisstore"
	"gorm.io/gorm"
)

type Handler struct {
	Cfg       config.Config
	Channels  *channel.Service
	Messages  *message.Service
	Reactions *reaction.Service
}

// NewHandler wires repos and services around the shared connection pool.
// rds and events may be nil (no cache, no event fanout).
func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store, events message.EventPublisher) *Handler {
	channelRepo := channel.NewRepo(db)
	messageRepo := message.NewRepo(db)
	reactionRepo := reaction.NewRepo(db)

	var profiles profile.Lookup = profile.Disabled{}
	if cfg.IdentityAPIURL != "" {
		profiles = profile.NewHTTPLookup(cfg.IdentityAPIURL, cfg.IdentityAPIKey)
		if rds != nil && cfg.ProfileCacheTTL > 0 {
			profiles = profile.NewCached(profiles, rds, time.Duration(cfg.ProfileCacheTTL)*time.Second)
		}
	}

	return &Handler{
		Cfg:       cfg,
		Channels:  channel.NewService(channelRepo, cfg.ChannelNamePolicy),
		Messages:  message.NewService(messageRepo, channelRepo, reactionRepo, profiles, events),
		Reactions: reaction.NewService(reactionRepo, messageRepo),
	}
}

func userIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
