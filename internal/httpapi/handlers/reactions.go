package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/common"
)

type toggleReactionReq struct {
	Emoji string `json:"emoji"`
}

// ToggleReaction flips the caller's reaction and responds with the
// message's full post-toggle summary list.
func (h *Handler) ToggleReaction(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	messageID, err := strconv.ParseUint(c.Param("messageId"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid message id")
		return
	}

	var req toggleReactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	sums, err := h.Reactions.Toggle(c.Request.Context(), messageID, uid, req.Emoji)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sums)
}
