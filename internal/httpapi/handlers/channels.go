package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/common"
)

type createChannelReq struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

func (h *Handler) ListChannels(c *gin.Context) {
	chans, err := h.Channels.List(c.Request.Context())
	if err != nil {
		common.FailErr(c, err)
		return
	}
	c.JSON(http.StatusOK, chans)
}

func (h *Handler) CreateChannel(c *gin.Context) {
	var req createChannelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "channel name is required")
		return
	}

	ch, err := h.Channels.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}
