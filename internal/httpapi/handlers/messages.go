package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/message"
)

type postMessageReq struct {
	Content        *string `json:"content"`
	AttachmentURL  *string `json:"attachment_url"`
	AttachmentName *string `json:"attachment_name"`
	AttachmentType *string `json:"attachment_type"`
	AttachmentSize *int64  `json:"attachment_size"`
}

func (h *Handler) ListMessages(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	channelID, err := strconv.ParseUint(c.Param("channelId"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid channel id")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	msgs, err := h.Messages.List(c.Request.Context(), channelID, limit, uid)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) PostMessage(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	channelID, err := strconv.ParseUint(c.Param("channelId"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid channel id")
		return
	}

	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	msg, err := h.Messages.Post(c.Request.Context(), channelID, uid, req.Content, &message.Attachment{
		URL:  req.AttachmentURL,
		Name: req.AttachmentName,
		Type: req.AttachmentType,
		Size: req.AttachmentSize,
	})
	if err != nil {
		common.FailErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
