package handler

import (
	"net/http"
	"strconv"

	"github.com/samyuktha-jana/SAP-hackathon/internal/agent"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	Chat *agent.Chat
	Log  logger.ILogger
}

func NewChatHandler(chat *agent.Chat, log logger.ILogger) *ChatHandler {
	return &ChatHandler{Chat: chat, Log: log}
}

type chatReq struct {
	Message string `json:"message" binding:"required,max=4000"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "message is required")
		return
	}
	reply, err := h.Chat.Handle(c.Request.Context(), user.Email, req.Message)
	if err != nil {
		h.Log.Error("chat", "handle message failed", map[string]interface{}{"user_id": user.ID, "error": err})
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "chat failed")
		return
	}
	util.Success(c, util.Response{"reply": reply})
}

// History GET /chat/history?limit=  默认 100 条，按时间正序
func (h *ChatHandler) History(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	items, err := h.Chat.History(c.Request.Context(), user.Email, limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load history failed")
		return
	}
	util.Success(c, util.Response{"items": items})
}

func (h *ChatHandler) Clear(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.Chat.ClearHistory(c.Request.Context(), user.Email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "clear history failed")
		return
	}
	util.Success(c, util.Response{"deleted": n})
}
