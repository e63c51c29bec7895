package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/samyuktha-jana/SAP-hackathon/internal/notification"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Notifications *notification.Service
}

func NewNotificationHandler(n *notification.Service) *NotificationHandler {
	return &NotificationHandler{Notifications: n}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.Notifications.List(c.Request.Context(), user.Email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list notifications failed")
		return
	}
	util.Success(c, util.Response{"items": items})
}

func (h *NotificationHandler) Clear(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.Notifications.Clear(c.Request.Context(), user.Email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "clear notifications failed")
		return
	}
	util.Success(c, util.Response{"deleted": n})
}

// Invite 下载通知附带的 ICS 邀请文件
func (h *NotificationHandler) Invite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	n, err := h.Notifications.Get(c.Request.Context(), id, user.Email)
	if errors.Is(err, notification.ErrNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "notification not found")
		return
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load notification failed")
		return
	}
	if n.ICSPath == "" {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no invite attached")
		return
	}
	if _, err := os.Stat(n.ICSPath); err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "invite file missing")
		return
	}
	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.FileAttachment(n.ICSPath, filepath.Base(n.ICSPath))
}
