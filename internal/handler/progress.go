package handler

import (
	"errors"
	"net/http"

	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/progress"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	Progress *progress.Service
	Log      logger.ILogger
}

func NewProgressHandler(p *progress.Service, log logger.ILogger) *ProgressHandler {
	return &ProgressHandler{Progress: p, Log: log}
}

// List GET /progress/:kind  kind 为 module / software / document
func (h *ProgressHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	sum, err := h.Progress.List(c.Request.Context(), c.Param("kind"), user.Email)
	if errors.Is(err, progress.ErrUnknownKind) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
		return
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load progress failed")
		return
	}
	util.Success(c, util.Response{"summary": sum})
}

type progressReq struct {
	Item      string `json:"item" binding:"required,max=255"`
	Completed bool   `json:"completed"`
}

func (h *ProgressHandler) Set(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "item is required")
		return
	}
	row, err := h.Progress.Set(c.Request.Context(), c.Param("kind"), user.Email, req.Item, req.Completed)
	switch {
	case errors.Is(err, progress.ErrUnknownKind):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
		return
	case errors.Is(err, progress.ErrEmptyItem):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	case err != nil:
		h.Log.Error("progress", "update progress failed", map[string]interface{}{"user_id": user.ID, "error": err})
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update progress failed")
		return
	}
	util.Success(c, util.Response{"item": row})
}
