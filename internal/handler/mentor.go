package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/mentor"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
)

type MentorHandler struct {
	Mentors *mentor.Service
	Log     logger.ILogger
}

func NewMentorHandler(m *mentor.Service, log logger.ILogger) *MentorHandler {
	return &MentorHandler{Mentors: m, Log: log}
}

// Search GET /mentors/search?q=&min_months=&limit=
// 结果附带每位导师的可预约时间段
func (h *MentorHandler) Search(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "q is required")
		return
	}
	minMonths, _ := strconv.Atoi(c.Query("min_months"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	matches, err := h.Mentors.Search(c.Request.Context(), q, minMonths, limit)
	if err != nil {
		h.Log.Error("http", "mentor search failed", map[string]interface{}{"query": q, "error": err})
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "mentor search failed")
		return
	}
	now := time.Now()
	for i := range matches {
		matches[i].Availability = mentor.AvailabilitySlots(matches[i].Email, 3, 30, now)
	}

	util.Success(c, util.Response{"items": matches, "total": len(matches)})
}
