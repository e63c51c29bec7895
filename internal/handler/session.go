package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/booking"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Sessions *booking.Service
	Log      logger.ILogger
}

func NewSessionHandler(s *booking.Service, log logger.ILogger) *SessionHandler {
	return &SessionHandler{Sessions: s, Log: log}
}

// sessionError 把 booking 包的错误映射为 HTTP 状态
func (h *SessionHandler) sessionError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, booking.ErrForbidden):
		util.Error(c, http.StatusForbidden, util.CodeForbidden, err.Error())
	case errors.Is(err, booking.ErrInvalidTransition):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, booking.ErrInvalidRequest):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		h.Log.Error("http", op+" failed", map[string]interface{}{"error": err})
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, op+" failed")
	}
}

// ---------- 预约 ----------

type createSessionReq struct {
	MentorID    uint      `json:"mentor_id"`
	MentorEmail string    `json:"mentor_email"`
	StartUTC    time.Time `json:"start_utc" binding:"required"`
	EndUTC      time.Time `json:"end_utc" binding:"required"`
	Location    string    `json:"location" binding:"max=128"`
	Notes       string    `json:"notes" binding:"max=2000"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start_utc and end_utc are required RFC 3339 times")
		return
	}
	if req.MentorID == 0 && req.MentorEmail == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "mentor_id or mentor_email is required")
		return
	}

	sess, err := h.Sessions.Create(c.Request.Context(), booking.CreateRequest{
		MenteeEmail: user.Email,
		MentorID:    req.MentorID,
		MentorEmail: req.MentorEmail,
		Start:       req.StartUTC,
		End:         req.EndUTC,
		Location:    req.Location,
		Notes:       req.Notes,
	})
	if err != nil {
		h.sessionError(c, "create session", err)
		return
	}
	util.Success(c, util.Response{"session": sess})
}

// Pending 当前用户作为导师待处理的请求
func (h *SessionHandler) Pending(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Sessions.Pending(c.Request.Context(), user.Email)
	if err != nil {
		h.sessionError(c, "list pending", err)
		return
	}
	util.Success(c, util.Response{"items": list})
}

// Mine 当前用户作为学员的全部预约
func (h *SessionHandler) Mine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Sessions.AsMentee(c.Request.Context(), user.Email)
	if err != nil {
		h.sessionError(c, "list sessions", err)
		return
	}
	util.Success(c, util.Response{"items": list})
}

// Meetings GET /sessions/meetings?days=  不带 days 时返回所有未来的会面
func (h *SessionHandler) Meetings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var days *int
	if s := c.Query("days"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "days must be an integer")
			return
		}
		days = &d
	}
	list, err := h.Sessions.MeetingsIn(c.Request.Context(), user.Email, days)
	if err != nil {
		h.sessionError(c, "list meetings", err)
		return
	}
	util.Success(c, util.Response{"items": list, "markdown": booking.FormatBookings(list)})
}

func (h *SessionHandler) Approve(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sess, err := h.Sessions.Approve(c.Request.Context(), id, user.Email)
	if err != nil {
		h.sessionError(c, "approve session", err)
		return
	}
	util.Success(c, util.Response{"session": sess, "ics_path": sess.GraphEventID})
}

func (h *SessionHandler) Reject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sess, err := h.Sessions.Reject(c.Request.Context(), id, user.Email)
	if err != nil {
		h.sessionError(c, "reject session", err)
		return
	}
	util.Success(c, util.Response{"session": sess})
}

type feedbackReq struct {
	Rating   int    `json:"rating" binding:"min=0,max=5"`
	Takeaway string `json:"takeaway" binding:"required,max=4000"`
}

// Feedback 学员提交会后收获
func (h *SessionHandler) Feedback(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req feedbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "takeaway is required, rating 0-5")
		return
	}
	fb, err := h.Sessions.AddFeedback(c.Request.Context(), id, user.Email, req.Rating, req.Takeaway)
	if err != nil {
		h.sessionError(c, "save feedback", err)
		return
	}
	util.Success(c, util.Response{"feedback": fb})
}
