package handler

import (
	"errors"
	"net/http"

	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/ticket"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	Tickets *ticket.Service
	Log     logger.ILogger
}

func NewTicketHandler(t *ticket.Service, log logger.ILogger) *TicketHandler {
	return &TicketHandler{Tickets: t, Log: log}
}

func (h *TicketHandler) ticketError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ticket.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, ticket.ErrForbidden):
		util.Error(c, http.StatusForbidden, util.CodeForbidden, err.Error())
	case errors.Is(err, ticket.ErrDuplicate):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, ticket.ErrInvalidInput):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		h.Log.Error("http", op+" failed", map[string]interface{}{"error": err})
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, op+" failed")
	}
}

// ---------- 员工 ----------

func (h *TicketHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var in ticket.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid ticket body")
		return
	}
	in.RequesterEmail = user.Email
	t, err := h.Tickets.Create(c.Request.Context(), in)
	if err != nil {
		h.ticketError(c, "create ticket", err)
		return
	}
	util.Success(c, util.Response{"ticket": t, "ref": t.Ref()})
}

func (h *TicketHandler) Mine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.Tickets.Mine(c.Request.Context(), user.Email)
	if err != nil {
		h.ticketError(c, "list tickets", err)
		return
	}
	util.Success(c, util.Response{"items": items})
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 只有提交人可以修改自己工单的状态
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "status is required")
		return
	}
	t, err := h.Tickets.UpdateStatus(c.Request.Context(), id, user.Email, req.Status)
	if err != nil {
		h.ticketError(c, "update ticket", err)
		return
	}
	util.Success(c, util.Response{"ticket": t})
}

func (h *TicketHandler) Counts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	counts, err := h.Tickets.Counts(c.Request.Context(), user.Email)
	if err != nil {
		h.ticketError(c, "count tickets", err)
		return
	}
	util.Success(c, util.Response{"counts": counts})
}

func (h *TicketHandler) Categories(c *gin.Context) {
	cats, err := h.Tickets.Categories(c.Request.Context())
	if err != nil {
		h.ticketError(c, "list categories", err)
		return
	}
	util.Success(c, util.Response{"items": cats})
}

// ---------- 坐席 / 管理员 ----------

func (h *TicketHandler) Queue(c *gin.Context) {
	items, err := h.Tickets.Queue(c.Request.Context(), ticket.QueueFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Assignee: c.Query("assignee"),
	})
	if err != nil {
		h.ticketError(c, "ticket queue", err)
		return
	}
	util.Success(c, util.Response{"items": items, "total": len(items)})
}

type triageReq struct {
	Assignee string `json:"assignee_email"`
	Status   string `json:"status"`
}

func (h *TicketHandler) Triage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req triageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid triage body")
		return
	}
	t, err := h.Tickets.Triage(c.Request.Context(), id, req.Assignee, req.Status)
	if err != nil {
		h.ticketError(c, "triage ticket", err)
		return
	}
	util.Success(c, util.Response{"ticket": t})
}

func (h *TicketHandler) Metrics(c *gin.Context) {
	m, err := h.Tickets.Metrics(c.Request.Context())
	if err != nil {
		h.ticketError(c, "ticket metrics", err)
		return
	}
	util.Success(c, util.Response{"metrics": m})
}

type categoryReq struct {
	Key         string `json:"key" binding:"required,max=64"`
	Label       string `json:"label" binding:"required,max=128"`
	DefaultTeam string `json:"default_team" binding:"max=128"`
}

func (h *TicketHandler) AddCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "key and label are required")
		return
	}
	cat, err := h.Tickets.AddCategory(c.Request.Context(), req.Key, req.Label, req.DefaultTeam)
	if err != nil {
		h.ticketError(c, "add category", err)
		return
	}
	util.Success(c, util.Response{"category": cat})
}
