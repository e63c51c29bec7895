package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/skillgap"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningHandler 学习中心：岗位技能差距、学习计划与课程推荐
type LearningHandler struct {
	Learning *skillgap.Service
	Log      logger.ILogger
}

func NewLearningHandler(s *skillgap.Service, log logger.ILogger) *LearningHandler {
	return &LearningHandler{Learning: s, Log: log}
}

func (h *LearningHandler) learningError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, skillgap.ErrUnknownRole):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, skillgap.ErrNoPlan), errors.Is(err, skillgap.ErrUnknownPhase):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, llm.ErrNoAPIKey):
		util.Error(c, http.StatusServiceUnavailable, util.CodeUpstream, "plan generation is not configured")
	case errors.Is(err, llm.ErrEmptyResponse):
		util.Error(c, http.StatusBadGateway, util.CodeUpstream, err.Error())
	default:
		h.Log.Error("learning", op+" failed", map[string]interface{}{"error": err})
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, op+" failed")
	}
}

func (h *LearningHandler) Roles(c *gin.Context) {
	roles := skillgap.Roles()
	out := make([]gin.H, 0, len(roles))
	for _, r := range roles {
		skills, _ := skillgap.RoleSkills(r)
		out = append(out, gin.H{"role": r, "skills": skills})
	}
	util.Success(c, util.Response{"items": out, "external_courses": skillgap.ExternalCourses})
}

type gapReq struct {
	Role   string `json:"role" binding:"required"`
	Skills string `json:"skills"`
	// 计划起始日期 YYYY-MM-DD，仅生成计划时使用
	Start string `json:"start"`
}

// skillsOrProfile 未填写技能时使用档案中的技能
func skillsOrProfile(c *gin.Context, req gapReq) (string, bool) {
	user, ok := currentUser(c)
	if !ok {
		return "", false
	}
	if strings.TrimSpace(req.Skills) != "" {
		return req.Skills, true
	}
	return user.Skills, true
}

func (h *LearningHandler) Gap(c *gin.Context) {
	var req gapReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "role is required")
		return
	}
	skills, ok := skillsOrProfile(c, req)
	if !ok {
		return
	}
	a, err := h.Learning.Analyze(req.Role, skills)
	if err != nil {
		h.learningError(c, "gap analysis", err)
		return
	}
	util.Success(c, util.Response{"analysis": a})
}

func (h *LearningHandler) GeneratePlan(c *gin.Context) {
	var req gapReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "role is required")
		return
	}
	skills, ok := skillsOrProfile(c, req)
	if !ok {
		return
	}
	user, _ := currentUser(c)

	var start time.Time
	if req.Start != "" {
		t, err := time.Parse("2006-01-02", req.Start)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
			return
		}
		start = t
	}

	plan, err := h.Learning.GeneratePlan(c.Request.Context(), user.Email, req.Role, skills, start)
	if err != nil {
		h.learningError(c, "generate plan", err)
		return
	}
	util.Success(c, util.Response{"plan": plan})
}

func (h *LearningHandler) GetPlan(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	plan, err := h.Learning.GetPlan(c.Request.Context(), user.Email)
	if err != nil {
		h.learningError(c, "load plan", err)
		return
	}
	util.Success(c, util.Response{"plan": plan})
}

type phaseReq struct {
	Done bool `json:"done"`
}

// SetPhase PUT /learning/plan/phases/:phase
func (h *LearningHandler) SetPhase(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	phase, err := strconv.Atoi(c.Param("phase"))
	if err != nil || phase <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid phase")
		return
	}
	var req phaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid body")
		return
	}
	plan, err := h.Learning.SetPhaseDone(c.Request.Context(), user.Email, phase, req.Done)
	if err != nil {
		h.learningError(c, "update phase", err)
		return
	}
	util.Success(c, util.Response{"plan": plan})
}

func (h *LearningHandler) Recommendations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	takeaway, recs, err := h.Learning.Recommendations(c.Request.Context(), user.Email)
	if err != nil {
		h.learningError(c, "recommendations", err)
		return
	}
	util.Success(c, util.Response{"takeaway": takeaway, "items": recs})
}
