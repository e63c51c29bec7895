package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/middleware"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockDuration    = 10 * time.Minute
)

// AuthHandler 负责登录相关接口
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
	Log       logger.ILogger
	now       func() time.Time
}

// NewAuthHandler 构造函数
func NewAuthHandler(db *gorm.DB, jwtSecret, issuer string, ttlHours int, log logger.ILogger) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:        db,
		JWTSecret: jwtSecret,
		Issuer:    issuer,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
		Log:       log,
		now:       time.Now,
	}
}

// ---------- 登录 ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

// Login 按邮箱登录；设置过密码的账户必须校验密码，连续失败 5 次锁定 10 分钟。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "email is required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := util.ValidateEmail(email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	db := h.DB.WithContext(c.Request.Context())

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "unknown email")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load user failed")
		}
		return
	}

	acc := models.Account{UserID: user.ID, Role: models.RoleEmployee}
	if err := db.Where(models.Account{UserID: user.ID}).FirstOrCreate(&acc).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load account failed")
		return
	}

	now := h.now()

	// 检查是否被锁定
	if acc.LockedUntil != nil && now.Before(*acc.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "account locked, try again later")
		return
	}

	if acc.PasswordHash != "" && !util.CheckPassword(req.Password, acc.PasswordHash) {
		acc.FailedLoginAttempts++
		if acc.FailedLoginAttempts >= maxFailedLogins {
			lockUntil := now.Add(lockDuration)
			acc.LockedUntil = &lockUntil
			acc.FailedLoginAttempts = 0
			h.Log.Warn("auth", "account locked", map[string]interface{}{"user_id": user.ID, "ip": c.ClientIP()})
		}
		_ = db.Save(&acc).Error
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "wrong email or password")
		return
	}

	// 登录成功：重置失败次数和锁定时间
	acc.FailedLoginAttempts = 0
	acc.LockedUntil = nil
	acc.LastLoginIP = c.ClientIP()
	acc.LastLoginAt = &now
	_ = db.Save(&acc).Error

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "issue token failed")
		return
	}
	c.SetCookie(middleware.TokenCookie, token, int(h.TokenTTL.Seconds()), "/", "", false, true)

	h.Log.Info("auth", "login", map[string]interface{}{"user_id": user.ID})
	util.Success(c, util.Response{
		"token": token,
		"user":  userView(&user, acc.Role),
	})
}

func userView(u *models.User, role string) gin.H {
	return gin.H{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"position":          u.Position,
		"team":              u.Team,
		"department":        u.Department,
		"is_mentor":         u.IsMentor,
		"months_experience": u.MonthsExperience,
		"role":              role,
	}
}
