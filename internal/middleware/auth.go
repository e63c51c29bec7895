package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// TokenCookie 登录后写入的 cookie 名
	TokenCookie = "mm_token"

	CtxUser    = "currentUser"
	CtxAccount = "currentAccount"
)

// AuthMiddleware 校验 JWT，并在 context 里放入当前用户和账户（角色）。
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}
		}

		// 2) ?token=xxx，邀请文件下载等无法自定义 Header 的场景
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		// 3) Cookie mm_token
		if tokenStr == "" {
			if cookie, err := c.Cookie(TokenCookie); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "user not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load user failed")
			}
			c.Abort()
			return
		}

		// 账户行在首次登录时创建，这里缺失时按普通员工处理
		acc := models.Account{UserID: user.ID, Role: models.RoleEmployee}
		if err := db.WithContext(c.Request.Context()).First(&acc, user.ID).Error; err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load account failed")
			c.Abort()
			return
		}

		c.Set(CtxUser, &user)
		c.Set(CtxAccount, &acc)
		c.Next()
	}
}

// RequireRole 只放行指定角色，ADMIN 总是放行。
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.RoleEmployee
		if v, ok := c.Get(CtxAccount); ok {
			if acc, ok := v.(*models.Account); ok && acc != nil && acc.Role != "" {
				role = acc.Role
			}
		}
		if role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "insufficient role")
		c.Abort()
	}
}
