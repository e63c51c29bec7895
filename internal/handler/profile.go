package handler

import (
	"net/http"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChangePasswordReq 设置或修改密码。未设置过密码时 old_password 可为空。
type ChangePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// GetMe 返回当前登录用户信息
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{"user": userView(user, currentRole(c))})
}

// ChangePassword 修改当前用户密码
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "new_password must be 8-64 characters")
			return
		}

		acc := models.Account{UserID: user.ID, Role: models.RoleEmployee}
		if err := db.Where(models.Account{UserID: user.ID}).FirstOrCreate(&acc).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load account failed")
			return
		}

		// 已设置密码时校验旧密码
		if acc.PasswordHash != "" && !util.CheckPassword(req.OldPassword, acc.PasswordHash) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "old password is wrong")
			return
		}

		hash, err := util.HashPassword(req.NewPassword, bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "hash password failed")
			return
		}
		if err := db.Model(&acc).Update("password_hash", hash).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update password failed")
			return
		}

		util.Success(c, util.Response{"message": "password updated, please log in again"})
	}
}
