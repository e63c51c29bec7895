package handler

import (
	"net/http"
	"strconv"

	"github.com/samyuktha-jana/SAP-hackathon/internal/middleware"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser 取出 AuthMiddleware 放入的用户，失败时直接写 401。
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CtxUser)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return user, true
}

func currentRole(c *gin.Context) string {
	if v, ok := c.Get(middleware.CtxAccount); ok {
		if acc, ok := v.(*models.Account); ok && acc != nil && acc.Role != "" {
			return acc.Role
		}
	}
	return models.RoleEmployee
}

// pathID 解析 :id 参数
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// paging 读取 page / page_size，size 上限 100
func paging(c *gin.Context, defSize int) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defSize)))
	if size <= 0 || size > 100 {
		size = defSize
	}
	return page, size
}
