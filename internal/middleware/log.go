package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 超过这个大小的请求体只记摘要
const maxAuditBody = 2000

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// auditDetails 构造 details JSON：有密钥时请求体 AES 加密存储，否则只存 sha256。
func auditDetails(encryptKey, path string, status int, body []byte) datatypes.JSON {
	d := map[string]interface{}{"path": path, "status": status}
	if len(body) > 0 {
		sum := sha256.Sum256(body)
		d["body_sha256"] = hex.EncodeToString(sum[:])
		if encryptKey != "" && len(body) < maxAuditBody {
			if enc, err := util.EncryptString(encryptKey, string(body)); err == nil {
				d["body_enc"] = enc
			}
		}
	}
	b, _ := json.Marshal(d)
	return datatypes.JSON(b)
}

// AuditMiddleware 记录登录用户的写操作。
func AuditMiddleware(db *gorm.DB, encryptKey string, log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMutating(c.Request.Method) {
			c.Next()
			return
		}

		var bodyBytes []byte
		// multipart 上传不读入内存
		if c.Request.Body != nil && c.ContentType() != "multipart/form-data" {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		var userID uint
		if v, ok := c.Get(CtxUser); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = user.ID
			}
		}
		if userID == 0 {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		entry := models.AuditLog{
			UserID:    userID,
			Action:    c.Request.Method + " " + path,
			Details:   auditDetails(encryptKey, c.Request.URL.Path, c.Writer.Status(), bodyBytes),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := db.Create(&entry).Error; err != nil {
			log.Warn("audit", "write audit log failed", map[string]interface{}{"error": err, "action": entry.Action})
		}
	}
}
