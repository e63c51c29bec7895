package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/importer"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/progress"
	"github.com/samyuktha-jana/SAP-hackathon/internal/ticket"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// 上传的员工 CSV 上限
const maxImportBytes = 20 << 20

type ImportExportHandler struct {
	Tickets  *ticket.Service
	Progress *progress.Service
	Importer *importer.Importer
	Log      logger.ILogger
}

func NewImportExportHandler(t *ticket.Service, p *progress.Service, im *importer.Importer, log logger.ILogger) *ImportExportHandler {
	return &ImportExportHandler{Tickets: t, Progress: p, Importer: im, Log: log}
}

// exportTickets 坐席和管理员导出全部工单，员工只导出自己的
func (h *ImportExportHandler) exportTickets(c *gin.Context) ([]models.Ticket, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	var (
		list []models.Ticket
		err  error
	)
	if role := currentRole(c); role == models.RoleAgent || role == models.RoleAdmin {
		list, err = h.Tickets.All(c.Request.Context())
	} else {
		list, err = h.Tickets.Mine(c.Request.Context(), user.Email)
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return nil, false
	}
	return list, true
}

// ExportTicketsCSV 导出工单为 CSV
func (h *ImportExportHandler) ExportTicketsCSV(c *gin.Context) {
	list, ok := h.exportTickets(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := ticket.WriteCSV(&buf, list); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"tickets_%s.csv\"",
		time.Now().Format("20060102")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportTicketsXLSX 导出工单为 XLSX
func (h *ImportExportHandler) ExportTicketsXLSX(c *gin.Context) {
	list, ok := h.exportTickets(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := ticket.WriteXLSX(&buf, list); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"tickets_%s.xlsx\"",
		time.Now().Format("20060102")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportProgressXLSX 导出当前用户三类学习进度
func (h *ImportExportHandler) ExportProgressXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.Progress.All(c.Request.Context(), user.Email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	var buf bytes.Buffer
	if err := progress.WriteXLSX(&buf, items); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"progress_%s.xlsx\"",
		time.Now().Format("20060102")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportUsers POST /admin/import  multipart 字段 file
func (h *ImportExportHandler) ImportUsers(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "file is required")
		return
	}
	if fh.Size > maxImportBytes {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "file too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read file")
		return
	}
	defer f.Close()

	res, err := h.Importer.Import(f)
	if errors.Is(err, importer.ErrMissingColumns) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("importer", "import failed", map[string]interface{}{"file": fh.Filename, "error": err})
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "import failed")
		return
	}
	util.Success(c, util.Response{"result": res})
}
