package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/konveksi/backend-go/internal/export"
	"github.com/andresuchdata/konveksi/backend-go/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportHandler serves the stock workbook as a download or an upload to object storage
type ExportHandler struct {
	exports *service.ExportService
}

func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func (h *ExportHandler) DownloadWorkbook(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exports.WriteWorkbook(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exports.FileName()))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *ExportHandler) UploadWorkbook(c *gin.Context) {
	key, err := h.exports.Upload(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (h *ExportHandler) GetUploads(c *gin.Context) {
	objects, err := h.exports.Uploaded(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, objects)
}
