package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gcmn-library-backend/internal/domains/report/service"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type ReportHandler struct {
	service service.ServiceInterface
}

func NewReportHandler(svc service.ServiceInterface) *ReportHandler {
	return &ReportHandler{service: svc}
}

// GET /api/admin/stats
func (h *ReportHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		logger.Error("report handler", err)
		response.InternalServerError(c, "Something went wrong")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GET /api/admin/reports/borrows.xlsx
func (h *ReportHandler) ExportBorrows(c *gin.Context) {
	data, err := h.service.ExportBorrows(c.Request.Context())
	if err != nil {
		logger.Error("report handler", err)
		response.InternalServerError(c, "Something went wrong")
		return
	}

	filename := fmt.Sprintf("borrows-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
