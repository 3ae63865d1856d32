package handler

import (
	"mime"
	"net/http"
	"timeclock/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) generateReport(c *gin.Context) {
	report, err := h.reportService.Generate(c.Request.Context(), service.ReportRequest{
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		EmployeeID: c.Query("employee_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": report.Filename,
	}))
	c.Data(http.StatusOK, service.ReportContentType, report.Content)
}
