package handler

import (
	"net/http"
	"strconv"
	"timeclock/internal/models"
	"timeclock/internal/service"

	"github.com/gin-gonic/gin"
)

type createTimeRecordRequest struct {
	EmployeeID uint   `json:"employee_id" binding:"required"`
	Type       string `json:"type"`
}

func (h *Handler) createTimeRecord(c *gin.Context) {
	var req createTimeRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	record, err := h.timeRecordService.Record(c.Request.Context(), req.EmployeeID, service.EventType(req.Type))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Time record added successfully!",
		"time_record": models.NewTimeRecordResponse(record, h.timeRecordService.Location()),
	})
}

func (h *Handler) listTimeRecords(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Param("employee_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid employee_id"})
		return
	}

	records, err := h.timeRecordService.ListByEmployee(c.Request.Context(), uint(employeeID))
	if err != nil {
		respondError(c, err)
		return
	}

	loc := h.timeRecordService.Location()
	output := make([]models.TimeRecordResponse, 0, len(records))
	for _, record := range records {
		output = append(output, models.NewTimeRecordResponse(record, loc))
	}

	c.JSON(http.StatusOK, gin.H{"time_records": output})
}
