package handler

import (
	"net/http"
	"timeclock/internal/models"

	"github.com/gin-gonic/gin"
)

type createEmployeeRequest struct {
	Name     string  `json:"name"`
	Position *string `json:"position"`
}

func (h *Handler) createEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	employee, err := h.employeeService.Register(c.Request.Context(), req.Name, req.Position)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Employee added successfully!",
		"employee": models.NewEmployeeResponse(employee),
	})
}

func (h *Handler) listEmployees(c *gin.Context) {
	employees, err := h.employeeService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	output := make([]models.EmployeeResponse, 0, len(employees))
	for _, employee := range employees {
		output = append(output, models.NewEmployeeResponse(employee))
	}

	c.JSON(http.StatusOK, gin.H{"employees": output})
}
