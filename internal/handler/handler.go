package handler

import (
	"net/http"
	"os"
	"time"
	"timeclock/internal/config"
	"timeclock/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	employeeService   *service.EmployeeService
	timeRecordService *service.TimeRecordService
	reportService     *service.ReportService
	config            *config.AppConfig
}

func NewHandler(
	employeeService *service.EmployeeService,
	timeRecordService *service.TimeRecordService,
	reportService *service.ReportService,
	cfg *config.AppConfig,
) *Handler {
	return &Handler{
		employeeService:   employeeService,
		timeRecordService: timeRecordService,
		reportService:     reportService,
		config:            cfg,
	}
}

// Router builds the gin engine with middleware and every route.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(cors.New(corsConfig(h.config.CORSAllowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/employees", h.createEmployee)
	r.GET("/employees", h.listEmployees)

	r.POST("/time_records", h.createTimeRecord)
	r.GET("/time_records/:employee_id", h.listTimeRecords)

	r.GET("/generate_report", h.generateReport)

	if index := h.config.StaticIndex; index != "" {
		if _, err := os.Stat(index); err != nil {
			logrus.WithError(err).Warn("Static index not found, / will not be served")
		} else {
			r.StaticFile("/", index)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cfg
}

// respondError maps domain errors to status codes; anything else is a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch service.KindOf(err) {
	case service.KindNotFound, service.KindEmptyResult:
		status, message = http.StatusNotFound, err.Error()
	case service.KindInvalidTransition, service.KindInvalidInput:
		status, message = http.StatusBadRequest, err.Error()
	case service.KindConstraintViolation:
		status, message = http.StatusConflict, err.Error()
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	}

	c.JSON(status, gin.H{"message": message})
}
