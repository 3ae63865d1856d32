package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"timeclock/internal/models"
	"timeclock/internal/repository"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	ReportSheetName   = "Time Report"
	ReportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	positionFallback = "not informed"
	maxColumnWidth   = 50
)

// ReportHeader lists the spreadsheet columns in order.
var ReportHeader = []string{
	"Employee",
	"Position",
	"Date",
	"Check-in",
	"Break Start",
	"Break End",
	"Check-out",
	"Worked Hours",
	"Break Duration (h)",
}

// ReportRequest carries the raw query values. EmployeeID may be empty.
type ReportRequest struct {
	StartDate  string
	EndDate    string
	EmployeeID string
}

// ReportRow is one rendered spreadsheet row.
type ReportRow struct {
	Employee      string
	Position      string
	Date          string
	CheckIn       string
	BreakStart    string
	BreakEnd      string
	CheckOut      string
	WorkedHours   string
	BreakDuration string
}

func (r ReportRow) values() []string {
	return []string{
		r.Employee,
		r.Position,
		r.Date,
		r.CheckIn,
		r.BreakStart,
		r.BreakEnd,
		r.CheckOut,
		r.WorkedHours,
		r.BreakDuration,
	}
}

type Report struct {
	Filename string
	Rows     []ReportRow
	Content  []byte
}

type ReportService struct {
	records   repository.TimeRecordRepository
	employees repository.EmployeeRepository
	loc       *time.Location
	logger    *logrus.Logger
}

func NewReportService(
	records repository.TimeRecordRepository,
	employees repository.EmployeeRepository,
	loc *time.Location,
) *ReportService {
	if loc == nil {
		loc = time.Local
	}

	return &ReportService{
		records:   records,
		employees: employees,
		loc:       loc,
		logger:    newLogger(),
	}
}

// Generate builds the spreadsheet for the inclusive date range.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest) (*Report, error) {
	start, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))
	if err != nil {
		s.logger.WithField("start_date", req.StartDate).Warn("Invalid report start date")
		return nil, ErrInvalidDate
	}

	end, err := time.Parse("2006-01-02", strings.TrimSpace(req.EndDate))
	if err != nil {
		s.logger.WithField("end_date", req.EndDate).Warn("Invalid report end date")
		return nil, ErrInvalidDate
	}

	filter := repository.ReportFilter{Start: start, End: end}

	if raw := strings.TrimSpace(req.EmployeeID); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.logger.WithField("employee_id", req.EmployeeID).Warn("Invalid report employee id")
			return nil, ErrInvalidEmployeeID
		}
		employeeID := uint(id)
		filter.EmployeeID = &employeeID
	}

	s.logger.WithFields(logrus.Fields{
		"start":       start.Format("2006-01-02"),
		"end":         end.Format("2006-01-02"),
		"employee_id": req.EmployeeID,
	}).Info("Generating time report")

	records, err := s.records.GetForReport(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	rows := make([]ReportRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, BuildReportRow(record, s.loc))
	}

	content, err := RenderReport(rows)
	if err != nil {
		s.logger.WithError(err).Error("Failed to render report")
		return nil, err
	}

	filename := ReportFilename("", start, end)
	if filter.EmployeeID != nil {
		employee, err := s.employees.GetByID(ctx, *filter.EmployeeID)
		if err != nil {
			return nil, err
		}
		if employee != nil {
			filename = ReportFilename(employee.Name, start, end)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"rows":     len(rows),
		"filename": filename,
	}).Info("Time report generated")

	return &Report{
		Filename: filename,
		Rows:     rows,
		Content:  content,
	}, nil
}

// BuildReportRow renders one record; clock times are shown in loc.
func BuildReportRow(record *models.TimeRecord, loc *time.Location) ReportRow {
	var checkIn string
	if !record.CheckIn.IsZero() {
		checkIn = record.CheckIn.In(loc).Format("15:04")
	}

	return ReportRow{
		Employee:      record.Employee.Name,
		Position:      record.Employee.PositionOr(positionFallback),
		Date:          record.Date.Format("02/01/2006"),
		CheckIn:       checkIn,
		BreakStart:    clockTime(record.BreakStart, loc),
		BreakEnd:      clockTime(record.BreakEnd, loc),
		CheckOut:      clockTime(record.CheckOut, loc),
		WorkedHours:   formatHours(record.WorkedHours()),
		BreakDuration: formatHours(record.BreakHours()),
	}
}

func clockTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format("15:04")
}

// formatHours shows non-positive values as 0.00.
func formatHours(h float64) string {
	if h <= 0 {
		return "0.00"
	}
	return strconv.FormatFloat(h, 'f', 2, 64)
}

// ReportFilename suggests a download name; employeeName may be empty.
func ReportFilename(employeeName string, start, end time.Time) string {
	if employeeName != "" {
		return fmt.Sprintf("timesheet_%s_%s_to_%s.xlsx",
			employeeName, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return fmt.Sprintf("timesheet_%s_to_%s.xlsx", start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// RenderReport writes a single-sheet workbook with a bold header row and
// columns sized to their longest value.
func RenderReport(rows []ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", ReportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	widths := make([]int, len(ReportHeader))

	writeRow := func(rowNum int, values []string) error {
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return f.SetSheetRow(ReportSheetName, cell, &cells)
	}

	if err := writeRow(1, ReportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(ReportSheetName, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, row := range rows {
		if err := writeRow(i+2, row.values()); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(ReportSheetName, col, col, columnWidth(w)); err != nil {
			return nil, fmt.Errorf("set width of column %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func columnWidth(longest int) float64 {
	return float64(min(longest+2, maxColumnWidth))
}
