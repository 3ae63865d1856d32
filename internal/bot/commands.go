package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"timeclock/internal/models"
	"timeclock/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const helpText = `📋 Available commands:

👥 Employees:
/employees - List registered employees

⏰ Time tracking:
/checkin <id> - Start the working day
/checkout <id> - Finish the working day
/breakstart <id> - Start a break
/breakend <id> - End the break
/records <id> - Show the employee's time records

📊 Reports:
/report <start> <end> [id] - Spreadsheet for a date range
    Example: /report 2026-01-01 2026-01-31 3

🛠 Utilities:
/start - Start working with the bot
/help - Show this message`

var commandEvents = map[string]service.EventType{
	"checkin":    service.EventCheckIn,
	"checkout":   service.EventCheckOut,
	"breakstart": service.EventBreakStart,
	"breakend":   service.EventBreakEnd,
}

var eventReplies = map[service.EventType]string{
	service.EventCheckIn:    "✅ Checked in at %s",
	service.EventCheckOut:   "✅ Checked out at %s",
	service.EventBreakStart: "☕ Break started at %s",
	service.EventBreakEnd:   "✅ Break ended at %s",
}

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	if event, ok := commandEvents[command]; ok {
		h.recordEvent(ctx, message, event, args)
		return
	}

	switch command {
	case "start", "help":
		h.reply(message, helpText)
	case "employees":
		h.listEmployees(ctx, message)
	case "records":
		h.listRecords(ctx, message, args)
	case "report":
		h.sendReport(ctx, message, args)
	default:
		h.reply(message, "❌ Unknown command. Use /help for the list of commands.")
	}
}

func (h *Handler) recordEvent(ctx context.Context, message *tgbotapi.Message, event service.EventType, args string) {
	employeeID, err := parseEmployeeID(args)
	if err != nil {
		h.reply(message, "❌ Usage: /"+message.Command()+" <employee_id>")
		return
	}

	record, err := h.timeRecordService.Record(ctx, employeeID, event)
	if err != nil {
		h.replyError(message, err)
		return
	}

	loc := h.timeRecordService.Location()
	var at string
	switch event {
	case service.EventCheckIn:
		at = record.CheckIn.In(loc).Format("15:04")
	case service.EventCheckOut:
		at = record.CheckOut.In(loc).Format("15:04")
	case service.EventBreakStart:
		at = record.BreakStart.In(loc).Format("15:04")
	case service.EventBreakEnd:
		at = record.BreakEnd.In(loc).Format("15:04")
	}

	h.reply(message, fmt.Sprintf(eventReplies[event], at))
}

func (h *Handler) listEmployees(ctx context.Context, message *tgbotapi.Message) {
	employees, err := h.employeeService.List(ctx)
	if err != nil {
		h.replyError(message, err)
		return
	}

	if len(employees) == 0 {
		h.reply(message, "📭 No employees registered yet")
		return
	}

	var result strings.Builder
	result.WriteString("👥 Employees:\n\n")
	for _, e := range employees {
		fmt.Fprintf(&result, "%d. %s (%s)\n", e.ID, e.Name, e.PositionOr("not informed"))
	}

	h.reply(message, result.String())
}

func (h *Handler) listRecords(ctx context.Context, message *tgbotapi.Message, args string) {
	employeeID, err := parseEmployeeID(args)
	if err != nil {
		h.reply(message, "❌ Usage: /records <employee_id>")
		return
	}

	if _, err := h.employeeService.Get(ctx, employeeID); err != nil {
		h.replyError(message, err)
		return
	}

	records, err := h.timeRecordService.ListByEmployee(ctx, employeeID)
	if err != nil {
		h.replyError(message, err)
		return
	}

	h.reply(message, FormatRecordList(records, h.timeRecordService.Location()))
}

func (h *Handler) sendReport(ctx context.Context, message *tgbotapi.Message, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 || len(fields) > 3 {
		h.reply(message, "❌ Usage: /report <start YYYY-MM-DD> <end YYYY-MM-DD> [employee_id]")
		return
	}

	req := service.ReportRequest{StartDate: fields[0], EndDate: fields[1]}
	if len(fields) == 3 {
		req.EmployeeID = fields[2]
	}

	report, err := h.reportService.Generate(ctx, req)
	if err != nil {
		h.replyError(message, err)
		return
	}

	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  report.Filename,
		Bytes: report.Content,
	})
	doc.Caption = fmt.Sprintf("📊 %d record(s)", len(report.Rows))

	if _, err := h.sender.Send(doc); err != nil {
		logrus.WithError(err).WithField("chat_id", message.Chat.ID).Error("Failed to send report")
		h.reply(message, "❌ Failed to send the report")
	}
}

// FormatRecordList renders records one per line with their state.
func FormatRecordList(records []*models.TimeRecord, loc *time.Location) string {
	if len(records) == 0 {
		return "📭 No time records yet"
	}

	var result strings.Builder
	result.WriteString("📋 Time records:\n\n")

	for i, record := range records {
		row := service.BuildReportRow(record, loc)
		fmt.Fprintf(&result, "%d. %s in %s", i+1, row.Date, row.CheckIn)
		if row.BreakStart != "" {
			fmt.Fprintf(&result, " | break %s-%s", row.BreakStart, row.BreakEnd)
		}
		if row.CheckOut != "" {
			fmt.Fprintf(&result, " | out %s | %sh", row.CheckOut, row.WorkedHours)
		}
		fmt.Fprintf(&result, " [%s]\n", record.State())
	}

	return result.String()
}

func parseEmployeeID(args string) (uint, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return 0, fmt.Errorf("expected one employee id, got %d arguments", len(fields))
	}

	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid employee id %q", fields[0])
	}

	return uint(id), nil
}
