package bot

import (
	"context"
	"time"
	"timeclock/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender is the part of the Telegram API the bot needs; *tgbotapi.BotAPI implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handler struct {
	sender            Sender
	employeeService   *service.EmployeeService
	timeRecordService *service.TimeRecordService
	reportService     *service.ReportService
	requestTimeout    time.Duration
}

func NewHandler(
	sender Sender,
	employeeService *service.EmployeeService,
	timeRecordService *service.TimeRecordService,
	reportService *service.ReportService,
) *Handler {
	return &Handler{
		sender:            sender,
		employeeService:   employeeService,
		timeRecordService: timeRecordService,
		reportService:     reportService,
		requestTimeout:    30 * time.Second,
	}
}

// HandleUpdates processes updates until the channel is closed.
func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			continue
		}

		h.HandleMessage(update.Message)
	}
}

func (h *Handler) HandleMessage(message *tgbotapi.Message) {
	if message.From != nil {
		logrus.Infof("[%s] %s", message.From.UserName, message.Text)
	}

	if !message.IsCommand() {
		h.reply(message, "Use /help for the list of commands.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	h.handleCommand(ctx, message)
}

func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	if _, err := h.sender.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", message.Chat.ID).Error("Failed to send message")
	}
}

// replyError shows domain messages verbatim and hides internal failures.
func (h *Handler) replyError(message *tgbotapi.Message, err error) {
	if service.KindOf(err) != 0 {
		h.reply(message, "❌ "+err.Error())
		return
	}

	logrus.WithError(err).WithField("chat_id", message.Chat.ID).Error("Command failed")
	h.reply(message, "❌ Internal error, please try again later.")
}
