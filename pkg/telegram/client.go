package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Client struct {
	Bot          *tgbotapi.BotAPI
	UpdateConfig tgbotapi.UpdateConfig
}

func NewClient(token string, debug bool) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	bot.Debug = debug

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	return &Client{
		Bot:          bot,
		UpdateConfig: updateConfig,
	}, nil
}

// Updates starts long polling and returns the update channel.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	return c.Bot.GetUpdatesChan(c.UpdateConfig)
}

// Stop ends long polling; the update channel is closed afterwards.
func (c *Client) Stop() {
	c.Bot.StopReceivingUpdates()
}
