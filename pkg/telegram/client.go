package telegram

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxFileSize - лимит на размер загружаемого файла
const MaxFileSize = 10 << 20

type Client struct {
	Bot          *tgbotapi.BotAPI
	UpdateConfig tgbotapi.UpdateConfig
	http         *resty.Client
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
		http: resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(1 * time.Second).
			SetResponseBodyLimit(MaxFileSize),
	}, nil
}

func (c *Client) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	return c.Bot.Send(msg)
}

// Fetch скачивает файл, присланный пользователем
func (c *Client) Fetch(fileID string) ([]byte, error) {
	url, err := c.Bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file url: %w", err)
	}

	resp, err := c.http.R().Get(url)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, fmt.Errorf("file is larger than %d bytes", MaxFileSize)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode())
	}

	return resp.Body(), nil
}
