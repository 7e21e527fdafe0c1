// Файл: pkg/telegram/service.go
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

type ServiceInterface interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageEx(ctx context.Context, chatID int64, text string, options ...MessageOption) error
}

type Service struct {
	botToken   string
	apiBase    string
	httpClient *http.Client
}

func NewService(botToken string) ServiceInterface {
	return NewServiceWithBase(botToken, defaultAPIBase)
}

// NewServiceWithBase позволяет направить запросы на другой адрес, например на тестовый сервер.
func NewServiceWithBase(botToken, apiBase string) ServiceInterface {
	return &Service{
		botToken:   botToken,
		apiBase:    strings.TrimRight(apiBase, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

type MessageOption func(*sendMessageRequest)

func WithMarkdownV2() MessageOption {
	return func(req *sendMessageRequest) {
		req.ParseMode = "MarkdownV2"
	}
}

func WithHTML() MessageOption {
	return func(req *sendMessageRequest) {
		req.ParseMode = "HTML"
	}
}

func (s *Service) SendMessage(ctx context.Context, chatID int64, text string) error {
	return s.SendMessageEx(ctx, chatID, EscapeTextForMarkdownV2(text), WithMarkdownV2())
}

func (s *Service) SendMessageEx(ctx context.Context, chatID int64, text string, options ...MessageOption) error {
	reqPayload := &sendMessageRequest{
		ChatID: chatID,
		Text:   text,
	}
	for _, opt := range options {
		opt(reqPayload)
	}
	return s.sendRequest(ctx, "sendMessage", reqPayload)
}

func (s *Service) sendRequest(ctx context.Context, methodName string, payload interface{}) error {
	if s.botToken == "" {
		return fmt.Errorf("токен Telegram-бота не установлен")
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", s.apiBase, s.botToken, methodName)

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки запроса в Telegram: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil || !apiResp.OK {
		return fmt.Errorf("telegram API вернул ошибку (%d): %s", resp.StatusCode, apiResp.Description)
	}
	return nil
}

// EscapeTextForMarkdownV2 экранирует спецсимволы MarkdownV2.
func EscapeTextForMarkdownV2(text string) string {
	const special = "_*[]()~`>#+-=|{}.!\\"
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
