package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"diamond-topup/internal/pkg/errs"
)

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// TelegramSender posts to the Bot API sendMessage method.
type TelegramSender struct {
	apiURL     string
	botToken   string
	httpClient *http.Client
}

func NewTelegramSender(apiURL, botToken string, httpClient *http.Client) *TelegramSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TelegramSender{
		apiURL:     strings.TrimRight(apiURL, "/"),
		botToken:   botToken,
		httpClient: httpClient,
	}
}

func (s *TelegramSender) Send(ctx context.Context, chatID, text string) error {
	if s.botToken == "" {
		return errs.New("telegram bot token is not configured")
	}

	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return errs.Wrap(err, "failed to encode telegram message")
	}

	url := s.apiURL + "/bot" + s.botToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errs.Wrap(err, "failed to build telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// URL にトークンが含まれるためエラー文言には載せない
		return errs.New("telegram request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return errs.Wrap(err, "failed to read telegram response")
	}

	var out sendMessageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return errs.Wrapf(err, "telegram returned %d", resp.StatusCode)
	}
	if !out.OK {
		return errs.Newf("telegram returned %d: %s", resp.StatusCode, out.Description)
	}
	return nil
}
