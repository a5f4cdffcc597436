// File: services/notification/whapi.go
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// WhapiDeliverer sends messages through the Whapi text endpoint.
type WhapiDeliverer struct {
	URL    string
	APIKey string
	Client *http.Client
	Logger *zap.Logger
}

func NewWhapiDeliverer(url, apiKey string, logger *zap.Logger) (*WhapiDeliverer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("whapi deliverer initialization error: WHAPI_API_KEY is not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhapiDeliverer{
		URL:    url,
		APIKey: apiKey,
		Client: &http.Client{Timeout: 15 * time.Second},
		Logger: logger,
	}, nil
}

type whapiTextRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (d *WhapiDeliverer) Deliver(ctx context.Context, text, conversationID string, suppressIfAlreadySent bool) error {
	if suppressIfAlreadySent {
		d.Logger.Info("Reply suppressed, first message already sent", zap.String("chat", conversationID))
		return nil
	}
	if text == "" {
		return nil
	}

	payload, err := json.Marshal(whapiTextRequest{To: conversationID, Body: text})
	if err != nil {
		return fmt.Errorf("Deliver: failed to encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("Deliver: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.APIKey)

	resp, err := d.Client.Do(req)
	if err != nil {
		d.Logger.Error("Failed to send message", zap.String("chat", conversationID), zap.Error(err))
		return fmt.Errorf("Deliver: request to whapi failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		d.Logger.Error("Whapi rejected message",
			zap.String("chat", conversationID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("Deliver: whapi returned status %d", resp.StatusCode)
	}
	d.Logger.Info("Message sent", zap.String("chat", conversationID))
	return nil
}
