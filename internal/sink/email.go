package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/acidni/intake-service/internal/config"
)

type emailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// EmailClient sends mail through the APIM send-email endpoint.
type EmailClient struct {
	cfg    config.EmailConfig
	client *http.Client
	logger *zap.Logger
}

// NewEmailClient constructs the client.
func NewEmailClient(cfg config.EmailConfig, logger *zap.Logger) *EmailClient {
	return &EmailClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Send posts one message. Non-2xx responses are errors; the caller decides
// whether that fails the request.
func (e *EmailClient) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(emailPayload{
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", e.cfg.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		e.logger.Error("email API rejected message",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}
	return nil
}
