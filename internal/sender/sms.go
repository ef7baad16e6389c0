// internal/sender/sms.go
package sender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	appErrors "github.com/reviewloop/reviewloop-backend/internal/errors"
	"github.com/reviewloop/reviewloop-backend/internal/model"
)

type GatewayConfig struct {
	URL    string
	APIKey string
}

func NewGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		URL:    os.Getenv("SMS_GATEWAY_URL"),
		APIKey: os.Getenv("SMS_GATEWAY_API_KEY"),
	}
}

// GatewaySMSSender posts messages to an HTTP SMS gateway. A stuck
// gateway must not hold a dispatch slot forever, hence the client timeout.
type GatewaySMSSender struct {
	cfg    *GatewayConfig
	client *http.Client
}

func NewGatewaySMSSender(cfg *GatewayConfig) *GatewaySMSSender {
	return &GatewaySMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type gatewayResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

func (s *GatewaySMSSender) Send(from, to, body string) (string, error) {
	payload, err := json.Marshal(gatewayRequest{From: from, To: to, Body: body})
	if err != nil {
		return "", appErrors.NewTransport(model.ChannelSMS, err)
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return "", appErrors.NewTransport(model.ChannelSMS, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", appErrors.NewTransport(model.ChannelSMS, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", appErrors.NewTransport(model.ChannelSMS,
			fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(raw)))
	}

	var out gatewayResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", appErrors.NewTransport(model.ChannelSMS, fmt.Errorf("bad gateway response: %w", err))
	}
	if out.Error != "" {
		return "", appErrors.NewTransport(model.ChannelSMS, fmt.Errorf("gateway error: %s", out.Error))
	}
	return out.MessageID, nil
}

var _ SMSSender = (*GatewaySMSSender)(nil)
