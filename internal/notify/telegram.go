package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"arbScope/internal/model"
)

// Telegram posts scan summaries to a Telegram chat via the Bot API.
type Telegram struct {
	token  string
	chatID string
	client *http.Client
}

// NewTelegram creates a notifier for the given bot token and chat ID.
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyTop sends a short summary of the best opportunity from a scan. The
// caller decides when a scan is worth announcing; an empty slice is a no-op.
func (t *Telegram) NotifyTop(ctx context.Context, opps []model.ArbitrageOpportunity) error {
	if len(opps) == 0 {
		return nil
	}

	top := opps[0]
	text := fmt.Sprintf(
		"Arb route %s\n%s via %s\nin %.4f out %.4f profit %.4f (confidence %.2f, gas %d)\n%d routes total",
		top.RouteID,
		strings.Join(top.Tokens, " -> "),
		strings.Join(top.Dexes, ", "),
		top.InputAmount,
		top.ExpectedOutput,
		top.ProfitUSD,
		top.ConfidenceScore,
		top.GasEstimate,
		len(opps),
	)

	return t.send(ctx, text)
}

func (t *Telegram) send(ctx context.Context, text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	payload := map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
