package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/httpx"
	"smartdeals/pkg/logx"
)

const (
	defaultGraphURL = "https://graph.facebook.com/v20.0"
	draftURL        = "https://wa.me/?text="

	reasonWhatsAppNotConfigured = "whatsapp_cloud_not_configured"

	maxErrorBody = 1024
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type WhatsAppOption func(*WhatsApp)

func WithGraphURL(url string) WhatsAppOption {
	return func(w *WhatsApp) {
		w.graphURL = strings.TrimRight(url, "/")
	}
}

// WhatsApp в режиме draft только собирает ссылку wa.me для ручной отправки,
// в режиме cloud шлёт сообщение каждому номеру через Cloud API.
type WhatsApp struct {
	client   *http.Client
	graphURL string
}

func NewWhatsApp(timeout time.Duration, opts ...WhatsAppOption) *WhatsApp {
	w := &WhatsApp{
		client:   httpx.NewClient(timeout, nil),
		graphURL: defaultGraphURL,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *WhatsApp) Channel() entity.Channel {
	return entity.ChannelWhatsApp
}

func (w *WhatsApp) Publish(ctx context.Context, message string, s entity.Settings) []entity.Outcome {
	cfg := s.WhatsApp

	if cfg.Provider != entity.WhatsAppProviderCloud {
		return []entity.Outcome{w.outcome(entity.PostStatusDraft, DraftLink(message), nil)}
	}

	if cfg.Token == "" || cfg.PhoneNumberID == "" || len(cfg.ToNumbers) == 0 {
		return []entity.Outcome{w.outcome(entity.PostStatusFailed, reasonWhatsAppNotConfigured, nil)}
	}

	outcomes := make([]entity.Outcome, 0, len(cfg.ToNumbers))

	for _, number := range cfg.ToNumbers {
		id, err := w.send(ctx, cfg, number, message)
		if err != nil {
			logger(ctx).Warn("whatsapp send failed",
				logx.FieldChannel, entity.ChannelWhatsApp,
				logx.Error(err),
			)

			outcomes = append(outcomes, w.outcome(entity.PostStatusFailed, err.Error(), map[string]any{"to": number}))

			continue
		}

		outcomes = append(outcomes, w.outcome(entity.PostStatusPosted, id, map[string]any{"to": number}))
	}

	return outcomes
}

// DraftLink - ссылка wa.me с заполненным текстом.
func DraftLink(message string) string {
	return draftURL + url.PathEscape(message)
}

type cloudMessage struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             cloudText `json:"text"`
}

type cloudText struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type cloudResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

func (w *WhatsApp) send(ctx context.Context, cfg entity.WhatsAppSettings, to, message string) (string, error) {
	body, err := json.Marshal(cloudMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             cloudText{Body: message},
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", w.graphURL, url.PathEscape(cfg.PhoneNumberID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var out cloudResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil || len(out.Messages) == 0 || out.Messages[0].ID == "" {
		return "ok", nil
	}

	return out.Messages[0].ID, nil
}

func (w *WhatsApp) outcome(status entity.PostStatus, externalID string, payload map[string]any) entity.Outcome {
	return entity.Outcome{
		Channel:    entity.ChannelWhatsApp,
		Status:     status,
		ExternalID: externalID,
		Payload:    payload,
	}
}
