package notifier_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/infrastructure/notifier"
)

const testBotToken = "123456789:AAE1abcdefghijklmnopqrstuvwxyz01234"

func TestTelegramPublish(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.True(strings.HasSuffix(r.URL.Path, "/sendMessage"))

		w.Header().Set("Content-Type", "application/json")

		body, err := io.ReadAll(r.Body)
		rq.NoError(err)

		if strings.Contains(string(body), "@missing") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))

			return
		}

		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77,"date":1700000000,"chat":{"id":-100,"type":"channel"}}}`))
	}))
	defer srv.Close()

	testCases := []struct {
		name       string
		cfg        entity.TelegramSettings
		wantStatus entity.PostStatus
		wantID     string
	}{
		{
			name:       "Not configured",
			cfg:        entity.TelegramSettings{BotToken: testBotToken},
			wantStatus: entity.PostStatusSkipped,
			wantID:     "telegram_not_configured",
		},
		{
			name:       "Posted to numeric chat",
			cfg:        entity.TelegramSettings{BotToken: testBotToken, ChatID: "-100"},
			wantStatus: entity.PostStatusPosted,
			wantID:     "77",
		},
		{
			name:       "Api error",
			cfg:        entity.TelegramSettings{BotToken: testBotToken, ChatID: "@missing"},
			wantStatus: entity.PostStatusFailed,
		},
		{
			name:       "Invalid token",
			cfg:        entity.TelegramSettings{BotToken: "bad", ChatID: "1"},
			wantStatus: entity.PostStatusFailed,
		},
	}

	tg := notifier.NewTelegram(time.Second, notifier.WithTelegramAPIServer(srv.URL))
	rq.Equal(entity.ChannelTelegram, tg.Channel())

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			s := entity.DefaultSettings()
			s.Telegram = tc.cfg

			got := tg.Publish(context.Background(), "hello", s)
			rq.Len(got, 1)
			rq.Equal(entity.ChannelTelegram, got[0].Channel)
			rq.Equal(tc.wantStatus, got[0].Status)

			if tc.wantID != "" {
				rq.Equal(tc.wantID, got[0].ExternalID)
			} else {
				rq.NotEmpty(got[0].ExternalID)
			}
		})
	}
}
