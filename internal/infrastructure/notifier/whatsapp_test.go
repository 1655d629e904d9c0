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

func TestDraftLink(t *testing.T) {
	rq := require.New(t)

	rq.Equal("https://wa.me/?text=Oferta%20boa%21%0Ahttps:%2F%2Fx", notifier.DraftLink("Oferta boa!\nhttps://x"))
}

func TestWhatsAppPublish(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("/PHONE/messages", r.URL.Path)
		rq.Equal("Bearer secret", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		rq.NoError(err)
		rq.Contains(string(body), `"messaging_product":"whatsapp"`)

		if strings.Contains(string(body), `"to":"5500"`) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid number"}}`))

			return
		}

		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	testCases := []struct {
		name         string
		cfg          entity.WhatsAppSettings
		wantStatuses []entity.PostStatus
		wantFirstID  string
	}{
		{
			name:         "Draft provider",
			cfg:          entity.WhatsAppSettings{Provider: entity.WhatsAppProviderDraft},
			wantStatuses: []entity.PostStatus{entity.PostStatusDraft},
			wantFirstID:  "https://wa.me/?text=hello",
		},
		{
			name:         "Empty provider is draft",
			cfg:          entity.WhatsAppSettings{},
			wantStatuses: []entity.PostStatus{entity.PostStatusDraft},
			wantFirstID:  "https://wa.me/?text=hello",
		},
		{
			name:         "Cloud without credentials",
			cfg:          entity.WhatsAppSettings{Provider: entity.WhatsAppProviderCloud, ToNumbers: []string{"5511"}},
			wantStatuses: []entity.PostStatus{entity.PostStatusFailed},
			wantFirstID:  "whatsapp_cloud_not_configured",
		},
		{
			name: "Cloud per recipient",
			cfg: entity.WhatsAppSettings{
				Provider:      entity.WhatsAppProviderCloud,
				PhoneNumberID: "PHONE",
				Token:         "secret",
				ToNumbers:     []string{"5511", "5500"},
			},
			wantStatuses: []entity.PostStatus{entity.PostStatusPosted, entity.PostStatusFailed},
			wantFirstID:  "wamid.1",
		},
	}

	wa := notifier.NewWhatsApp(time.Second, notifier.WithGraphURL(srv.URL))
	rq.Equal(entity.ChannelWhatsApp, wa.Channel())

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			s := entity.DefaultSettings()
			s.WhatsApp = tc.cfg

			got := wa.Publish(context.Background(), "hello", s)
			rq.Len(got, len(tc.wantStatuses))

			for i, status := range tc.wantStatuses {
				rq.Equal(entity.ChannelWhatsApp, got[i].Channel)
				rq.Equal(status, got[i].Status)
			}

			rq.Equal(tc.wantFirstID, got[0].ExternalID)
		})
	}
}
