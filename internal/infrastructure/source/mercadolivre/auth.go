package mercadolivre

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/logx"
)

// TokenStore сохраняет токены после обновления, чтобы следующий тик начал
// со свежего access_token.
type TokenStore interface {
	SaveMercadoLivreTokens(ctx context.Context, accessToken, refreshToken string) error
}

// authenticator выдаёт bearer-токен из настроек и обновляет его по
// refresh_token, когда API ответил 401. Без учётных данных запросы идут
// анонимно.
type authenticator struct {
	config *oauth2.Config
	client *http.Client
	store  TokenStore

	mu    sync.Mutex
	token *oauth2.Token
}

func newAuthenticator(tokenURL string, client *http.Client, store TokenStore, creds entity.MercadoLivreSettings) *authenticator {
	var config *oauth2.Config
	if creds.RefreshToken != "" && creds.ClientID != "" && creds.ClientSecret != "" {
		config = &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
	}

	return &authenticator{
		config: config,
		client: client,
		store:  store,
		token: &oauth2.Token{
			AccessToken:  creds.AccessToken,
			RefreshToken: creds.RefreshToken,
			TokenType:    "Bearer",
		},
	}
}

func (a *authenticator) BearerToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.token.AccessToken
}

func (a *authenticator) Authenticate(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config == nil {
		a.token.AccessToken = ""
		return nil
	}

	// Сохранённый access_token уже отвергнут API, поэтому источник получает
	// только refresh_token и обязан сходить за новым.
	stale := &oauth2.Token{RefreshToken: a.token.RefreshToken}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)

	token, err := a.config.TokenSource(ctx, stale).Token()
	if err != nil {
		return fmt.Errorf("tokenSource.Token: %w", err)
	}

	// refresh_token одноразовый, oauth2 оставляет старый, если новый не пришёл
	a.token = token

	if a.store != nil {
		if err = a.store.SaveMercadoLivreTokens(ctx, token.AccessToken, token.RefreshToken); err != nil {
			logger(ctx).Warn("failed to persist refreshed tokens", logx.Error(err))
		}
	}

	logger(ctx).Info("mercadolivre access token refreshed")

	return nil
}
