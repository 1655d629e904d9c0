package mercadolivre

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/httpx"
	"smartdeals/pkg/logx"
)

const (
	Name = "mercadolivre"

	defaultBaseURL    = "https://api.mercadolibre.com"
	siteID            = "MLB"
	maxKeywords       = 5
	resultsPerKeyword = 10
	currencyBRL       = "BRL"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

func defaultKeywords() []string {
	return []string{"RTX 5060", "Tênis New Balance"}
}

type Option func(*Source)

func WithBaseURL(baseURL string) Option {
	return func(s *Source) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(s *Source) {
		s.transport = rt
	}
}

// WithTokenStore включает сохранение токенов после refresh.
func WithTokenStore(store TokenStore) Option {
	return func(s *Source) {
		s.tokens = store
	}
}

// Source ищет товары через публичный search API Mercado Livre.
type Source struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	tokens    TokenStore
}

func New(timeout time.Duration, opts ...Option) *Source {
	s := &Source{
		baseURL: defaultBaseURL,
		timeout: timeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Source) Name() string {
	return Name
}

// Fetch ищет по первым ключевым словам из настроек. Ошибка одного запроса
// не прерывает остальные, ошибка возвращается только если не удалось ничего.
func (s *Source) Fetch(ctx context.Context, settings entity.Settings) ([]entity.Candidate, error) {
	base := httpx.NewClient(s.timeout, s.transport)
	auth := newAuthenticator(s.baseURL+"/oauth/token", base, s.tokens, settings.MercadoLivre)

	client := &http.Client{
		Timeout:   s.timeout,
		Transport: httpx.NewAuthBearerRoundTripper(base.Transport, auth),
	}

	keywords := lo.Filter(settings.SeedKeywords, func(k string, _ int) bool {
		return strings.TrimSpace(k) != ""
	})
	if len(keywords) == 0 {
		keywords = defaultKeywords()
	}

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}

	category := ""
	if len(settings.SeedCategories) > 0 {
		category = settings.SeedCategories[0]
	}

	var (
		out  []entity.Candidate
		errs []error
	)

	for _, keyword := range keywords {
		items, err := s.search(ctx, client, keyword, category)
		if err != nil {
			logger(ctx).Warn("mercadolivre search failed",
				logx.FieldSource, Name,
				"keyword", keyword,
				logx.Error(err),
			)

			errs = append(errs, err)

			continue
		}

		out = append(out, items...)
	}

	if len(out) == 0 && len(errs) == len(keywords) {
		return nil, fmt.Errorf("mercadolivre: all searches failed: %w", errors.Join(errs...))
	}

	return out, nil
}

func (s *Source) search(ctx context.Context, client *http.Client, keyword, category string) ([]entity.Candidate, error) {
	query := url.Values{
		"q":     {keyword},
		"limit": {fmt.Sprint(resultsPerKeyword)},
	}
	if category != "" {
		query.Set("category", category)
	}

	endpoint := fmt.Sprintf("%s/sites/%s/search?%s", s.baseURL, siteID, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("search %q: unexpected status %d", keyword, resp.StatusCode)
	}

	var page searchResponse
	if err = json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	out := make([]entity.Candidate, 0, len(page.Results))

	for i, raw := range page.Results {
		var it item
		if err = json.Unmarshal(raw, &it); err != nil {
			logger(ctx).Warn("skip malformed mercadolivre item",
				"index", i,
				logx.Error(err),
			)

			continue
		}

		if it.productID() == "" {
			continue
		}

		// объект уже успешно разобран выше
		var meta map[string]any
		_ = json.Unmarshal(raw, &meta)

		out = append(out, it.toCandidate(meta))
	}

	return out, nil
}
