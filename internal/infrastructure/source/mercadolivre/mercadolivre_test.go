package mercadolivre_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/infrastructure/source/mercadolivre"
)

const searchPage = `{
  "results": [
    {
      "id": "MLB1",
      "title": "Placa de Vídeo RTX 5060",
      "permalink": "https://produto.mercadolivre.com.br/MLB1",
      "price": 2199.999,
      "original_price": 2999.9,
      "currency_id": "BRL",
      "seller": {"nickname": "LOJA", "seller_reputation": {"level_id": "5_green"}},
      "official_store_id": 42,
      "shipping": {"free_shipping": true},
      "sold_quantity": 150,
      "condition": "new",
      "category_id": "MLB1658",
      "thumbnail": "https://img/1.jpg",
      "attributes": [{"id": "BRAND", "value_name": "Asus"}, {"id": "MODEL", "value_name": "Dual"}]
    },
    {"id": 123, "title": ["broken"]},
    {
      "id": "MLB2",
      "title": "Tênis",
      "permalink": "https://produto.mercadolivre.com.br/MLB2",
      "price": 399,
      "seller": {"nickname": "SHOP"},
      "attributes": [{"id": "COLOR", "value_name": "Azul"}]
    }
  ]
}`

type tokenStore struct {
	access, refresh string
}

func (s *tokenStore) SaveMercadoLivreTokens(_ context.Context, access, refresh string) error {
	s.access, s.refresh = access, refresh
	return nil
}

func TestSourceFetchMapsItems(t *testing.T) {
	rq := require.New(t)

	var (
		mu      sync.Mutex
		queries []string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("/sites/MLB/search", r.URL.Path)

		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q"))
		mu.Unlock()

		rq.Equal("10", r.URL.Query().Get("limit"))
		rq.Equal("MLB1658", r.URL.Query().Get("category"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	settings := entity.DefaultSettings()
	settings.SeedKeywords = []string{"rtx", ""}
	settings.SeedCategories = []string{"MLB1658", "MLB9999"}

	src := mercadolivre.New(time.Second, mercadolivre.WithBaseURL(srv.URL))
	rq.Equal("mercadolivre", src.Name())

	got, err := src.Fetch(context.Background(), settings)
	rq.NoError(err)

	mu.Lock()
	rq.Equal([]string{"rtx"}, queries)
	mu.Unlock()

	rq.Len(got, 2)

	first := got[0]
	rq.Equal("mercadolivre", first.Source)
	rq.Equal("MLB1", first.ProductID)
	rq.Equal("Placa de Vídeo RTX 5060", first.Title)
	rq.InDelta(2200.0, first.CurrentPrice, 0.001)
	rq.NotNil(first.OldPrice)
	rq.InDelta(2999.9, *first.OldPrice, 0.001)
	rq.Equal("LOJA", first.SellerName)
	rq.Equal("5_green", first.SellerReputation)
	rq.True(first.IsOfficialStore)
	rq.True(first.ShippingFree)
	rq.Equal(150, first.SoldQuantity)
	rq.Equal("Asus", first.Brand)
	rq.Equal("Dual", first.Model)
	rq.Equal("MLB1658", first.Category)
	rq.Contains(first.Metadata, "raw")

	second := got[1]
	rq.Nil(second.OldPrice)
	rq.False(second.IsOfficialStore)
	rq.Equal("new", second.Condition)
	rq.Equal("Azul", second.Brand)
	rq.Empty(second.Model)
	rq.Equal("BRL", second.Currency)
}

func TestSourceFetchDefaultKeywords(t *testing.T) {
	rq := require.New(t)

	var requests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		rq.Empty(r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	settings := entity.DefaultSettings()
	settings.SeedKeywords = nil

	got, err := mercadolivre.New(time.Second, mercadolivre.WithBaseURL(srv.URL)).
		Fetch(context.Background(), settings)
	rq.NoError(err)
	rq.Empty(got)
	rq.Equal(int32(2), requests.Load())
}

func TestSourceFetchRefreshesToken(t *testing.T) {
	rq := require.New(t)

	var refreshes atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			refreshes.Add(1)
			rq.NoError(r.ParseForm())
			rq.Equal("refresh_token", r.PostForm.Get("grant_type"))
			rq.Equal("old-refresh", r.PostForm.Get("refresh_token"))
			rq.Equal("id", r.PostForm.Get("client_id"))
			rq.Equal("secret", r.PostForm.Get("client_secret"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"new-refresh","token_type":"bearer","expires_in":21600}`))
		default:
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			_, _ = w.Write([]byte(`{"results": [{"id": "MLB7", "title": "x", "price": 10}]}`))
		}
	}))
	defer srv.Close()

	settings := entity.DefaultSettings()
	settings.SeedKeywords = []string{"a", "b"}
	settings.MercadoLivre = entity.MercadoLivreSettings{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "old-refresh",
		AccessToken:  "stale",
	}

	store := &tokenStore{}

	got, err := mercadolivre.New(time.Second,
		mercadolivre.WithBaseURL(srv.URL),
		mercadolivre.WithTokenStore(store),
	).Fetch(context.Background(), settings)
	rq.NoError(err)
	rq.Len(got, 2)
	rq.Equal(int32(1), refreshes.Load())
	rq.Equal("fresh", store.access)
	rq.Equal("new-refresh", store.refresh)
}

func TestSourceFetchRefreshRejected(t *testing.T) {
	rq := require.New(t)

	var refreshes atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			refreshes.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))

			return
		}

		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	settings := entity.DefaultSettings()
	settings.SeedKeywords = []string{"a"}
	settings.MercadoLivre = entity.MercadoLivreSettings{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "revoked",
		AccessToken:  "stale",
	}

	store := &tokenStore{}

	got, err := mercadolivre.New(time.Second,
		mercadolivre.WithBaseURL(srv.URL),
		mercadolivre.WithTokenStore(store),
	).Fetch(context.Background(), settings)
	rq.Error(err)
	rq.Empty(got)
	rq.Equal(int32(1), refreshes.Load())
	rq.Empty(store.access)
}

func TestSourceFetchFailures(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name      string
		failFor   string
		wantErr   bool
		wantItems int
	}{
		{
			name:      "One keyword fails",
			failFor:   "a",
			wantErr:   false,
			wantItems: 1,
		},
		{
			name:    "Every keyword fails",
			failFor: "*",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query().Get("q")
				if tc.failFor == "*" || tc.failFor == q {
					w.WriteHeader(http.StatusBadGateway)
					return
				}

				_, _ = w.Write([]byte(`{"results": [{"id": "MLB-` + q + `", "title": "x", "price": 10}]}`))
			}))
			defer srv.Close()

			settings := entity.DefaultSettings()
			settings.SeedKeywords = []string{"a", "b"}

			got, err := mercadolivre.New(time.Second, mercadolivre.WithBaseURL(srv.URL)).
				Fetch(context.Background(), settings)
			if tc.wantErr {
				rq.Error(err)
				rq.Empty(got)

				return
			}

			rq.NoError(err)
			rq.Len(got, tc.wantItems)
		})
	}
}

func TestSourceFetchProductIDFallback(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": [
			{"id": "MLB1", "catalog_product_id": "MLB-CAT-1", "title": "a", "price": 10},
			{"catalog_product_id": "MLB-CAT-2", "permalink": "https://ml/2", "title": "b", "price": 10},
			{"permalink": "https://ml/3", "title": "c", "price": 10},
			{"title": "no identity", "price": 10}
		]}`))
	}))
	defer srv.Close()

	settings := entity.DefaultSettings()
	settings.SeedKeywords = []string{"a"}

	got, err := mercadolivre.New(time.Second, mercadolivre.WithBaseURL(srv.URL)).
		Fetch(context.Background(), settings)
	rq.NoError(err)
	rq.Len(got, 3)
	rq.Equal("MLB1", got[0].ProductID)
	rq.Equal("MLB-CAT-2", got[1].ProductID)
	rq.Equal("https://ml/3", got[2].ProductID)
}
