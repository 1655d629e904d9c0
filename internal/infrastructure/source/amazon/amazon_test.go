package amazon_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"smartdeals/internal/domain/entity"
	"smartdeals/internal/infrastructure/source/amazon"
)

func TestExtractASIN(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		link string
		want string
	}{
		{
			name: "dp link",
			link: "https://www.amazon.com.br/Echo-Dot/dp/B09B8VGCR8?ref=x",
			want: "B09B8VGCR8",
		},
		{
			name: "gp product link",
			link: "https://www.amazon.com.br/gp/product/B0BSHF7WHW/",
			want: "B0BSHF7WHW",
		},
		{
			name: "Fallback to last chars",
			link: "https://amzn.to/3abcdefGHI",
			want: "3abcdefGHI",
		},
		{
			name: "Short link",
			link: "abc",
			want: "abc",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, amazon.ExtractASIN(tc.link))
		})
	}
}

func TestPageTitle(t *testing.T) {
	rq := require.New(t)

	rq.Equal("Echo Dot & Alexa", amazon.PageTitle("<html><TITLE lang=\"pt\">\n  Echo Dot &amp;\n Alexa </TITLE></html>"))
	rq.Equal("Amazon Item", amazon.PageTitle("<html><body>no title</body></html>"))
	rq.Equal("Amazon Item", amazon.PageTitle("<title>   </title>"))
}

func TestSourceFetch(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("SmartDealsBot/1.0", r.Header.Get("User-Agent"))

		if strings.Contains(r.URL.Path, "B000000002") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		_, _ = w.Write([]byte("<html><head><title>Kindle 11</title></head></html>"))
	}))
	defer srv.Close()

	settings := entity.DefaultSettings()
	settings.Amazon.ManualLinks = []string{
		srv.URL + "/Kindle/dp/B000000001",
		"  ",
		srv.URL + "/gp/product/B000000002",
	}

	src := amazon.New(time.Second, nil)
	rq.Equal("amazon", src.Name())

	got, err := src.Fetch(context.Background(), settings)
	rq.NoError(err)
	rq.Len(got, 2)

	rq.Equal("B000000001", got[0].ProductID)
	rq.Equal("Kindle 11", got[0].Title)
	rq.Equal("Amazon", got[0].SellerName)
	rq.Equal("high", got[0].SellerReputation)
	rq.True(got[0].IsOfficialStore)
	rq.Zero(got[0].CurrentPrice)
	rq.Equal(map[string]any{"validated": true, "mode": "light"}, got[0].Metadata)

	rq.Equal("ASIN B000000002", got[1].Title)
	rq.Equal(false, got[1].Metadata["validated"])
}

func TestSourceFetchLimitsLinks(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<title>x</title>"))
	}))
	defer srv.Close()

	settings := entity.DefaultSettings()
	for range 25 {
		settings.Amazon.ManualLinks = append(settings.Amazon.ManualLinks, srv.URL+"/dp/B00000000X")
	}

	got, err := amazon.New(time.Second, nil).Fetch(context.Background(), settings)
	rq.NoError(err)
	rq.Len(got, 20)
}
