// Package amazon - «лёгкий» режим Amazon: без PA-API, только проверка ссылок
// из настроек и заголовок страницы.
package amazon

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/httpx"
	"smartdeals/pkg/logx"
)

const (
	Name = "amazon"

	maxLinks     = 20
	userAgent    = "SmartDealsBot/1.0"
	defaultTitle = "Amazon Item"
	asinLen      = 10
	maxPageBytes = 2 << 20
)

//nolint:gochecknoglobals
var (
	asinPattern  = regexp.MustCompile(`(?:dp|gp/product)/([A-Z0-9]{10})`)
	titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

type Source struct {
	client *http.Client
}

func New(timeout time.Duration, transport http.RoundTripper) *Source {
	return &Source{
		client: httpx.NewClient(timeout, transport),
	}
}

func (s *Source) Name() string {
	return Name
}

// Fetch никогда не падает на отдельной ссылке: при ошибке загрузки товар всё
// равно попадает в выдачу с заголовком по ASIN.
func (s *Source) Fetch(ctx context.Context, settings entity.Settings) ([]entity.Candidate, error) {
	links := settings.Amazon.ManualLinks
	if len(links) > maxLinks {
		links = links[:maxLinks]
	}

	out := make([]entity.Candidate, 0, len(links))

	for _, link := range links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("ctx.Err: %w", err)
		}

		asin := ExtractASIN(link)

		title, err := s.title(ctx, link)
		if err != nil {
			logger(ctx).Warn("amazon link check failed",
				logx.FieldSource, Name,
				logx.FieldURL, link,
				logx.Error(err),
			)

			title = "ASIN " + asin
		}

		out = append(out, entity.Candidate{
			Source:           Name,
			ProductID:        asin,
			Title:            title,
			URL:              link,
			Currency:         "BRL",
			SellerName:       "Amazon",
			SellerReputation: "high",
			IsOfficialStore:  true,
			Condition:        "new",
			Metadata: map[string]any{
				"validated": err == nil,
				"mode":      "light",
			},
		})
	}

	return out, nil
}

func (s *Source) title(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("io.ReadAll: %w", err)
	}

	return PageTitle(string(body)), nil
}

// ExtractASIN достаёт ASIN из /dp/ или /gp/product/, иначе берёт последние
// 10 символов ссылки.
func ExtractASIN(link string) string {
	if m := asinPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}

	if len(link) <= asinLen {
		return link
	}

	return link[len(link)-asinLen:]
}

// PageTitle возвращает содержимое <title> без лишних пробелов.
func PageTitle(page string) string {
	m := titlePattern.FindStringSubmatch(page)
	if m == nil {
		return defaultTitle
	}

	title := strings.Join(strings.Fields(html.UnescapeString(m[1])), " ")
	if title == "" {
		return defaultTitle
	}

	return title
}
