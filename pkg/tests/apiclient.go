package tests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// APIClient is a JSON client for end-to-end tests of the admin API.
// dest is decoded on 2xx responses, errDest on everything else.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string, httpClient *http.Client) APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return APIClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// BearerHeader builds the Authorization header for an access token.
func BearerHeader(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func (a APIClient) Get(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	dest, errDest any,
) (*http.Response, error) {
	return a.do(ctx, http.MethodGet, endpoint, headers, http.NoBody, dest, errDest)
}

// Post sends request as a JSON body. A nil request sends no body at all.
func (a APIClient) Post(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	request, dest, errDest any,
) (*http.Response, error) {
	return a.withBody(ctx, http.MethodPost, endpoint, headers, request, dest, errDest)
}

func (a APIClient) Put(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	request, dest, errDest any,
) (*http.Response, error) {
	return a.withBody(ctx, http.MethodPut, endpoint, headers, request, dest, errDest)
}

func (a APIClient) withBody(
	ctx context.Context,
	method, endpoint string,
	headers http.Header,
	request, dest, errDest any,
) (*http.Response, error) {
	if request == nil {
		return a.do(ctx, method, endpoint, headers, http.NoBody, dest, errDest)
	}

	b, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return a.do(ctx, method, endpoint, headers, bytes.NewReader(b), dest, errDest)
}

func (a APIClient) do(
	ctx context.Context,
	method, endpoint string,
	headers http.Header,
	body io.Reader,
	dest, errDest any,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	if body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header[k] = v
	}

	slog.Debug("api request", "method", req.Method, "url", req.URL.String())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	if raw, dumpErr := httputil.DumpResponse(resp, true); dumpErr == nil {
		slog.Debug("api response", "dump", string(raw))
	}

	if err = decode(resp, dest, errDest); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return resp, nil
}

func decode(r *http.Response, dest, errDest any) error {
	target := errDest
	if r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices {
		target = dest
	}

	if target == nil {
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}
