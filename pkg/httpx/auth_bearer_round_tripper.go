package httpx

import (
	"context"
	"fmt"
	"net/http"
)

type authenticator interface {
	Authenticate(context.Context) error
	BearerToken() string
}

// AuthBearerRoundTripper attaches a bearer token to outgoing requests and
// re-authenticates once when the upstream answers 401. An empty token after
// authentication means anonymous access, the header is then omitted.
type AuthBearerRoundTripper struct {
	next          http.RoundTripper
	authenticator authenticator
}

func NewAuthBearerRoundTripper(
	next http.RoundTripper,
	authenticator authenticator,
) AuthBearerRoundTripper {
	return AuthBearerRoundTripper{
		next:          next,
		authenticator: authenticator,
	}
}

func (rt AuthBearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.authenticator.BearerToken() == "" {
		if err := rt.authenticator.Authenticate(req.Context()); err != nil {
			return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
		}
	}

	resp, err := rt.next.RoundTrip(rt.withAuthorization(req))
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	resp.Body.Close()

	if err = rt.authenticator.Authenticate(req.Context()); err != nil {
		return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
	}

	retry := rt.withAuthorization(req)

	if req.GetBody != nil {
		if retry.Body, err = req.GetBody(); err != nil {
			return nil, fmt.Errorf("req.GetBody: %w", err)
		}
	}

	return rt.next.RoundTrip(retry) //nolint:wrapcheck
}

// withAuthorization clones the request, RoundTrippers must not mutate the
// caller's request.
func (rt AuthBearerRoundTripper) withAuthorization(req *http.Request) *http.Request {
	out := req.Clone(req.Context())

	if token := rt.authenticator.BearerToken(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	return out
}
