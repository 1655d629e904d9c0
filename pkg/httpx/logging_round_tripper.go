package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/rs/xid"

	"smartdeals/pkg/logx"
)

//go:generate moq -rm -out sensitive_data_masker_mock.gen.go . sensitiveDataMasker:SensitiveDataMaskerMock
type sensitiveDataMasker interface {
	Mask([]byte) []byte
}

type Option func(*LoggingRoundTripper)

// WithDumpLimit truncates request and response dumps to limit bytes.
// Zero keeps them whole.
func WithDumpLimit(limit int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.dumpLimit = limit
	}
}

// WithMasker replaces the default secret masker.
func WithMasker(masker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.masker = masker
	}
}

// LoggingRoundTripper logs every outgoing call to a marketplace or a
// publishing channel: the dump of the request, then either the dump of the
// response or the transport error. Secrets in the URL and both dumps are
// masked with logx.SensitiveDataMasker unless WithMasker is given.
type LoggingRoundTripper struct {
	next      http.RoundTripper
	masker    sensitiveDataMasker
	dumpLimit int
}

func NewLoggingRoundTripper(next http.RoundTripper, opts ...Option) LoggingRoundTripper {
	rt := LoggingRoundTripper{
		next:   next,
		masker: logx.NewSensitiveDataMasker(),
	}

	for _, opt := range opts {
		opt(&rt)
	}

	return rt
}

func (rt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	log := logger(ctx).With(
		slog.String(logx.FieldRequestID, xid.New().String()),
		slog.String(logx.FieldHTTPMethod, req.Method),
		slog.String(logx.FieldURL, string(rt.masker.Mask([]byte(req.URL.String())))),
	)

	reqDump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		log.Error("httputil.DumpRequestOut", logx.Error(err))
	}

	log.Info(logx.FieldHTTPRequest, slog.String(logx.FieldRequestBody, rt.dump(reqDump)))

	start := time.Now()

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		log.Warn("outgoing request failed",
			slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
			logx.Error(err),
		)

		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	respDump, err := httputil.DumpResponse(resp, true)
	if err != nil {
		log.Error("httputil.DumpResponse", logx.Error(err))
	}

	level := slog.LevelInfo
	if resp.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelWarn
	}

	log.Log(ctx, level, logx.FieldHTTPResponse,
		slog.Int(logx.FieldResponseStatus, resp.StatusCode),
		slog.String(logx.FieldResponseBody, rt.dump(respDump)),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
	)

	return resp, nil
}

func (rt LoggingRoundTripper) dump(raw []byte) string {
	if rt.dumpLimit != 0 && len(raw) > rt.dumpLimit {
		raw = raw[:rt.dumpLimit]
	}

	return string(rt.masker.Mask(raw))
}
