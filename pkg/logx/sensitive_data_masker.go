package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	// Headers.
	regexp.MustCompile("(?s)(Authorization: Bearer ).+?(\r)"),
	// Telegram bot tokens travel inside the URL path.
	regexp.MustCompile(`(/bot)\d+:[\w-]+(/)`),
	// Query parameters.
	regexp.MustCompile(`([?&]access_token=)[^&\s]+()`),
	regexp.MustCompile(`([?&]client_secret=)[^&\s]+()`),
	regexp.MustCompile(`([?&]refresh_token=)[^&\s]+()`),
	// JSON fields.
	regexp.MustCompile(`(?s)("[Pp]assword":\s?").+?(")`),
	regexp.MustCompile(`(?s)("access_?[Tt]oken":\s?").+?(")`),
	regexp.MustCompile(`(?s)("refresh_?[Tt]oken":\s?").+?(")`),
	regexp.MustCompile(`(?s)("client_secret":\s?").+?(")`),
	regexp.MustCompile(`(?s)("bot_token":\s?").+?(")`),
	regexp.MustCompile(`(?s)("pa_api_secret":\s?").+?(")`),
	regexp.MustCompile(`(?s)("token":\s?").+?(")`),
}

type SensitiveDataMasker struct{}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
