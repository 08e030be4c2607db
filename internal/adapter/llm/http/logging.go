package http

import (
	"fmt"
	"regexp"
)

// MaxLoggedResponseLength caps how much provider response text reaches the
// logs, so source code and secrets never land in log aggregators wholesale.
const MaxLoggedResponseLength = 200

// TruncateForLogging safely truncates a response string for logging.
func TruncateForLogging(response string) string {
	if len(response) <= MaxLoggedResponseLength {
		return response
	}
	return response[:MaxLoggedResponseLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(response))
}

var secretParamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(api-key=)[^&"\s]+`),
	regexp.MustCompile(`(api_key=)[^&"\s]+`),
	regexp.MustCompile(`(apiKey=)[^&"\s]+`),
	regexp.MustCompile(`(key=)[^&"\s]+`),
	regexp.MustCompile(`(token=)[^&"\s]+`),
	regexp.MustCompile(`(access_token=)[^&"\s]+`),
}

// RedactURLSecrets redacts API keys and tokens appearing as URL query
// parameters in error messages before they are logged.
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}
	for _, re := range secretParamPatterns {
		text = re.ReplaceAllString(text, "${1}[REDACTED]")
	}
	return text
}
