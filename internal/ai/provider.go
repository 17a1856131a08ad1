package ai

import (
	"strconv"
	"time"

	"github.com/amishk599/atsmatch/internal/model"
)

// Ensure GeminiProvider implements model.Generator.
var _ model.Generator = (*GeminiProvider)(nil)

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
