package polymarket

import (
	"net/http"
	"strconv"
	"time"
)

// retryDelay returns how long to wait before re-issuing a failed request.
// attempt is zero-based, so the exponential schedule is base, 2·base, 4·base...
// A positive retryAfter (taken from a 429 Retry-After header) overrides the
// schedule for that attempt.
func retryDelay(base time.Duration, attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return retryAfter
	}
	if attempt < 0 {
		attempt = 0
	}
	return base << uint(attempt)
}

// retryableStatus reports whether an HTTP status code indicates a transient
// failure worth retrying. 429 and all 5xx qualify; other non-2xx codes are
// terminal because the request itself is being rejected.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// parseRetryAfter interprets a Retry-After header value, which may be either
// a number of seconds or an HTTP date. Returns 0 when the header is absent or
// unparseable, so callers fall back to the exponential schedule.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
