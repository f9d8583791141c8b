package polymarket

import "fmt"

// RemoteUnavailableError reports that the catalog could not be fetched after
// exhausting the retry budget. The condition is transient; a later call may
// succeed.
type RemoteUnavailableError struct {
	Attempts int
	Cause    error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("polymarket unavailable after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError reports a response body that does not match the
// Gamma API contract at the batch level. Not retried automatically: the
// remote contract itself is violated, so repeating the request would not help.
type MalformedResponseError struct {
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed polymarket response: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
