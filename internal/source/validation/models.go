package validation

import "fmt"

const (
	StatsPath    = "/api/dashboard/stats"
	ActivityPath = "/api/dashboard/activity"
	UploadPath   = "/api/upload"
)

// StatusError is returned for any non-2xx response. The body is kept as
// received so callers can surface the server's own message.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}
