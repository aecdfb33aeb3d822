package httpclient

import "fmt"

// maxBodyInError bounds how much of an upstream body Error reports.
const maxBodyInError = 256

// UpstreamError represents an error returned by an upstream service
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, e.URL)
	if len(e.Body) == 0 {
		return msg
	}
	body := e.Body
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError]
	}
	return msg + ": " + string(body)
}
