package snooze

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
)

type APIError struct {
	StatusCode int
	Message    string
	// Fields holds per-field validation messages on 422 responses.
	Fields     map[string]string
	RetryAfter time.Duration
	// RequestID echoes the server's request id for log correlation.
	RequestID string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("snooze api: %d %s", e.StatusCode, e.Message)
	if len(e.Fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

func IsGone(err error) bool { return hasStatus(err, http.StatusGone) }

func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var errResp struct {
		Message   string            `json:"message"`
		Fields    map[string]string `json:"fields"`
		RequestID string            `json:"request_id"`
	}
	if err := go_json.Unmarshal(body, &errResp); err != nil {
		if len(body) > 0 {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if errResp.Message != "" {
		apiErr.Message = errResp.Message
	}
	apiErr.Fields = errResp.Fields
	apiErr.RequestID = errResp.RequestID
	return apiErr
}
