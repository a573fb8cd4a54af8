package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/recipekeeper/internal/common"
)

// APIError is a non-2xx answer of the backend. Message is the server's own
// text (detail, error, or flattened field errors) and is meant to be shown
// to the user as is.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func statusSentinel(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return common.ErrValidation
	case status == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case status == http.StatusForbidden:
		return common.ErrPermissionDenied
	case status == http.StatusNotFound:
		return common.ErrNotFound
	case status >= http.StatusInternalServerError:
		return common.ErrUnavailable
	default:
		return nil
	}
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		Status:  status,
		Message: serverMessage(body),
		Err:     statusSentinel(status),
	}
}

// serverMessage extracts a human-readable message from an error body.
// Recognised shapes: {"detail": ...}, {"error": ...}, field error maps
// ({"email": ["..."]}) and plain text.
func serverMessage(body []byte) string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		var list []any
		if json.Unmarshal(body, &list) == nil {
			return joinMessages(list)
		}
		return truncate(string(body), maxPlainMessage)
	}

	for _, key := range []string{"detail", "error"} {
		if v, ok := payload[key]; ok {
			return messageOf(v)
		}
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		msg := messageOf(payload[k])
		if k == "non_field_errors" {
			parts = append(parts, msg)
			continue
		}
		parts = append(parts, k+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func messageOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		return joinMessages(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func joinMessages(list []any) string {
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, messageOf(item))
	}
	return strings.Join(parts, " ")
}

// maxPlainMessage caps a non-JSON error body shown to the user, in bytes.
const maxPlainMessage = 200

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
