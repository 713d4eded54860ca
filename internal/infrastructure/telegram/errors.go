package telegram

import (
	"errors"
	"fmt"
)

// APIError is a structured Telegram Bot API error response.
type APIError struct {
	ErrorCode   int
	Description string

	// RetryAfter is the wait the API demands on 429 responses, in seconds.
	RetryAfter int
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram API error %d: %s (retry_after=%ds)", e.ErrorCode, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram API error %d: %s", e.ErrorCode, e.Description)
}

// IsBotBlocked reports whether the error means the recipient blocked the
// bot. Sends to such chats keep failing until the user unblocks.
func IsBotBlocked(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == 403
	}
	return false
}

// GetRetryAfter extracts the retry_after seconds from a 429 error, 0 for
// anything else.
func GetRetryAfter(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode == 429 {
		return apiErr.RetryAfter
	}
	return 0
}
