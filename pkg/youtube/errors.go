package youtube

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Define static errors
var (
	// ErrQuotaExceeded marks source failures the degradation policy may
	// recover from.
	ErrQuotaExceeded = errors.New("source quota exceeded")
	// ErrUnavailable marks any other upstream failure; it propagates.
	ErrUnavailable = errors.New("source unavailable")
	// ErrNoChannel is returned when the caller has no channel.
	ErrNoChannel = errors.New("no channel found")
)

// apiErrorBody is the structured error envelope of the Data API.
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Domain  string `json:"domain"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// quotaReasons are the API's structured markers for exhausted quota. The
// classification keys off these, never off message text.
var quotaReasons = map[string]struct{}{
	"quotaExceeded":      {},
	"dailyLimitExceeded": {},
	"rateLimitExceeded":  {},
}

// classifyError turns a non-2xx API response body into a typed error.
func classifyError(statusCode int, body []byte) error {
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, item := range envelope.Error.Errors {
			if _, ok := quotaReasons[item.Reason]; ok {
				return fmt.Errorf("%w: %s", ErrQuotaExceeded, envelope.Error.Message)
			}
		}
		if envelope.Error.Message != "" {
			return fmt.Errorf("%w: api error %d: %s", ErrUnavailable, envelope.Error.Code, envelope.Error.Message)
		}
	}

	return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, statusCode)
}
