package util

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ClassifyError maps a collaborator failure to a category for the run report.
// Returns (retryableNextCycle, category). There are no in-process retries;
// "retryable" means the next hourly pass is expected to succeed without
// operator action.
func ClassifyError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	errStr := err.Error()

	// Malformed provider responses are not transient.
	var synErr *json.SyntaxError
	if errors.As(err, &synErr) {
		return false, "json_decode_error"
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return false, "json_decode_error"
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return false, "not_found"
	}
	if strings.Contains(errStr, "duplicate key") {
		return false, "duplicate_key"
	}
	if strings.Contains(errStr, "connection") {
		return true, "db_connection_error"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true, "network_timeout"
		}
		return true, "network_error"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true, "network_timeout"
		}
		return true, "network_error"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true, "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return false, "context_canceled"
	}

	// Provider 5xx responses are transient; 4xx usually means bad
	// credentials or prompt and will not fix itself.
	if strings.Contains(errStr, "status 5") {
		return true, "provider_unavailable"
	}
	if strings.Contains(errStr, "status 429") {
		return true, "provider_rate_limited"
	}
	if strings.Contains(errStr, "status 4") {
		return false, "provider_rejected"
	}

	return false, "unknown_error"
}
