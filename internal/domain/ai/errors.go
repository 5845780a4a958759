package ai

import "errors"

// ErrDisabled indicates no AI credential is configured; the summary path
// is not offered at all in that case.
var ErrDisabled = errors.New("ai summaries disabled: no api key configured")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error
// (HTTP 429/402 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrInFlight indicates a summary for the same report is already being
// generated; callers must not dispatch a duplicate call.
var ErrInFlight = errors.New("ai summary generation already in progress")
