// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, not_found, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (e.g., prediction_unavailable, no_data) are reserved
//     for business logic errors that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "duplicate_upload",
//	  "message": "this file was already processed"
//	}
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeEmptyReview           = "empty_review"
	ErrCodeReviewTooLong         = "review_too_long"
	ErrCodeMissingColumns        = "missing_columns"
	ErrCodeTooManyRows           = "too_many_rows"
	ErrCodeDuplicateUpload       = "duplicate_upload"
	ErrCodeEmptyAspect           = "empty_aspect"
	ErrCodeNoData                = "no_data"
	ErrCodePredictionUnavailable = "prediction_unavailable"
	ErrCodeListFailed            = "list_failed"
	ErrCodeMethodNotAllowed      = "method_not_allowed"
)
