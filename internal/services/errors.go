// Package services defines the business logic for review analysis and the
// dashboard aggregates. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

var (
	// ErrEmptyReview is returned when a submission contains no review text.
	ErrEmptyReview = errors.New("review text is empty")

	// ErrTooLong is returned when a review exceeds the configured maximum
	// length limit.
	ErrTooLong = errors.New("review text too long")

	// ErrDuplicateUpload is returned when a bulk upload carries an
	// Idempotency-Key that has already been processed.
	ErrDuplicateUpload = errors.New("upload already processed")

	// ErrEmptyAspect is returned when an aspect query token is blank after
	// trimming.
	ErrEmptyAspect = errors.New("aspect token is empty")

	// ErrNoData indicates an aspect token matched zero reviews. Callers must
	// render "no data found" rather than computing a score.
	ErrNoData = errors.New("no data for aspect")
)
