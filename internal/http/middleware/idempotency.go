// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for review batch uploads. Bulk CSV
// ingestion is an unsafe, expensive operation: a retried upload would classify
// and insert the same rows twice. Clients therefore send an Idempotency-Key
// header with each upload; the middleware validates it, optionally performs a
// lookup to detect previously completed uploads, and annotates the request
// context so downstream handlers can:
//   - read the normalized key (GetIdempotencyKey)
//   - read the client identity (GetClientID)
//   - detect replayed uploads (IsReplay)
//   - bypass rate limiting when a replay is served (via an internal flag)
//
// Transport concerns (validation, context stashing) stay here; persistence is
// decoupled behind the narrow UploadLookup function type.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header clients use to convey an
// idempotency key for batch uploads. The value is expected to be stable for a
// given file so that retries can be safely deduplicated.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderClientID identifies the uploading client. Receipts are scoped per
// client so two tenants reusing the same key do not collide.
const HeaderClientID = "X-Client-ID"

// DefaultClientID is used when no X-Client-ID header is present. Single-tenant
// deployments can ignore the header entirely.
const DefaultClientID = "default"

// Context keys used internally to stash idempotency state.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // bool: true when a stored receipt exists
	ctxKeyRateBypass = "rate.bypass" // bool: true to skip rate limiting
)

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context by UploadIdempotency. The second return value indicates presence.
//
// Handlers should prefer this function over reading the header directly.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// GetClientID returns the client identity for the request, falling back to
// DefaultClientID when the header is absent or blank.
func GetClientID(c *gin.Context) string {
	if s := c.GetHeader(HeaderClientID); s != "" {
		return s
	}
	return DefaultClientID
}

// IsReplay reports whether the middleware detected that this request would
// replay a previously completed upload for the same (client, key) pair.
//
// When true, handlers may short-circuit and report the duplicate without
// re-running classification.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// UploadIdempotencyOptions configures header validation for UploadIdempotency.
// Receipt TTL enforcement lives inside the provided lookup, not here.
type UploadIdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative RFC7230-like
	// token pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// UploadLookup answers whether a still-valid upload receipt exists for
// (clientID, key) at the given time. Implementations typically consult the
// upload_receipts table and honor its expiry window.
//
// Return exists=true when the prior upload should be treated as a replay;
// return an error only for lookup failures (which must not block processing).
type UploadLookup func(ctx context.Context, clientID, key string, now time.Time) (exists bool, err error)

// UploadIdempotency validates the Idempotency-Key header (if present), stashes
// it in the request context, and optionally checks for a prior completed
// upload via the supplied lookup. When a replay is detected it marks the
// context so downstream components can detect it via IsReplay and skip rate
// limiting.
//
// Behavior:
//   - If the header is absent: the middleware is a no-op (uploads without a
//     key are processed unconditionally).
//   - If the header fails validation: responds 400 with a compact error body.
//   - If lookup indicates a replay: sets replay + rate-bypass flags.
//   - Always invokes the next handler unless validation fails.
//
// The middleware does not itself write the duplicate response; handlers remain
// in control of how replays are reported.
func UploadIdempotency(opts UploadIdempotencyOptions, lookup UploadLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		// RFC-7230-ish token + common safe chars.
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_idempotency_key",
				"message": "invalid Idempotency-Key",
			})
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			now := time.Now().UTC()
			if exists, _ := lookup(c.Request.Context(), GetClientID(c), key, now); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
