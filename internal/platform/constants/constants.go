// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Discussion: Sort keys and paging defaults for the review thread.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "pagetalk-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// Mutations refetch the whole thread before responding, so this covers
	// up to three upstream round trips.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// CatalogRateLimitRPS is the polite ceiling on outbound calls to the
	// public bibliographic API. OpenLibrary asks clients to stay well under
	// their documented limits.
	CatalogRateLimitRPS = 5.0

	// CatalogRateLimitBurst allows short bursts (detail page = one search call).
	CatalogRateLimitBurst = 10
)

// # Session

const (
	// SessionCookieName is the cookie that carries the opaque session ID.
	SessionCookieName = "pagetalk_sid"
)

// # HTTP Headers & Fields

const (
	// HeaderXRequestID is the correlation header echoed back to clients.
	HeaderXRequestID = "X-Request-ID"

	// HeaderXRealIP is set by reverse proxies with the original client IP.
	HeaderXRealIP = "X-Real-IP"

	// HeaderXForwardedFor is the standard proxy chain header.
	HeaderXForwardedFor = "X-Forwarded-For"

	// FieldError is the JSON field carrying the client-safe error message.
	FieldError = "error"

	// FieldCode is the JSON field carrying the machine-readable error code.
	FieldCode = "code"
)

// # Discussion Thread

const (
	// SortLatest orders reviews by creation time, newest first.
	SortLatest = "latest"

	// SortLikes orders reviews by like count, descending.
	SortLikes = "likes"

	// SortReplies orders reviews by reply count, descending.
	SortReplies = "replies"

	// DefaultThreadPageSize is the number of reviews shown per page.
	DefaultThreadPageSize = 5

	// MaxContentLength bounds review and reply bodies.
	MaxContentLength = 5000

	// UnknownAuthor is displayed when no author field survived normalization.
	UnknownAuthor = "Unknown"
)
