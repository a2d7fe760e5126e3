package xhttp

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	XForwardedFor    = "X-Forwarded-For"
	XContentTypeOpts = "X-Content-Type-Options"
	XFrameOpts       = "X-Frame-Options"
	ReferrerPolicy   = "Referrer-Policy"
	XRequestID       = "X-Request-ID"
	XRateLimitReason = "X-RateLimit-Reason"
	XCache           = "X-Cache"
)

const (
	ContentType     = "Content-Type"
	ContentEncoding = "Content-Encoding"
	ContentLength   = "Content-Length"
	AcceptEncoding  = "Accept-Encoding"
	Vary            = "Vary"
	Authorization   = "Authorization"
	UserAgent       = "User-Agent"
	Accept          = "Accept"
	Location        = "Location"
	CacheControl    = "Cache-Control"
	WWWAuthenticate = "WWW-Authenticate"

	ContentSecurityPolicy = "Content-Security-Policy"
)

const applicationJSON = "application/json"

const bearerPrefix = "Bearer "

func SetHeaderRequestID(w http.ResponseWriter, requestID string) {
	w.Header().Set(XRequestID, requestID)
}

func SetHeaderContentTypeApplicationJSON(w http.ResponseWriter) {
	w.Header().Set(ContentType, applicationJSON)
}

func SetHeaderRetryAfter(w http.ResponseWriter, retryAfter time.Duration) {
	const retryAfterHeader = "Retry-After"
	retryAfterSeconds := int(retryAfter.Seconds())
	w.Header().Set(retryAfterHeader, fmt.Sprintf("%d", retryAfterSeconds))
}

// SetHeaderCache reports whether a response was served from cache.
func SetHeaderCache(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(XCache, "HIT")
		return
	}
	w.Header().Set(XCache, "MISS")
}

// GetRequestHeaderAPIKey returns the API key sent as a bearer token.
func GetRequestHeaderAPIKey(r *http.Request) string {
	auth := r.Header.Get(Authorization)
	if len(auth) <= len(bearerPrefix) || !strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(bearerPrefix):])
}

func SetRequestHeaderBearer(req *http.Request, token string) {
	req.Header.Set(Authorization, bearerPrefix+token)
}
