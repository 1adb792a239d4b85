// Package middleware provides the HTTP middleware of the share-target server.
//
//   - CORS: lets browser share sheets post from any origin
//   - RateLimit: per-IP token bucket, idle clients are dropped
//   - GlobalRateLimit: one bucket for the whole server
//   - RequestLogger: request IDs and one structured log line per request
//
// Example Usage:
//
//	router.Use(middleware.RequestLogger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
