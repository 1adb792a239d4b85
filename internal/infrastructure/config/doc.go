// Package config provides 12-factor configuration for sharebridge.
//
// Configuration is loaded from environment variables with defaults, after an
// optional .env file has been read.
//
// Configuration Sections:
//   - Share: deep link scheme, page base URL, settings store location, fallbacks
//   - Upload: image host endpoint and client timeout
//   - Image: JPEG normalization quality and optional downscale width
//   - Server: share-target HTTP listener
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting for the share target
//
// The project name and upload token are not part of this configuration.
// They live in the shared settings store read by package settings.
package config
