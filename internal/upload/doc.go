// Package upload sends image bytes to the Gyazo upload API and returns the
// hosted image URL.
//
// Each call makes a single attempt. There are no retries at the HTTP or
// transport level, and a missing token fails before any network activity.
package upload
