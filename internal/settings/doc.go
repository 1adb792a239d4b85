// Package settings reads the key/value store shared between the share
// extension and its host application.
//
// The pipeline only ever sees the read-only Getter. FileStore additionally
// supports Set and Save for the settings command, which stands in for the
// host application's settings screen.
//
// Recognized keys:
//   - ProjectName: target project on the page host
//   - GyazoToken: access token for image uploads
package settings
