// Package imaging decodes shared image bytes, reads capture metadata and
// normalizes the image to JPEG for upload.
//
// Metadata comes from the original bytes, never from the re-encoded JPEG.
// Re-encoding drops EXIF.
package imaging
