package monitoring

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/ShareBridge/internal/upload"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		// route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequest(c.Request.Method, path, status, time.Since(start), reqSize)
	}
}

// UploadObserver wraps an uploader and records the size of every image it
// is asked to send.
type UploadObserver struct {
	Uploader upload.Uploader
	Metrics  *Metrics
}

// Upload implements upload.Uploader.
func (o UploadObserver) Upload(ctx context.Context, token string, image []byte) (string, error) {
	o.Metrics.ObserveUpload(len(image))
	return o.Uploader.Upload(ctx, token, image)
}
