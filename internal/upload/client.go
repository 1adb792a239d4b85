package upload

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

// DefaultEndpoint is the Gyazo upload API.
const DefaultEndpoint = "https://upload.gyazo.com/api/upload"

const (
	tokenField    = "access_token"
	imageField    = "imagedata"
	imageFilename = "image.jpg"
	imageMIME     = "image/jpeg"
)

// Uploader uploads one image and returns its hosted URL.
type Uploader interface {
	Upload(ctx context.Context, token string, image []byte) (string, error)
}

// Options configures the client.
type Options struct {
	Endpoint  string
	Timeout   time.Duration // 0 means no client-side timeout
	UserAgent string
	// RequestsPerSecond caps outbound uploads across invocations sharing the
	// client. 0 means unlimited.
	RequestsPerSecond float64
}

// Client is a single-attempt Gyazo client.
type Client struct {
	resty    *resty.Client
	limiter  *rate.Limiter
	endpoint string
}

type uploadResponse struct {
	URL          string `json:"url"`
	ImageID      string `json:"image_id"`
	PermalinkURL string `json:"permalink_url"`
}

// NewClient creates a client. Requests go through a retryablehttp client
// with RetryMax 0, and resty's own retry count is 0, so every upload is a
// single attempt. Failed responses are passed through for status reporting.
func NewClient(opts Options) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(opts.Timeout).
		SetRetryCount(0)
	if opts.UserAgent != "" {
		restyClient.SetHeader("User-Agent", opts.UserAgent)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		resty:    restyClient,
		limiter:  rate.NewLimiter(limit, 1),
		endpoint: endpoint,
	}
}

// Endpoint returns the upload URL this client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Upload posts image as multipart form data. An empty token returns
// share.ErrCredentialMissing without touching the network; every other
// failure wraps share.ErrUploadFailure.
func (c *Client) Upload(ctx context.Context, token string, image []byte) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", share.ErrCredentialMissing
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", share.ErrUploadFailure, err)
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{tokenField: token}).
		SetMultipartField(imageField, imageFilename, imageMIME, bytes.NewReader(image)).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", share.ErrUploadFailure, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: unexpected status %d", share.ErrUploadFailure, resp.StatusCode())
	}

	var body uploadResponse
	if err := sonic.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", share.ErrUploadFailure, err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("%w: response has no url", share.ErrUploadFailure)
	}
	return body.URL, nil
}
