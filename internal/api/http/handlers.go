package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ShareBridge/internal/api/middleware"
	"github.com/GriffinCanCode/ShareBridge/internal/callback"
	"github.com/GriffinCanCode/ShareBridge/internal/host"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ShareBridge/internal/pipeline"
	"github.com/GriffinCanCode/ShareBridge/internal/settings"
	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

const (
	// DefaultMaxBody bounds a share request, media included.
	DefaultMaxBody int64 = 32 << 20
	multipartMemory int64 = 8 << 20
)

// Runner runs one share invocation. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, h callback.Host, store settings.Getter, payload share.Payload) pipeline.Result
}

// StoreLoader reads the settings store. It is called once per request so
// edits made with the settings command apply without a restart.
type StoreLoader func() (settings.Getter, error)

// Options wires Handlers.
type Options struct {
	Runner Runner
	Store  StoreLoader
	// LocalOpen opens links on the server's desktop for clients that
	// cannot follow a redirect. Nil disables it.
	LocalOpen func(string) error
	MaxBody   int64
	Logger    *logging.Logger
}

// Handlers serves the share-target API.
type Handlers struct {
	runner    Runner
	store     StoreLoader
	localOpen func(string) error
	maxBody   int64
	logger    *logging.Logger
	started   time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(opts Options) *Handlers {
	h := &Handlers{
		runner:    opts.Runner,
		store:     opts.Store,
		localOpen: opts.LocalOpen,
		maxBody:   opts.MaxBody,
		logger:    opts.Logger,
		started:   time.Now(),
	}
	if h.maxBody <= 0 {
		h.maxBody = DefaultMaxBody
	}
	if h.logger == nil {
		h.logger = logging.NewNop()
	}
	if h.store == nil {
		h.store = func() (settings.Getter, error) { return settings.Static{}, nil }
	}
	return h
}

// Register mounts the share-target routes.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/share", h.Share)
}

// Root describes the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "sharebridge",
		"endpoints": gin.H{
			"share":   "POST /share",
			"health":  "GET /health",
			"metrics": "GET /metrics",
		},
	})
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Share handles a share-target submission. Fields follow the Web Share
// Target convention: title, text, url and media files.
func (h *Handlers) Share(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)

	payload, err := h.payloadFrom(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "share request too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid share request format"})
		return
	}

	log := h.logger.ForRequest(c.GetString(middleware.RequestIDKey))

	store, err := h.store()
	if err != nil {
		log.Warn("settings store unreadable, using defaults", zap.Error(err))
		store = settings.Static{}
	}

	web := host.NewWeb(c, host.WebOptions{LocalOpen: h.localOpen, Logger: log})
	res := h.runner.Run(c.Request.Context(), web, store, payload)
	if web.Redirected() {
		return
	}

	c.JSON(statusFor(res), res.Summary())
}

// payloadFrom maps form fields onto a share payload. The title becomes the
// content text; url, text and every media file become attachments.
func (h *Handlers) payloadFrom(c *gin.Context) (share.Payload, error) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return share.Payload{}, err
	}

	payload := share.Payload{ContentText: c.PostForm("title")}
	if raw := strings.TrimSpace(c.PostForm("url")); raw != "" {
		payload.Attachments = append(payload.Attachments, share.URLAttachment(raw))
	}
	if text := c.PostForm("text"); strings.TrimSpace(text) != "" {
		payload.Attachments = append(payload.Attachments, share.TextAttachment(text))
	}

	if form := c.Request.MultipartForm; form != nil {
		for _, fh := range form.File["media"] {
			data, err := readPart(fh)
			if err != nil {
				return share.Payload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
			}
			payload.Attachments = append(payload.Attachments, share.BytesAttachment(fh.Filename, data))
		}
	}
	return payload, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// statusFor maps a result onto an HTTP status. A delivery failure still
// answers 200: the page reference was built and the client gets the deep
// link to open itself.
func statusFor(res pipeline.Result) int {
	switch {
	case res.Err == nil:
		return http.StatusOK
	case errors.Is(res.Err, share.ErrDeliveryFailure):
		return http.StatusOK
	case errors.Is(res.Err, share.ErrCredentialMissing):
		return http.StatusPreconditionFailed
	case errors.Is(res.Err, share.ErrUploadFailure):
		return http.StatusBadGateway
	case errors.Is(res.Err, share.ErrCallbackBuild):
		return http.StatusInternalServerError
	case errors.Is(res.Err, share.ErrClassification),
		errors.Is(res.Err, share.ErrExtraction),
		errors.Is(res.Err, share.ErrDecode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

