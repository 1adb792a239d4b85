package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

const defaultJPEGQuality = 90

// Options tunes normalization.
type Options struct {
	JPEGQuality int // 1-100, 0 means 90
	MaxWidth    int // 0 keeps the original width
	MaxPixels   int // width*height cap checked before decoding, 0 disables
}

// Result is a processed image ready for upload.
type Result struct {
	Bytes    []byte
	Metadata Metadata
	Format   string // decoder that recognized the input
	// Normalized is false when re-encoding failed and Bytes are the original.
	Normalized bool
}

// Processor decodes and normalizes images.
type Processor struct {
	quality   int
	maxWidth  int
	maxPixels int
}

// NewProcessor creates a processor.
func NewProcessor(opts Options) *Processor {
	q := opts.JPEGQuality
	if q <= 0 || q > 100 {
		q = defaultJPEGQuality
	}
	w := opts.MaxWidth
	if w < 0 {
		w = 0
	}
	px := opts.MaxPixels
	if px < 0 {
		px = 0
	}
	return &Processor{quality: q, maxWidth: w, maxPixels: px}
}

// Process decodes data, extracts its metadata and re-encodes it as JPEG.
// Bytes no registered decoder understands fail with share.ErrDecode. A
// failed re-encode is not an error: the original bytes are forwarded.
// Images whose header declares more than MaxPixels are refused before any
// pixel buffer is allocated.
func (p *Processor) Process(data []byte) (Result, error) {
	if err := p.checkDimensions(data); err != nil {
		return Result{}, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", share.ErrDecode, err)
	}

	res := Result{
		Metadata: ExtractMetadata(data),
		Format:   format,
	}

	img = p.fit(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		res.Bytes = data
		return res, nil
	}
	res.Bytes = buf.Bytes()
	res.Normalized = true
	return res, nil
}

func (p *Processor) checkDimensions(data []byte) error {
	if p.maxPixels == 0 {
		return nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", share.ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty image %dx%d", share.ErrDecode, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(p.maxPixels) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", share.ErrDecode, cfg.Width, cfg.Height, p.maxPixels)
	}
	return nil
}

// fit scales img down to the configured max width, keeping aspect ratio.
func (p *Processor) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if p.maxWidth == 0 || w <= p.maxWidth {
		return img
	}

	newH := h * p.maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, p.maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
