package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

const (
	tagModel             = 0x0110
	tagDateTime          = 0x0132
	tagExifIFDPointer    = 0x8769
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004
	tagLensModel         = 0xA434
)

// buildTIFF lays out a little-endian TIFF with ASCII entries in IFD0 and,
// when exifEntries is non-empty, an Exif sub-IFD.
func buildTIFF(ifd0, exifEntries map[uint16]string) []byte {
	le := binary.LittleEndian
	ifdSize := func(n int) int { return 2 + 12*n + 4 }

	n0 := len(ifd0)
	if len(exifEntries) > 0 {
		n0++
	}
	exifOffset := 8 + ifdSize(n0)
	dataOffset := exifOffset
	if len(exifEntries) > 0 {
		dataOffset += ifdSize(len(exifEntries))
	}

	var data []byte
	writeIFD := func(buf []byte, at int, entries map[uint16]string, pointer int) {
		tags := make([]int, 0, len(entries)+1)
		for tag := range entries {
			tags = append(tags, int(tag))
		}
		if pointer > 0 {
			tags = append(tags, tagExifIFDPointer)
		}
		sort.Ints(tags)

		le.PutUint16(buf[at:], uint16(len(tags)))
		pos := at + 2
		for _, tag := range tags {
			le.PutUint16(buf[pos:], uint16(tag))
			if tag == tagExifIFDPointer {
				le.PutUint16(buf[pos+2:], 4) // LONG
				le.PutUint32(buf[pos+4:], 1)
				le.PutUint32(buf[pos+8:], uint32(pointer))
			} else {
				val := append([]byte(entries[uint16(tag)]), 0)
				le.PutUint16(buf[pos+2:], 2) // ASCII
				le.PutUint32(buf[pos+4:], uint32(len(val)))
				if len(val) <= 4 {
					copy(buf[pos+8:pos+12], val)
				} else {
					le.PutUint32(buf[pos+8:], uint32(dataOffset+len(data)))
					data = append(data, val...)
				}
			}
			pos += 12
		}
		le.PutUint32(buf[pos:], 0)
	}

	head := make([]byte, dataOffset)
	copy(head, "II")
	le.PutUint16(head[2:], 42)
	le.PutUint32(head[4:], 8)

	pointer := 0
	if len(exifEntries) > 0 {
		pointer = exifOffset
	}
	writeIFD(head, 8, ifd0, pointer)
	if len(exifEntries) > 0 {
		writeIFD(head, exifOffset, exifEntries, 0)
	}
	return append(head, data...)
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: 120, A: 255})
		}
	}
	return img
}

// jpegWithExif encodes a small JPEG and splices an APP1 Exif segment in
// right after the SOI marker.
func jpegWithExif(t *testing.T, ifd0, exifEntries map[uint16]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(16, 8), &jpeg.Options{Quality: 80}))
	plain := buf.Bytes()

	payload := append([]byte("Exif\x00\x00"), buildTIFF(ifd0, exifEntries)...)
	segment := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(segment[2:], uint16(len(payload)+2))
	segment = append(segment, payload...)

	out := append([]byte{}, plain[:2]...)
	out = append(out, segment...)
	return append(out, plain[2:]...)
}

// pngWithDimensions encodes a 1x1 PNG and rewrites its IHDR to declare
// w x h, fixing up the chunk CRC. The pixel data stays a single pixel.
func pngWithDimensions(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(1, 1)))
	data := buf.Bytes()

	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc after 13 data bytes
	require.Equal(t, "IHDR", string(data[12:16]))
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name string
		ifd0 map[uint16]string
		exif map[uint16]string
		want Metadata
	}{
		{
			name: "original date wins",
			ifd0: map[uint16]string{tagModel: "Canon EOS R5", tagDateTime: "2023:07:20 18:00:00"},
			exif: map[uint16]string{
				tagDateTimeOriginal:  "2023:07:14 09:30:00",
				tagDateTimeDigitized: "2023:07:15 09:30:00",
				tagLensModel:         "RF24-105mm F4 L IS USM",
			},
			want: Metadata{CaptureDate: "2023-07-14", CameraModel: "Canon EOS R5", LensModel: "RF24-105mm F4 L IS USM"},
		},
		{
			name: "digitized when original missing",
			ifd0: map[uint16]string{tagDateTime: "2023:07:20 18:00:00"},
			exif: map[uint16]string{tagDateTimeDigitized: "2023:07:15 09:30:00"},
			want: Metadata{CaptureDate: "2023-07-15"},
		},
		{
			name: "container date last",
			ifd0: map[uint16]string{tagDateTime: "2022:01:02 03:04:05", tagModel: "X1"},
			want: Metadata{CaptureDate: "2022-01-02", CameraModel: "X1"},
		},
		{
			name: "values trimmed of any whitespace",
			ifd0: map[uint16]string{tagModel: "\tModel X\n"},
			exif: map[uint16]string{tagLensModel: " \r\nLens Y\t"},
			want: Metadata{CameraModel: "Model X", LensModel: "Lens Y"},
		},
		{
			name: "lens only",
			ifd0: map[uint16]string{tagModel: "   "},
			exif: map[uint16]string{tagLensModel: "50mm f/1.8"},
			want: Metadata{LensModel: "50mm f/1.8"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := jpegWithExif(t, tt.ifd0, tt.exif)
			assert.Equal(t, tt.want, ExtractMetadata(data))
		})
	}
}

func TestExtractMetadataIsPure(t *testing.T) {
	data := jpegWithExif(t,
		map[uint16]string{tagModel: "Pixel 8"},
		map[uint16]string{tagDateTimeOriginal: "2024:02:29 23:59:59"},
	)
	snapshot := append([]byte{}, data...)

	first := ExtractMetadata(data)
	second := ExtractMetadata(data)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, data)
	assert.Equal(t, "2024-02-29", first.CaptureDate)
}

func TestExtractMetadataWithoutExif(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(4, 4)))

	assert.Equal(t, Metadata{}, ExtractMetadata(buf.Bytes()))
	assert.Equal(t, Metadata{}, ExtractMetadata([]byte("garbage")))
}

func TestProcess(t *testing.T) {
	t.Run("jpeg keeps metadata from original", func(t *testing.T) {
		data := jpegWithExif(t,
			map[uint16]string{tagModel: "Canon EOS R5"},
			map[uint16]string{tagDateTimeOriginal: "2023:07:14 09:30:00"},
		)

		res, err := NewProcessor(Options{}).Process(data)
		require.NoError(t, err)
		assert.True(t, res.Normalized)
		assert.Equal(t, "jpeg", res.Format)
		assert.Equal(t, "2023-07-14", res.Metadata.CaptureDate)

		// the normalized output no longer carries EXIF
		assert.Equal(t, Metadata{}, ExtractMetadata(res.Bytes))
		_, format, err := image.Decode(bytes.NewReader(res.Bytes))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("png becomes jpeg", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, testImage(10, 10)))

		res, err := NewProcessor(Options{JPEGQuality: 50}).Process(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "png", res.Format)
		assert.Equal(t, []byte{0xFF, 0xD8}, res.Bytes[:2])
	})

	t.Run("downscale to max width", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, testImage(100, 50)))

		res, err := NewProcessor(Options{MaxWidth: 40}).Process(buf.Bytes())
		require.NoError(t, err)

		cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Bytes))
		require.NoError(t, err)
		assert.Equal(t, 40, cfg.Width)
		assert.Equal(t, 20, cfg.Height)
	})

	t.Run("declared dimensions over the pixel cap", func(t *testing.T) {
		data := pngWithDimensions(t, 100_000, 100_000)

		_, err := NewProcessor(Options{MaxPixels: 1_000_000}).Process(data)
		assert.ErrorIs(t, err, share.ErrDecode)
		assert.Contains(t, err.Error(), "100000x100000")
	})

	t.Run("within the pixel cap", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, testImage(10, 10)))

		res, err := NewProcessor(Options{MaxPixels: 100}).Process(buf.Bytes())
		require.NoError(t, err)
		assert.True(t, res.Normalized)
	})

	t.Run("undecodable bytes", func(t *testing.T) {
		_, err := NewProcessor(Options{}).Process([]byte("definitely not an image"))
		assert.ErrorIs(t, err, share.ErrDecode)
		assert.Equal(t, "decode", share.KindOf(err))
	})
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2023-07-14", normalizeDate("2023:07:14 09:30:00"))
	assert.Equal(t, "2023-07-14", normalizeDate("2023:07:14"))
	assert.Equal(t, "2023-07", normalizeDate("2023:07"))
}
