// Package imaging is the pure image compression pipeline: it turns an
// arbitrary user-supplied image into a bounded-size compressed variant plus a
// small fixed thumbnail. It performs no I/O; callers persist the result.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	// Register decoders for the input formats users actually upload.
	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format names the requested output encoding.
type Format string

const (
	// FormatJPEG encodes output as JPEG.
	FormatJPEG Format = "jpeg"
	// FormatWebP is accepted for compatibility with stored preferences, but
	// no WebP encoder is available, so output falls back to JPEG.
	FormatWebP Format = "webp"
)

// Defaults for Options zero values.
const (
	DefaultMaxWidth  = 1200
	DefaultMaxHeight = 1200
	DefaultQuality   = 0.75
	DefaultMaxSizeKB = 500
	DefaultThumbSize = 200
)

// Budget-seeking loop parameters. The loop starts high and walks down in
// fixed steps; at the floor the result is accepted even if still over budget
// (the accept-best-effort-on-floor policy, reported via Result.FloorReached).
const (
	startQuality = 0.9
	qualityStep  = 0.1
	qualityFloor = 0.1
	thumbQuality = 0.6
)

// Options configures a compression run. Zero values take the defaults above.
type Options struct {
	MaxWidth  int
	MaxHeight int
	// Quality is the encode quality used when no size budget applies
	// (MaxSizeKB < 0). With a budget, the seeking loop controls quality.
	Quality   float64
	MaxSizeKB int // <0 disables the budget; 0 means DefaultMaxSizeKB
	Format    Format
	ThumbSize int
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = DefaultQuality
	}
	if o.MaxSizeKB == 0 {
		o.MaxSizeKB = DefaultMaxSizeKB
	}
	if o.Format == "" {
		o.Format = FormatWebP
	}
	if o.ThumbSize <= 0 {
		o.ThumbSize = DefaultThumbSize
	}
	return o
}

// Result is the output of one compression run.
type Result struct {
	Data         []byte
	Thumbnail    []byte
	Width        int
	Height       int
	OriginalSize int64
	// CompressedSize duplicates len(Data) for storage budgeting.
	CompressedSize int64
	// Ratio is (original - compressed) / original; negative when the encoder
	// could not beat the input.
	Ratio float64
	// Quality is the final encode quality in [0.1, 1.0].
	Quality float64
	// FloorReached reports that the budget loop exited at the quality floor
	// with the result still over budget and accepted as best effort.
	FloorReached bool
	MimeType     string
}

// Compress decodes raw, scales it into the configured bounding box preserving
// aspect ratio, and encodes it within the byte budget, walking quality down
// from 0.9 in 0.1 steps to the 0.1 floor. The thumbnail is produced
// independently at a fixed low quality and never participates in the budget
// loop. A decode failure fails the whole operation; no partial output is
// returned.
func Compress(raw []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight)

	scaled := src
	if w != bounds.Dx() || h != bounds.Dy() {
		scaled = resize.Resize(uint(w), uint(h), src, resize.Lanczos3)
	}

	data, quality, floorReached, err := encodeWithinBudget(scaled, opts)
	if err != nil {
		return nil, err
	}

	thumb := resize.Thumbnail(uint(opts.ThumbSize), uint(opts.ThumbSize), src, resize.Lanczos3)
	thumbData, err := encodeJPEG(thumb, thumbQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	originalSize := int64(len(raw))
	compressedSize := int64(len(data))

	return &Result{
		Data:           data,
		Thumbnail:      thumbData,
		Width:          w,
		Height:         h,
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
		Ratio:          float64(originalSize-compressedSize) / float64(originalSize),
		Quality:        quality,
		FloorReached:   floorReached,
		MimeType:       "image/jpeg",
	}, nil
}

// fitWithin computes target dimensions preserving aspect ratio, capped at the
// bounding box. Images already inside the box keep their size.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	tw := int(math.Round(float64(w) * scale))
	th := int(math.Round(float64(h) * scale))
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th
}

func encodeWithinBudget(img image.Image, opts Options) (data []byte, quality float64, floorReached bool, err error) {
	if opts.MaxSizeKB < 0 {
		// Budget disabled; single-shot encode at the configured quality.
		data, err = encodeJPEG(img, opts.Quality)
		return data, opts.Quality, false, err
	}

	budget := opts.MaxSizeKB * 1024
	quality = startQuality
	for {
		data, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, 0, false, err
		}
		if len(data) <= budget {
			return data, quality, false, nil
		}
		next := quality - qualityStep
		if next < qualityFloor-1e-9 {
			return data, quality, true, nil
		}
		quality = next
	}
}

func encodeJPEG(img image.Image, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	q := int(math.Round(quality * 100))
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
