package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// NewJPEG re-encodes JPEG images at the configured quality, optionally
// downscaling them to fit maxWidth x maxHeight.
//
// Options: quality (1-100), maxWidth, maxHeight (0 = unbounded).
func NewJPEG(opts Options) Backend {
	quality, err := opts.Int("quality", 80)
	if err != nil {
		return Fail(fmt.Errorf("jpeg: %w", err))
	}
	if quality < 1 || quality > 100 {
		return Fail(fmt.Errorf("jpeg: quality %d out of range 1-100", quality))
	}
	bounds, err := readBounds(opts)
	if err != nil {
		return Fail(fmt.Errorf("jpeg: %w", err))
	}

	return Func(func(ctx context.Context, data []byte) ([]byte, error) {
		if !IsJPEG(data) {
			return data, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("jpeg: decode: %w", err)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, bounds.fit(img), &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("jpeg: encode: %w", err)
		}
		return buf.Bytes(), nil
	})
}

var pngLevels = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"speed":   png.BestSpeed,
	"best":    png.BestCompression,
}

// NewPNG re-encodes PNG images, which drops ancillary chunks (text, EXIF, ...).
//
// Options: compressionLevel (default|none|speed|best), maxWidth, maxHeight.
func NewPNG(opts Options) Backend {
	name, err := opts.String("compressionLevel", "best")
	if err != nil {
		return Fail(fmt.Errorf("png: %w", err))
	}
	level, ok := pngLevels[name]
	if !ok {
		return Fail(fmt.Errorf("png: unknown compressionLevel %q", name))
	}
	bounds, err := readBounds(opts)
	if err != nil {
		return Fail(fmt.Errorf("png: %w", err))
	}
	enc := &png.Encoder{CompressionLevel: level}

	return Func(func(ctx context.Context, data []byte) ([]byte, error) {
		if !IsPNG(data) {
			return data, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("png: decode: %w", err)
		}

		var buf bytes.Buffer
		if err := enc.Encode(&buf, bounds.fit(img)); err != nil {
			return nil, fmt.Errorf("png: encode: %w", err)
		}
		return buf.Bytes(), nil
	})
}

type maxBounds struct {
	width, height int
}

func readBounds(opts Options) (maxBounds, error) {
	w, err := opts.Int("maxWidth", 0)
	if err != nil {
		return maxBounds{}, err
	}
	h, err := opts.Int("maxHeight", 0)
	if err != nil {
		return maxBounds{}, err
	}
	return maxBounds{width: w, height: h}, nil
}

// fit scales img down to the bounds keeping its aspect ratio.
// Images already within bounds are returned as is.
func (m maxBounds) fit(img image.Image) image.Image {
	if m.width <= 0 && m.height <= 0 {
		return img
	}

	src := img.Bounds()
	width, height := src.Dx(), src.Dy()
	maxWidth, maxHeight := m.width, m.height
	if maxWidth <= 0 {
		maxWidth = width
	}
	if maxHeight <= 0 {
		maxHeight = height
	}
	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		width = int(float64(maxHeight) * ratio)
		height = maxHeight
	} else {
		height = int(float64(maxWidth) / ratio)
		width = maxWidth
	}
	width, height = max(width, 1), max(height, 1)

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}
