package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"slices"
)

// NewGIF re-encodes GIF images.
//
// Options: optimizationLevel. 0 passes the input through, 1 re-encodes every
// frame, 2 and above also merge identical consecutive frames into one frame
// with the summed delay. The smaller of input and output is returned.
func NewGIF(opts Options) Backend {
	level, err := opts.Int("optimizationLevel", 3)
	if err != nil {
		return Fail(fmt.Errorf("gif: %w", err))
	}

	return Func(func(ctx context.Context, data []byte) ([]byte, error) {
		if level <= 0 || !IsGIF(data) {
			return data, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gif: decode: %w", err)
		}
		if level >= 2 {
			mergeFrames(g)
		}

		var buf bytes.Buffer
		if err := gif.EncodeAll(&buf, g); err != nil {
			return nil, fmt.Errorf("gif: encode: %w", err)
		}
		if buf.Len() >= len(data) {
			return data, nil
		}
		return buf.Bytes(), nil
	})
}

func mergeFrames(g *gif.GIF) {
	if len(g.Image) < 2 || len(g.Delay) != len(g.Image) {
		return
	}
	hasDisposal := len(g.Disposal) == len(g.Image)

	for i := 1; i < len(g.Image); {
		prev, cur := g.Image[i-1], g.Image[i]
		if !sameFrame(prev, cur) || (hasDisposal && g.Disposal[i-1] != g.Disposal[i]) {
			i++
			continue
		}
		g.Delay[i-1] += g.Delay[i]
		g.Image = slices.Delete(g.Image, i, i+1)
		g.Delay = slices.Delete(g.Delay, i, i+1)
		if hasDisposal {
			g.Disposal = slices.Delete(g.Disposal, i, i+1)
		}
	}
}

func sameFrame(a, b *image.Paletted) bool {
	return a.Rect == b.Rect && a.Stride == b.Stride &&
		bytes.Equal(a.Pix, b.Pix) && samePalette(a.Palette, b.Palette)
}

func samePalette(a, b color.Palette) bool {
	return slices.EqualFunc(a, b, func(x, y color.Color) bool {
		xr, xg, xb, xa := x.RGBA()
		yr, yg, yb, ya := y.RGBA()
		return xr == yr && xg == yg && xb == yb && xa == ya
	})
}
