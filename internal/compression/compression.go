// Package compression produces precompressed variants of emitted assets so
// static file servers can answer Accept-Encoding without compressing on the fly.
package compression

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Formats.
const (
	Gzip = "gzip"
	Zstd = "zstd"
)

// Inputs below this size are never worth a sidecar file.
const minSize = 128

// Variant is one compressed copy of an asset.
type Variant struct {
	Format string
	Ext    string
	Data   []byte
}

// Valid reports whether format is supported.
func Valid(format string) bool {
	return format == Gzip || format == Zstd
}

type Compressor struct {
	formats []string
	encoder *zstd.Encoder
}

// New creates a compressor producing the given formats, in order.
// With no formats it produces nothing.
func New(formats []string) (*Compressor, error) {
	c := &Compressor{}
	for _, f := range formats {
		switch f {
		case Gzip:
		case Zstd:
			if c.encoder == nil {
				encoder, err := zstd.NewWriter(nil,
					zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
				)
				if err != nil {
					return nil, err
				}
				c.encoder = encoder
			}
		default:
			return nil, fmt.Errorf("unknown precompress format %q", f)
		}
		c.formats = append(c.formats, f)
	}
	return c, nil
}

func (c *Compressor) Enabled() bool { return len(c.formats) > 0 }

// Variants returns the compressed copies of data that are smaller than data.
func (c *Compressor) Variants(data []byte) ([]Variant, error) {
	if !c.Enabled() || len(data) < minSize {
		return nil, nil
	}

	var out []Variant
	for _, f := range c.formats {
		var (
			v   Variant
			err error
		)
		switch f {
		case Gzip:
			v.Data, err = gzipBytes(data)
			v.Ext = ".gz"
		case Zstd:
			v.Data = c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
			v.Ext = ".zst"
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		if len(v.Data) >= len(data) {
			continue
		}
		v.Format = f
		out = append(out, v)
	}
	return out, nil
}

func (c *Compressor) Close() error {
	if c.encoder != nil {
		return c.encoder.Close()
	}
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
