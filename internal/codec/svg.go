package codec

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const maxSVGPasses = 10

// Namespaces written by drawing tools that renderers ignore.
var svgEditorSpaces = map[string]bool{
	"inkscape": true,
	"sodipodi": true,
	"sketch":   true,
}

// Elements whose text content is significant.
var svgKeepSpace = map[string]bool{
	"text":     true,
	"tspan":    true,
	"textPath": true,
	"style":    true,
	"script":   true,
	"title":    true,
	"desc":     true,
}

// Attributes holding numbers or number lists.
var svgNumericAttrs = map[string]bool{
	"d": true, "points": true, "viewBox": true, "transform": true,
	"gradientTransform": true, "patternTransform": true,
	"x": true, "y": true, "x1": true, "y1": true, "x2": true, "y2": true,
	"cx": true, "cy": true, "r": true, "rx": true, "ry": true, "fx": true, "fy": true,
	"width": true, "height": true, "offset": true, "stroke-width": true,
	"opacity": true, "fill-opacity": true, "stroke-opacity": true,
}

var svgNumber = regexp.MustCompile(`-?(?:\d+\.\d*|\.\d+|\d+)(?:[eE][-+]?\d+)?`)

// NewSVG minifies SVG documents.
//
// Options: precision (decimal places kept in geometry, negative disables
// rounding), multipass (repeat until the output stops shrinking).
func NewSVG(opts Options) Backend {
	precision, err := opts.Int("precision", 1)
	if err != nil {
		return Fail(fmt.Errorf("svg: %w", err))
	}
	multipass, err := opts.Bool("multipass", true)
	if err != nil {
		return Fail(fmt.Errorf("svg: %w", err))
	}

	return Func(func(ctx context.Context, data []byte) ([]byte, error) {
		if !IsSVG(data) {
			return data, nil
		}

		best := data
		for pass := 0; pass < maxSVGPasses; pass++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out, err := minifySVG(best, precision)
			if err != nil {
				return nil, fmt.Errorf("svg: %w", err)
			}
			if len(out) >= len(best) {
				break
			}
			best = out
			if !multipass {
				break
			}
		}
		return best, nil
	})
}

func minifySVG(data []byte, precision int) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	cleanSVG(&doc.Element, precision, false)
	return doc.WriteToBytes()
}

func cleanSVG(el *etree.Element, precision int, keepSpace bool) {
	for _, tok := range slices.Clone(el.Child) {
		switch t := tok.(type) {
		case *etree.Comment, *etree.ProcInst, *etree.Directive:
			el.RemoveChild(t)
		case *etree.CharData:
			if !keepSpace && strings.TrimSpace(t.Data) == "" {
				el.RemoveChild(t)
			}
		case *etree.Element:
			if t.Tag == "metadata" || svgEditorSpaces[t.Space] {
				el.RemoveChild(t)
				continue
			}
			cleanAttrs(t, precision)
			cleanSVG(t, precision, keepSpace || svgKeepSpace[t.Tag])
		}
	}
}

func cleanAttrs(el *etree.Element, precision int) {
	kept := el.Attr[:0]
	for _, a := range el.Attr {
		if svgEditorSpaces[a.Space] || (a.Space == "xmlns" && svgEditorSpaces[a.Key]) {
			continue
		}
		if a.Space == "" && svgNumericAttrs[a.Key] {
			a.Value = roundNumbers(a.Value, precision)
		}
		kept = append(kept, a)
	}
	el.Attr = kept
}

// roundNumbers rounds every decimal number in s to precision decimals and
// collapses whitespace runs. Integers are left as written so packed arc flags
// survive, and a space is inserted where a rounded number would otherwise run
// into the previous one.
func roundNumbers(s string, precision int) string {
	s = strings.Join(strings.Fields(s), " ")
	if precision < 0 {
		return s
	}
	scale := math.Pow10(precision)

	var b strings.Builder
	last := 0
	for _, loc := range svgNumber.FindAllStringIndex(s, -1) {
		b.WriteString(s[last:loc[0]])
		last = loc[1]

		num := s[loc[0]:loc[1]]
		if !strings.ContainsAny(num, ".eE") {
			b.WriteString(num)
			continue
		}
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			b.WriteString(num)
			continue
		}
		r := math.Round(f*scale) / scale
		if r == 0 {
			r = 0
		}
		out := strconv.FormatFloat(r, 'f', -1, 64)
		if out[0] != '-' && endsInNumber(b.String()) {
			b.WriteByte(' ')
		}
		b.WriteString(out)
	}
	b.WriteString(s[last:])
	return b.String()
}

func endsInNumber(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c == '.' || (c >= '0' && c <= '9')
}
