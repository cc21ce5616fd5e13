package engine

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

type textAlign int

const (
	alignLeft textAlign = iota
	alignCenter
	alignRight
)

// style is the resolved style of one element. Color, font size, alignment and
// opacity inherit; background and padding do not.
type style struct {
	color      color.NRGBA
	background *color.NRGBA
	fontSize   float64 // CSS pixels, unscaled
	padding    float64
	align      textAlign
	opacity    float64
	bold       bool
}

func defaultStyle() style {
	return style{
		color:    color.NRGBA{A: 0xff},
		fontSize: 16,
		opacity:  1,
	}
}

// inherit carries the inheritable properties into a child element.
func (s style) inherit() style {
	return style{
		color:    s.color,
		fontSize: s.fontSize,
		align:    s.align,
		opacity:  s.opacity,
		bold:     s.bold,
	}
}

// applyNode folds tag defaults and the element's style attribute into s.
func (s style) applyNode(n *html.Node) style {
	switch n.Data {
	case "h1":
		s.fontSize = 32
		s.bold = true
	case "h2":
		s.fontSize = 24
		s.bold = true
	case "h3":
		s.fontSize = 19
		s.bold = true
	case "b", "strong":
		s.bold = true
	case "small":
		s.fontSize = 13
	}

	for _, attr := range n.Attr {
		if attr.Key == "style" {
			s = s.applyInline(attr.Val)
		}
	}
	return s
}

// applyInline parses a style attribute value: semicolon-separated
// property:value declarations. Unknown properties are ignored.
func (s style) applyInline(inline string) style {
	for _, decl := range strings.Split(inline, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)

		switch name {
		case "color":
			if c, ok := parseColor(value); ok {
				s.color = c
			}
		case "background", "background-color":
			if c, ok := parseColor(value); ok {
				bg := c
				s.background = &bg
			}
		case "font-size":
			if px, ok := parsePixels(value); ok && px > 0 {
				s.fontSize = px
			}
		case "padding":
			if px, ok := parsePixels(value); ok && px >= 0 {
				s.padding = px
			}
		case "text-align":
			switch strings.ToLower(value) {
			case "center":
				s.align = alignCenter
			case "right":
				s.align = alignRight
			case "left":
				s.align = alignLeft
			}
		case "opacity":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 0 && v <= 1 {
				s.opacity = v
			}
		case "font-weight":
			s.bold = value == "bold" || value == "700" || value == "800" || value == "900"
		}
	}
	return s
}

// parsePixels parses a CSS length. Bare numbers and px values are accepted.
func parsePixels(value string) (float64, bool) {
	value = strings.TrimSuffix(strings.TrimSpace(value), "px")
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var namedColors = map[string]color.NRGBA{
	"black":       {A: 0xff},
	"white":       {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"red":         {R: 0xff, A: 0xff},
	"green":       {G: 0x80, A: 0xff},
	"lime":        {G: 0xff, A: 0xff},
	"blue":        {B: 0xff, A: 0xff},
	"yellow":      {R: 0xff, G: 0xff, A: 0xff},
	"orange":      {R: 0xff, G: 0xa5, A: 0xff},
	"purple":      {R: 0x80, B: 0x80, A: 0xff},
	"gray":        {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"grey":        {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"silver":      {R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff},
	"navy":        {B: 0x80, A: 0xff},
	"teal":        {G: 0x80, B: 0x80, A: 0xff},
	"transparent": {},
}

// parseColor parses #rgb, #rrggbb, rgb(r,g,b) and a small named set.
func parseColor(value string) (color.NRGBA, bool) {
	value = strings.ToLower(strings.TrimSpace(value))

	if c, ok := namedColors[value]; ok {
		return c, true
	}

	if hex, ok := strings.CutPrefix(value, "#"); ok {
		switch len(hex) {
		case 3:
			r, okR := hexNibble(hex[0])
			g, okG := hexNibble(hex[1])
			b, okB := hexNibble(hex[2])
			if okR && okG && okB {
				return color.NRGBA{R: r * 0x11, G: g * 0x11, B: b * 0x11, A: 0xff}, true
			}
		case 6:
			if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
				return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
			}
		}
		return color.NRGBA{}, false
	}

	if inner, ok := strings.CutPrefix(value, "rgb("); ok {
		inner = strings.TrimSuffix(inner, ")")
		parts := strings.Split(inner, ",")
		if len(parts) != 3 {
			return color.NRGBA{}, false
		}
		var channels [3]uint8
		for i, part := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || v < 0 || v > 255 {
				return color.NRGBA{}, false
			}
			channels[i] = uint8(v)
		}
		return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: 0xff}, true
	}

	return color.NRGBA{}, false
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
