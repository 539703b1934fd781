// Package pdf stamps Wi-Fi credentials and a QR image into a printable
// card template: it locates anchor labels on the template page, derives
// the replacement coordinates, redacts the old content and re-inserts
// the new text and image. The input template is never modified.
package pdf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Point is a position in PDF points with the origin at the lower-left
// corner of the page.
type Point struct {
	X float64
	Y float64
}

// Box is an axis-aligned rectangle in PDF points, anchored at its
// lower-left corner.
type Box struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// TextAnchor describes one labeled field of the template: the label
// text to search for and how the replacement value is laid out
// relative to the label's baseline.
type TextAnchor struct {
	Label string `yaml:"label"`

	// ValueOffset is how many points below the label baseline the
	// value's baseline sits.
	ValueOffset float64 `yaml:"value_offset"`

	FontSize float64 `yaml:"font_size"`

	// RedactWidth and RedactHeight size the box painted over the old
	// value before the new one is stamped.
	RedactWidth  float64 `yaml:"redact_width"`
	RedactHeight float64 `yaml:"redact_height"`
}

// QRSlot describes where the QR image lands on the page. When Anchor is
// set the slot is positioned relative to that label, otherwise X and Y
// are absolute page coordinates of the slot's lower-left corner.
type QRSlot struct {
	Side   float64 `yaml:"side"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Anchor string  `yaml:"anchor"`
	// Offset of the slot relative to the anchor position, used only
	// when Anchor is set.
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

// Template is the layout description of one card template page.
type Template struct {
	Page       int        `yaml:"page"`
	Network    TextAnchor `yaml:"network"`
	Password   TextAnchor `yaml:"password"`
	QR         QRSlot     `yaml:"qr"`
	Background string     `yaml:"background"`
}

// DefaultTemplate returns the layout of the stock card: the Italian
// label pair, values 14 pt below their labels, and a 145 pt QR slot on
// the right-hand side of the card.
func DefaultTemplate() Template {
	return Template{
		Page: 1,
		Network: TextAnchor{
			Label:        "Nome della rete",
			ValueOffset:  14,
			FontSize:     11,
			RedactWidth:  180,
			RedactHeight: 16,
		},
		Password: TextAnchor{
			Label:        "Password",
			ValueOffset:  14,
			FontSize:     11,
			RedactWidth:  180,
			RedactHeight: 16,
		},
		QR: QRSlot{
			Side: 145,
			X:    400,
			Y:    96,
		},
		Background: "#FFFFFF",
	}
}

// LoadTemplate reads a template layout from a YAML file. Omitted keys
// keep their DefaultTemplate values, so a layout file only has to name
// what differs from the stock card.
func LoadTemplate(path string) (Template, error) {
	tpl := DefaultTemplate()

	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("reading template layout: %w", err)
	}
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return Template{}, fmt.Errorf("parsing template layout: %w", err)
	}
	if tpl.Page < 1 {
		return Template{}, fmt.Errorf("template page must be >= 1, got %d", tpl.Page)
	}
	if tpl.QR.Side <= 0 {
		return Template{}, fmt.Errorf("QR slot side must be positive, got %g", tpl.QR.Side)
	}
	return tpl, nil
}

// Placement is the derived geometry for one replaced field.
type Placement struct {
	// ValueOrigin is the baseline origin where the new value is stamped.
	ValueOrigin Point
	// Redact covers the old value.
	Redact Box
}

// descentPad extends the redaction box below the value baseline so
// glyph descenders of the old value are covered too.
const descentPad = 4.0

// PlacementFor derives where the replacement value goes and which box
// to redact, given the label position found on the page.
func (a TextAnchor) PlacementFor(label Point) Placement {
	valueY := label.Y - a.ValueOffset
	return Placement{
		ValueOrigin: Point{X: label.X, Y: valueY},
		Redact: Box{
			X: label.X,
			Y: valueY - descentPad,
			W: a.RedactWidth,
			H: a.RedactHeight,
		},
	}
}

// SlotBox resolves the QR slot to an absolute box, using the anchor
// position when the slot is anchor-relative.
func (s QRSlot) SlotBox(anchors map[string]Point) (Box, error) {
	if s.Anchor == "" {
		return Box{X: s.X, Y: s.Y, W: s.Side, H: s.Side}, nil
	}
	p, ok := anchors[s.Anchor]
	if !ok {
		return Box{}, fmt.Errorf("QR slot anchor %q not found on page", s.Anchor)
	}
	return Box{X: p.X + s.DX, Y: p.Y + s.DY, W: s.Side, H: s.Side}, nil
}
