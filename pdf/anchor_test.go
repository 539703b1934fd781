package pdf

import (
	"testing"

	pdfreader "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glyphs splits s into single-glyph runs starting at (x, y), advancing
// w points per glyph, mimicking how extraction yields template text.
func glyphs(s string, x, y, w, size float64) []pdfreader.Text {
	out := make([]pdfreader.Text, 0, len(s))
	for i, r := range s {
		out = append(out, pdfreader.Text{
			S:        string(r),
			X:        x + float64(i)*w,
			Y:        y,
			W:        w,
			FontSize: size,
		})
	}
	return out
}

func TestSearchTexts_GlyphRuns(t *testing.T) {
	texts := glyphs("Nome della rete", 72, 500, 6, 11)
	texts = append(texts, glyphs("Password", 72, 450, 6, 11)...)

	pos, ok := searchTexts(texts, "Nome della rete")
	require.True(t, ok)
	assert.Equal(t, Point{X: 72, Y: 500}, pos)

	pos, ok = searchTexts(texts, "Password")
	require.True(t, ok)
	assert.Equal(t, Point{X: 72, Y: 450}, pos)
}

func TestSearchTexts_MidRowMatch(t *testing.T) {
	// Label preceded by other text on the same row: position must be
	// that of the label's first glyph, not the row start.
	texts := glyphs("Rete ospiti / ", 72, 300, 6, 9)
	texts = append(texts, glyphs("Password", 160, 300, 6, 9)...)

	pos, ok := searchTexts(texts, "Password")
	require.True(t, ok)
	assert.Equal(t, 160.0, pos.X)
	assert.Equal(t, 300.0, pos.Y)
}

func TestSearchTexts_BaselineJitter(t *testing.T) {
	// Glyphs of one visual row often come back with sub-point Y
	// differences; they must still assemble into a single row.
	texts := []pdfreader.Text{
		{S: "Pass", X: 72, Y: 200.0, W: 24, FontSize: 11},
		{S: "word", X: 96, Y: 201.2, W: 24, FontSize: 11},
	}

	pos, ok := searchTexts(texts, "Password")
	require.True(t, ok)
	assert.Equal(t, Point{X: 72, Y: 200}, pos)
}

func TestSearchTexts_OutOfOrderRuns(t *testing.T) {
	// Drawing order does not have to be left-to-right.
	texts := []pdfreader.Text{
		{S: "rete", X: 130, Y: 400, W: 20, FontSize: 11},
		{S: "Nome della ", X: 72, Y: 400, W: 58, FontSize: 11},
	}

	pos, ok := searchTexts(texts, "Nome della rete")
	require.True(t, ok)
	assert.Equal(t, 72.0, pos.X)
}

func TestSearchTexts_Missing(t *testing.T) {
	texts := glyphs("Nome della rete", 72, 500, 6, 11)

	_, ok := searchTexts(texts, "Passwort")
	assert.False(t, ok)
}

func TestSearchTexts_TopRowWins(t *testing.T) {
	texts := glyphs("Password", 72, 100, 6, 11)
	texts = append(texts, glyphs("Password", 72, 600, 6, 11)...)

	pos, ok := searchTexts(texts, "Password")
	require.True(t, ok)
	assert.Equal(t, 600.0, pos.Y)
}
