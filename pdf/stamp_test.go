package pdf

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTemplateFixture writes a minimal single-page PDF (A4, Helvetica)
// with each label drawn at its position directly in the page content
// stream, so both the text extractor and the stamper operate on a real
// file.
func writeTemplateFixture(t *testing.T, path string, labels map[string]Point) {
	t.Helper()

	names := make([]string, 0, len(labels))
	for l := range labels {
		names = append(names, l)
	}
	sort.Strings(names)

	var content strings.Builder
	content.WriteString("BT\n/F1 11 Tf\n")
	for _, l := range names {
		p := labels[l]
		fmt.Fprintf(&content, "1 0 0 1 %g %g Tm\n(%s) Tj\n", p.X, p.Y, l)
	}
	content.WriteString("ET")

	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))
	for i, body := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// stockLabels places the stock layout's two labels at plausible card
// positions.
func stockLabels() map[string]Point {
	return map[string]Point{
		"Nome della rete": {X: 72, Y: 700},
		"Password":        {X: 72, Y: 620},
	}
}

func qrFixture(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(120, 120, color.NRGBA{A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestFindAnchors_Fixture(t *testing.T) {
	tplPath := filepath.Join(t.TempDir(), "template.pdf")
	writeTemplateFixture(t, tplPath, stockLabels())

	anchors, err := FindAnchors(tplPath, 1, []string{"Nome della rete", "Password"})
	require.NoError(t, err)

	assert.InDelta(t, 72, anchors["Nome della rete"].X, 1)
	assert.InDelta(t, 700, anchors["Nome della rete"].Y, 1)
	assert.InDelta(t, 620, anchors["Password"].Y, 1)
}

func TestFindAnchors_PageOutOfRange(t *testing.T) {
	tplPath := filepath.Join(t.TempDir(), "template.pdf")
	writeTemplateFixture(t, tplPath, stockLabels())

	_, err := FindAnchors(tplPath, 2, []string{"Password"})
	assert.ErrorContains(t, err, "1 page(s)")
}

func TestStampCard(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "template.pdf")
	writeTemplateFixture(t, tplPath, stockLabels())

	before, err := os.ReadFile(tplPath)
	require.NoError(t, err)

	dest := filepath.Join(dir, "card.pdf")
	err = StampCard(tplPath, dest, DefaultTemplate(), "guestnet", "s3cret123", qrFixture(t))
	require.NoError(t, err)

	out, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	// Three redaction patches, two texts and the QR went in.
	assert.Greater(t, len(out), len(before))

	// The input template must come through a full run byte-identical.
	after, err := os.ReadFile(tplPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStampCard_MissingAnchor(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "template.pdf")
	writeTemplateFixture(t, tplPath, map[string]Point{
		"Nome della rete": {X: 72, Y: 700},
	})

	dest := filepath.Join(dir, "card.pdf")
	err := StampCard(tplPath, dest, DefaultTemplate(), "guestnet", "s3cret123", qrFixture(t))
	require.Error(t, err)
	assert.ErrorContains(t, err, `anchor "Password" not found`)

	// Nothing must be written when the anchors cannot be located.
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
}
