package pdf

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// StampCard writes a copy of the template at templatePath to destPath
// with the network name, password, and QR image stamped in. The anchor
// labels are located on the page first; the old values are redacted
// with background-colored patches before the new content is inserted.
func StampCard(templatePath, destPath string, tpl Template, ssid, password string, qrPNG []byte) error {
	labels := []string{tpl.Network.Label, tpl.Password.Label}
	if tpl.QR.Anchor != "" && tpl.QR.Anchor != tpl.Network.Label && tpl.QR.Anchor != tpl.Password.Label {
		labels = append(labels, tpl.QR.Anchor)
	}

	anchors, err := FindAnchors(templatePath, tpl.Page, labels)
	if err != nil {
		return err
	}

	networkPl := tpl.Network.PlacementFor(anchors[tpl.Network.Label])
	passwordPl := tpl.Password.PlacementFor(anchors[tpl.Password.Label])
	slot, err := tpl.QR.SlotBox(anchors)
	if err != nil {
		return err
	}

	bg, err := parseHexColor(tpl.Background)
	if err != nil {
		return fmt.Errorf("template background: %w", err)
	}

	if err := copyFile(templatePath, destPath); err != nil {
		return fmt.Errorf("copying template: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "wificard-stamp-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// Redact old values and the QR slot area.
	for i, box := range []Box{networkPl.Redact, passwordPl.Redact, slot} {
		patch := filepath.Join(tmpDir, fmt.Sprintf("patch%d.png", i))
		if err := writePatch(patch, box, bg); err != nil {
			return err
		}
		if err := stampImage(destPath, patch, tpl.Page, box.X, box.Y); err != nil {
			return fmt.Errorf("redacting field %d: %w", i, err)
		}
	}

	// Re-insert the values.
	if err := stampText(destPath, ssid, tpl.Page, networkPl.ValueOrigin, tpl.Network.FontSize); err != nil {
		return fmt.Errorf("stamping network name: %w", err)
	}
	if err := stampText(destPath, password, tpl.Page, passwordPl.ValueOrigin, tpl.Password.FontSize); err != nil {
		return fmt.Errorf("stamping password: %w", err)
	}

	// Scale the QR to the slot side (1 px renders as 1 pt) and stamp it.
	qrPath := filepath.Join(tmpDir, "qr.png")
	if err := writeScaledQR(qrPath, qrPNG, int(slot.W)); err != nil {
		return err
	}
	if err := stampImage(destPath, qrPath, tpl.Page, slot.X, slot.Y); err != nil {
		return fmt.Errorf("stamping QR image: %w", err)
	}

	return nil
}

// stampImage applies an image watermark to a single page of the PDF at
// destPath in place, anchored at the page's lower-left corner and
// shifted to (x, y) in points.
func stampImage(destPath, imgPath string, page int, x, y float64) error {
	wm, err := pdfcpu.ParseImageWatermarkDetails(imgPath, "scale:1 abs, pos:bl, rot:0, op:1", true, types.POINTS)
	if err != nil {
		return fmt.Errorf("parse image watermark: %w", err)
	}
	wm.Dx = x
	wm.Dy = y

	pages := []string{strconv.Itoa(page)}
	return pdfapi.AddWatermarksFile(destPath, "", pages, wm, model.NewDefaultConfiguration())
}

// stampText applies a text watermark to a single page of the PDF at
// destPath in place, with the baseline origin at (origin.X, origin.Y).
func stampText(destPath, text string, page int, origin Point, fontSize float64) error {
	desc := fmt.Sprintf("fontname:Helvetica, points:%.0f, scale:1 abs, pos:bl, rot:0, op:1", fontSize)
	wm, err := pdfcpu.ParseTextWatermarkDetails(text, desc, true, types.POINTS)
	if err != nil {
		return fmt.Errorf("parse text watermark: %w", err)
	}
	wm.Dx = origin.X
	wm.Dy = origin.Y

	pages := []string{strconv.Itoa(page)}
	return pdfapi.AddWatermarksFile(destPath, "", pages, wm, model.NewDefaultConfiguration())
}

// writePatch writes a solid background-colored PNG sized to box (1 px
// per point).
func writePatch(path string, box Box, bg color.NRGBA) error {
	w, h := int(box.W), int(box.H)
	if w < 1 || h < 1 {
		return fmt.Errorf("redaction box must have positive size, got %gx%g", box.W, box.H)
	}
	img := imaging.New(w, h, bg)
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("writing redaction patch: %w", err)
	}
	return nil
}

// writeScaledQR decodes the rendered QR PNG and writes it resized to
// side x side pixels.
func writeScaledQR(path string, qrPNG []byte, side int) error {
	if side < 1 {
		return fmt.Errorf("QR slot side must be positive, got %d", side)
	}
	img, err := imaging.Decode(bytes.NewReader(qrPNG))
	if err != nil {
		return fmt.Errorf("decoding QR image: %w", err)
	}
	scaled := imaging.Resize(img, side, side, imaging.NearestNeighbor)
	if err := imaging.Save(scaled, path); err != nil {
		return fmt.Errorf("writing scaled QR: %w", err)
	}
	return nil
}

// parseHexColor parses "#RRGGBB" into an opaque color.
func parseHexColor(s string) (color.NRGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
