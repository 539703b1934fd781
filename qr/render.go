// Package qr renders Wi-Fi join payloads as QR code images in two
// styles: the plain black-and-white classic look and a decorated
// artistic look, both with an optional centered logo.
package qr

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	qrterminal "github.com/mdp/qrterminal/v3"
	skip2 "github.com/skip2/go-qrcode"
	yeqown "github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// Style selects the rendering look of the generated QR image.
type Style string

const (
	StyleClassic  Style = "classic"
	StyleArtistic Style = "artistic"
)

// ParseStyle maps user input to a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleClassic, "":
		return StyleClassic, nil
	case StyleArtistic:
		return StyleArtistic, nil
	}
	return "", fmt.Errorf("unknown style %q (want classic or artistic)", s)
}

// moduleSize and quietModules fix the classic geometry: 10 px per QR
// module with a 4-module quiet zone.
const (
	moduleSize   = 10
	quietModules = 4
)

// logoFraction caps the logo at 20% of the QR side so that level-H
// error correction can still recover the obscured modules.
const logoFraction = 5

// Options configures a single render.
type Options struct {
	Style Style

	// Logo is composited into the center of the code when non-nil.
	Logo image.Image

	// Artistic appearance. Hex colors like "#1B1B1B"; ignored for the
	// classic style.
	Foreground string
	Background string
	Circles    bool
}

// Render encodes payload into a square PNG image using level-H error
// correction and returns the PNG bytes.
func Render(payload string, opts Options) ([]byte, error) {
	switch opts.Style {
	case StyleArtistic:
		return renderArtistic(payload, opts)
	default:
		return renderClassic(payload, opts.Logo)
	}
}

// renderClassic produces the plain black-on-white code and pastes the
// logo (scaled to fit a fifth of the image side) over its center.
func renderClassic(payload string, logo image.Image) ([]byte, error) {
	code, err := skip2.New(payload, skip2.Highest)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	// Negative size scales the image by |size| pixels per module; the
	// default 4-module quiet zone is included.
	img := code.Image(-moduleSize)

	if logo != nil {
		img = compositeLogo(img, logo)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// renderArtistic produces the decorated code via the yeqown standard
// writer: configurable colors, optionally circular modules, and the
// same centered logo.
func renderArtistic(payload string, opts Options) ([]byte, error) {
	code, err := yeqown.NewWith(payload,
		yeqown.WithEncodingMode(yeqown.EncModeByte),
		yeqown.WithErrorCorrectionLevel(yeqown.ErrorCorrectionHighest),
	)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	wOpts := []standard.ImageOption{
		standard.WithQRWidth(moduleSize),
		standard.WithBorderWidth(quietModules * moduleSize),
	}
	if opts.Foreground != "" {
		wOpts = append(wOpts, standard.WithFgColorRGBHex(opts.Foreground))
	}
	if opts.Background != "" {
		wOpts = append(wOpts, standard.WithBgColorRGBHex(opts.Background))
	}
	if opts.Circles {
		wOpts = append(wOpts, standard.WithCircleShape())
	}
	if opts.Logo != nil {
		// The writer rejects logos larger than a fifth of the code, so
		// fit it up front.
		side := code.Dimension() * moduleSize / logoFraction
		wOpts = append(wOpts, standard.WithLogoImage(imaging.Fit(opts.Logo, side, side, imaging.Lanczos)))
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopWriteCloser{&buf}, wOpts...)
	if err := code.Save(w); err != nil {
		return nil, fmt.Errorf("render artistic QR: %w", err)
	}
	return buf.Bytes(), nil
}

// compositeLogo scales logo to a fifth of the QR side preserving its
// aspect ratio and pastes it centered, honoring the alpha channel.
func compositeLogo(qrImg image.Image, logo image.Image) image.Image {
	side := qrImg.Bounds().Dx() / logoFraction
	fitted := imaging.Fit(logo, side, side, imaging.Lanczos)
	return imaging.OverlayCenter(qrImg, fitted, 1.0)
}

// Preview writes a half-block terminal rendering of payload to w.
func Preview(payload string, w io.Writer) {
	qrterminal.GenerateHalfBlock(payload, qrterminal.L, w)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
