package qr

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders for the logo formats we accept.
	_ "image/png"

	_ "github.com/biessek/golang-ico"
)

// validLogoExts lists the accepted logo file extensions.
var validLogoExts = []string{".png", ".ico"}

// FindLogo scans dir for a logo file. Exactly one .png or .ico file must
// be present; zero or more than one is an error so the caller never has
// to guess which brand mark ends up in the middle of the code.
func FindLogo(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("logo directory not found: %s", dir)
		}
		return "", fmt.Errorf("reading logo directory: %w", err)
	}

	var logos []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, valid := range validLogoExts {
			if ext == valid {
				logos = append(logos, e.Name())
				break
			}
		}
	}

	switch len(logos) {
	case 0:
		return "", fmt.Errorf("no logo (.png or .ico) found in %s", dir)
	case 1:
		return filepath.Join(dir, logos[0]), nil
	default:
		return "", fmt.Errorf("more than one logo found in %s, leave a single .png or .ico file", dir)
	}
}

// LoadLogo decodes the logo image at path. PNG and ICO are supported.
func LoadLogo(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening logo %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding logo %s: %w", path, err)
	}
	return img, nil
}
