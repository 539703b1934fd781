package qr

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{B: 180, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFindLogo_Single(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "Brand.PNG"))
	// Non-logo files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	path, err := FindLogo(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Brand.PNG"), path)
}

func TestFindLogo_MissingDir(t *testing.T) {
	_, err := FindLogo(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "not found")
}

func TestFindLogo_None(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.svg"), []byte("x"), 0o644))

	_, err := FindLogo(dir)
	assert.ErrorContains(t, err, "no logo")
}

func TestFindLogo_Multiple(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	writePNG(t, filepath.Join(dir, "b.png"))

	_, err := FindLogo(dir)
	assert.ErrorContains(t, err, "more than one")
}

func TestLoadLogo_PNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	writePNG(t, path)

	img, err := LoadLogo(path)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestLoadLogo_Garbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := LoadLogo(path)
	assert.Error(t, err)
}
