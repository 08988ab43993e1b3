package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestValidateAcceptsPNGAndJPEG(t *testing.T) {
	ct, err := Validate(pngBytes(t, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	ct, err = Validate(jpegBytes(t, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
}

func TestValidateRejectsOtherTypes(t *testing.T) {
	_, err := Validate([]byte("GIF89a not really an allowed image"))
	assert.ErrorIs(t, err, ErrUnsupportedImageType)

	_, err = Validate([]byte("%PDF-1.4 definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImageType)
}

func TestValidateRejectsOversized(t *testing.T) {
	big := make([]byte, MaxImageBytes+1)
	_, err := Validate(big)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestEncodeDataURL(t *testing.T) {
	url := EncodeDataURL([]byte{1, 2, 3}, "image/png")
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestResizeLeavesSmallImagesAlone(t *testing.T) {
	data := pngBytes(t, 10, 10)
	out, err := Resize(data, 1024)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestResizeScalesDown(t *testing.T) {
	out, err := Resize(pngBytes(t, 2000, 1000), 1024)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}
