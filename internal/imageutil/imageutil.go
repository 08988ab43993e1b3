// Package imageutil validates uploaded invoice images (logos, UPI QR codes,
// signatures) and turns them into self-contained inline data URLs.
package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxImageBytes is the upload ceiling. Images are stored inline with the
// record, so oversized files are rejected up front.
const MaxImageBytes = 500 * 1024

// DefaultMaxDimension bounds the longer image side before inline encoding.
const DefaultMaxDimension = 1024

// Validation errors. Both are recoverable: the upload is rejected before any
// state changes.
var (
	ErrImageTooLarge        = errors.New("image exceeds the 500KB size limit")
	ErrUnsupportedImageType = errors.New("only PNG and JPEG images are supported")
)

// Validate checks type and size of an uploaded image and returns its detected
// content type. Only PNG and JPEG pass.
func Validate(data []byte) (string, error) {
	if len(data) > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/png", "image/jpeg":
		return contentType, nil
	}
	return "", ErrUnsupportedImageType
}

// EncodeDataURL renders image bytes as an inline data URL, the transferable
// representation persisted with profiles and templates.
func EncodeDataURL(data []byte, contentType string) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}

// Resize scales an image down so neither side exceeds maxDimension,
// preserving aspect ratio. Images already within bounds are returned as-is.
func Resize(data []byte, maxDimension int) ([]byte, error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxDimension && height <= maxDimension {
		return data, nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxDimension
		newHeight = int(float64(height) * float64(maxDimension) / float64(width))
	} else {
		newHeight = maxDimension
		newWidth = int(float64(width) * float64(maxDimension) / float64(height))
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}
