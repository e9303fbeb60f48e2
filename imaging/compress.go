// Package imaging re-encodes uploaded document photos so a pair of them fits
// under the store's per-record payload ceiling.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

// MaxWidth caps the re-encoded image width; height follows the aspect ratio.
const MaxWidth = 800

// Quality is the JPEG quality of the re-encoded payload.
const Quality = 60

var (
	ErrEmptyFile = errors.New("tidak ada file yang dipilih")
	ErrNotImage  = errors.New("mohon upload file gambar (JPG/PNG)")
)

// Compress decodes an uploaded image, scales it down to MaxWidth when wider,
// re-encodes it as JPEG and returns a data URI ready to store or display.
// Non-image input fails with ErrNotImage before any scaling happens.
func Compress(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(raw) == 0 {
		return "", ErrEmptyFile
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", ErrNotImage
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > MaxWidth {
		scaled := MaxWidth
		scaledHeight := int(float64(height) * float64(MaxWidth) / float64(width))
		if scaledHeight < 1 {
			scaledHeight = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, scaled, scaledHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: Quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
