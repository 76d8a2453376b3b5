package transform

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/imagio/imagio/media/domain"
)

const maxEmbedWidth = 1024

// TargetSize returns the bounding box for a variant given the source
// dimensions. A zero source dimension is rejected here, before the
// Embed arithmetic can divide by it.
func TargetSize(variant domain.Variant, srcW, srcH int) (int, int, error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, domain.DecodeErrorf("source has degenerate dimensions %dx%d", srcW, srcH)
	}

	switch variant {
	case domain.VariantPublic:
		return 1024, 768, nil
	case domain.VariantThumb:
		return 256, 256, nil
	case domain.VariantBanner:
		return 800, 400, nil
	case domain.VariantSquare:
		return 320, 320, nil
	case domain.VariantEmbed:
		w := srcW
		if w > maxEmbedWidth {
			w = maxEmbedWidth
		}
		return w, srcH * w / srcW, nil
	default:
		return 0, 0, fmt.Errorf("variant %q has no target geometry", variant)
	}
}

// Render decodes source bytes, fits them into the variant's bounding
// box preserving aspect ratio, and re-encodes. The output format is
// chosen from the source pixel format: alpha or 16-bit channels encode
// losslessly as PNG, everything else as JPEG.
func Render(src []byte, variant domain.Variant) ([]byte, error) {
	if variant == domain.VariantOriginal {
		return nil, fmt.Errorf("original variant is served verbatim, not rendered")
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, domain.DecodeErrorf("failed to decode source image: %v", err)
	}

	bounds := img.Bounds()
	w, h, err := TargetSize(variant, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	dst := imaging.Fit(img, w, h, imaging.Lanczos)

	var buf bytes.Buffer
	if Lossless(img) {
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	} else {
		if err := jpeg.Encode(&buf, dst, nil); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Lossless reports whether an image must keep a lossless encoding:
// any 16-bit-per-channel buffer, or one whose source format carries an
// alpha channel. The png decoder yields NRGBA only for alpha-carrying
// files, so truecolor-without-alpha (RGBA) stays on the JPEG path.
func Lossless(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA64, *image.Gray16:
		return true
	default:
		return false
	}
}
