package domain

import (
	"fmt"
	"strings"
)

// Variant names a rendering policy for an image. Original is the
// verbatim upload; every other variant is a resized, re-encoded
// derivative computed on demand.
type Variant string

const (
	VariantOriginal Variant = "original"
	VariantPublic   Variant = "public"
	VariantEmbed    Variant = "embed"
	VariantThumb    Variant = "thumb"
	VariantBanner   Variant = "banner"
	VariantSquare   Variant = "square"
)

// Variants lists every supported variant.
var Variants = []Variant{
	VariantOriginal,
	VariantPublic,
	VariantEmbed,
	VariantThumb,
	VariantBanner,
	VariantSquare,
}

// ParseVariant maps a path segment to a Variant. Unknown names resolve
// to Original, matching the upstream routing behavior.
func ParseVariant(s string) Variant {
	switch strings.ToLower(s) {
	case "public":
		return VariantPublic
	case "embed":
		return VariantEmbed
	case "thumb":
		return VariantThumb
	case "banner":
		return VariantBanner
	case "square":
		return VariantSquare
	default:
		return VariantOriginal
	}
}

func (v Variant) String() string {
	return string(v)
}

// Ext returns the uppercase file extension derived from a MIME type.
func Ext(mime string) string {
	switch mime {
	case "image/jpeg":
		return "JPG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/webp":
		return "WEBP"
	default:
		if i := strings.IndexByte(mime, '/'); i >= 0 {
			return strings.ToUpper(mime[i+1:])
		}
		return strings.ToUpper(mime)
	}
}

// StorageKey derives the storage key for an image at a given variant.
// The mapping is pure: the same record and variant always produce the
// same key, for reads, writes, and existence checks alike, in both the
// originals and derivatives namespaces.
func StorageKey(img *Image, variant Variant) string {
	ext := Ext(img.MIME)
	if variant == VariantOriginal {
		return fmt.Sprintf("%s/%s.%s", img.Category, img.UUID, ext)
	}
	return fmt.Sprintf("%s_%s_%s.%s", img.Category, img.UUID, variant, ext)
}
