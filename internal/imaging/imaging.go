// Package imaging shrinks uploaded pictures before they are attached to a blog.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1920
	DefaultQuality      = 85
)

type Options struct {
	MaxDimension int
	Quality      int
}

func (o Options) withDefaults() Options {
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	return o
}

// Result is what Process hands back. Fallback is set when the original bytes
// were kept because the picture could not be decoded or re-encoded.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Resized     bool
	Fallback    bool
}

// DataURL renders the result as a base64 data URL.
func (r Result) DataURL() string {
	return DataURL(r.ContentType, r.Data)
}

func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Detect sniffs the content type of data. It ignores whatever the client
// declared.
func Detect(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Process bounds the longer edge of the picture to opts.MaxDimension and
// re-encodes it. JPEG stays JPEG and PNG stays PNG; GIF comes out as PNG and
// WebP as JPEG. On any failure the original bytes are returned with the
// sniffed content type.
func Process(data []byte, opts Options) Result {
	opts = opts.withDefaults()
	contentType := Detect(data)
	original := Result{Data: data, ContentType: contentType, Fallback: true}

	src, err := decode(data, contentType)
	if err != nil {
		return original
	}

	bounds := src.Bounds()
	original.Width, original.Height = bounds.Dx(), bounds.Dy()

	w, h := Fit(bounds.Dx(), bounds.Dy(), opts.MaxDimension)
	img := src
	resized := w != bounds.Dx() || h != bounds.Dy()
	if resized {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		img = dst
	}

	out, outType, err := encode(img, contentType, opts.Quality)
	if err != nil {
		return original
	}

	return Result{
		Data:        out,
		ContentType: outType,
		Width:       w,
		Height:      h,
		Resized:     resized,
	}
}

// Fit scales w×h so that neither side exceeds max, keeping the aspect ratio.
// Pictures already within bounds are left alone.
func Fit(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w > h {
		return max, scaled(h, max, w)
	}
	return scaled(w, max, h), max
}

func scaled(side, max, longer int) int {
	v := (side*max + longer/2) / longer
	if v < 1 {
		return 1
	}
	return v
}

func decode(data []byte, contentType string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch contentType {
	case "image/jpeg":
		return jpeg.Decode(r)
	case "image/png":
		return png.Decode(r)
	case "image/gif":
		return gif.Decode(r)
	case "image/webp":
		return webp.Decode(r)
	}
	return nil, fmt.Errorf("unsupported image type %s", contentType)
}

func encode(img image.Image, contentType string, quality int) ([]byte, string, error) {
	var buf bytes.Buffer
	switch contentType {
	case "image/png", "image/gif":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	default:
		if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}

// flatten puts a translucent picture on white; JPEG has no alpha and would
// otherwise show the transparent parts black.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
