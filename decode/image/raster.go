// Package image decodes raster images into the pack's IMAGE_RGBA8_MIPS
// wire format: a full mip chain, each level Lanczos-downsampled from the
// one above it, packed behind a directory of (width, height, offset, size)
// entries.
package image

import (
	"bytes"
	"encoding/binary"
	goimage "image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/greatbadbeyond/gbpack/internal/pool"
)

// Result holds a decoded image's full mip chain payload plus the metadata
// the caller stamps into the asset record's meta fields.
type Result struct {
	Payload    []byte
	Width      uint32
	Height     uint32
	MipCount   uint32
	BytesPerPx uint32
}

// directoryEntrySize is the byte size of one mip directory entry:
// (u32 width, u32 height, u32 offset, u32 size).
const directoryEntrySize = 16

// Recognized reports whether ext (with or without the leading dot, any case) is
// one of the raster formats this package decodes.
func Recognized(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png", "jpg", "jpeg", "bmp", "tga", "webp", "gif":
		return true
	default:
		return false
	}
}

// Decode reads a raster image named name (used only to pick a decoder by
// extension) from r and returns its full RGBA8 mip chain.
func Decode(name string, r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, err
	}

	img, err := decodeRaster(name, data)
	if err != nil {
		return Result{}, err
	}

	rgba := toRGBA(img)
	levels := buildMipChain(rgba)

	return packLevels(levels), nil
}

func decodeRaster(name string, data []byte) (goimage.Image, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	switch ext {
	case "png":
		return png.Decode(bytes.NewReader(data))
	case "jpg", "jpeg":
		return jpeg.Decode(bytes.NewReader(data))
	case "gif":
		return gif.Decode(bytes.NewReader(data))
	case "bmp":
		return bmp.Decode(bytes.NewReader(data))
	case "webp":
		return webp.Decode(bytes.NewReader(data))
	case "tga":
		return decodeTGA(data)
	default:
		// Fall back to format sniffing for an unexpected extension.
		img, _, err := goimage.Decode(bytes.NewReader(data))
		return img, err
	}
}

func toRGBA(img goimage.Image) *goimage.RGBA {
	if rgba, ok := img.(*goimage.RGBA); ok {
		return rgba
	}

	bounds := img.Bounds()
	out := goimage.NewRGBA(goimage.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	return out
}

// buildMipChain returns base followed by successively halved levels
// (independently per axis) down to 1x1, each produced by Lanczos
// resampling from the level above it.
func buildMipChain(base *goimage.RGBA) []*goimage.RGBA {
	levels := []*goimage.RGBA{base}

	current := base
	for {
		w, h := current.Bounds().Dx(), current.Bounds().Dy()
		if w == 1 && h == 1 {
			break
		}

		nextW, nextH := w/2, h/2
		if nextW < 1 {
			nextW = 1
		}
		if nextH < 1 {
			nextH = 1
		}

		resized := imaging.Resize(current, nextW, nextH, imaging.Lanczos)
		next := toRGBA(resized)
		levels = append(levels, next)
		current = next
	}

	return levels
}

func packLevels(levels []*goimage.RGBA) Result {
	mipCount := len(levels)
	directorySize := 4 + mipCount*directoryEntrySize

	directory := make([]byte, directorySize)
	binary.LittleEndian.PutUint32(directory[0:4], uint32(mipCount))

	var payloadBytes [][]byte
	offset := uint32(directorySize)

	for i, lvl := range levels {
		w, h := uint32(lvl.Bounds().Dx()), uint32(lvl.Bounds().Dy())
		data := levelBytes(lvl)
		size := uint32(len(data))

		entry := directory[4+i*directoryEntrySize : 4+(i+1)*directoryEntrySize]
		binary.LittleEndian.PutUint32(entry[0:4], w)
		binary.LittleEndian.PutUint32(entry[4:8], h)
		binary.LittleEndian.PutUint32(entry[8:12], offset)
		binary.LittleEndian.PutUint32(entry[12:16], size)

		payloadBytes = append(payloadBytes, data)
		offset += size
	}

	total := directorySize
	for _, b := range payloadBytes {
		total += len(b)
	}

	// A full mip chain can run well beyond the default payload staging
	// size, so assembly uses the larger mip-chain pool instead.
	buf := pool.GetMipBuffer()
	defer pool.PutMipBuffer(buf)

	buf.ExtendOrGrow(total)
	staging := buf.Bytes()
	n := copy(staging, directory)
	for _, b := range payloadBytes {
		n += copy(staging[n:], b)
	}

	// staging is backed by a pooled buffer about to be returned for
	// reuse, so the record's payload must own an independent copy.
	out := make([]byte, total)
	copy(out, staging)

	base := levels[0]

	return Result{
		Payload:    out,
		Width:      uint32(base.Bounds().Dx()),
		Height:     uint32(base.Bounds().Dy()),
		MipCount:   uint32(mipCount),
		BytesPerPx: 4,
	}
}

// levelBytes returns a level's tightly-packed RGBA8 bytes, row-major,
// regardless of the image.RGBA's internal stride.
func levelBytes(img *goimage.RGBA) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if img.Stride == w*4 && bounds.Min == (goimage.Point{}) {
		return img.Pix
	}

	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		srcRow := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(out[y*w*4:(y+1)*w*4], img.Pix[srcRow:srcRow+w*4])
	}

	return out
}
