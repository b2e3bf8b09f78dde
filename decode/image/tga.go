package image

import (
	goimage "image"
	"image/color"
	"fmt"
)

// decodeTGA decodes an uncompressed or RLE-compressed TGA image with 24 or
// 32 bits per pixel; this covers the Targa variants actually emitted by
// asset-export tooling. Colormapped and grayscale TGAs are not supported.
func decodeTGA(data []byte) (goimage.Image, error) {
	const headerSize = 18
	if len(data) < headerSize {
		return nil, fmt.Errorf("tga: truncated header")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: colormapped images not supported")
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}

	offset := headerSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: truncated id field")
	}

	bytesPerPixel := bpp / 8
	pixelCount := width * height
	pixels := make([]byte, pixelCount*bytesPerPixel)

	switch imageType {
	case 2: // uncompressed true-color
		need := offset + pixelCount*bytesPerPixel
		if need > len(data) {
			return nil, fmt.Errorf("tga: truncated pixel data")
		}
		copy(pixels, data[offset:need])

	case 10: // RLE true-color
		src := data[offset:]
		pos := 0
		out := 0
		for out < len(pixels) {
			if pos >= len(src) {
				return nil, fmt.Errorf("tga: truncated RLE stream")
			}
			header := src[pos]
			pos++
			count := int(header&0x7f) + 1

			if header&0x80 != 0 {
				if pos+bytesPerPixel > len(src) {
					return nil, fmt.Errorf("tga: truncated RLE packet")
				}
				px := src[pos : pos+bytesPerPixel]
				pos += bytesPerPixel
				for i := 0; i < count; i++ {
					copy(pixels[out:out+bytesPerPixel], px)
					out += bytesPerPixel
				}
			} else {
				n := count * bytesPerPixel
				if pos+n > len(src) {
					return nil, fmt.Errorf("tga: truncated raw packet")
				}
				copy(pixels[out:out+n], src[pos:pos+n])
				pos += n
				out += n
			}
		}

	default:
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}

	img := goimage.NewRGBA(goimage.Rect(0, 0, width, height))

	// TGA pixels are stored bottom-to-top unless bit 5 of the descriptor
	// (origin-at-top) is set, and are always BGR(A).
	topDown := descriptor&0x20 != 0

	for y := 0; y < height; y++ {
		srcY := y
		if !topDown {
			srcY = height - 1 - y
		}
		for x := 0; x < width; x++ {
			i := (srcY*width + x) * bytesPerPixel
			b, g, r := pixels[i], pixels[i+1], pixels[i+2]
			a := byte(255)
			if bytesPerPixel == 4 {
				a = pixels[i+3]
			}
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}

	return img, nil
}
