package image

import (
	"bytes"
	"encoding/binary"
	goimage "image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func TestRecognized(t *testing.T) {
	require.True(t, Recognized(".png"))
	require.True(t, Recognized("JPG"))
	require.True(t, Recognized(".tga"))
	require.False(t, Recognized(".psd"))
}

func TestDecode_MipChainLevelCount(t *testing.T) {
	data := encodePNG(t, 8, 4)

	res, err := Decode("sprite.png", bytes.NewReader(data))
	require.NoError(t, err)

	require.EqualValues(t, 8, res.Width)
	require.EqualValues(t, 4, res.Height)
	// floor(log2(max(8,4))) + 1 = 4: 8x4, 4x2, 2x1, 1x1
	require.EqualValues(t, 4, res.MipCount)
	require.EqualValues(t, 4, res.BytesPerPx)
}

func TestDecode_DirectoryPointsInsidePayload(t *testing.T) {
	data := encodePNG(t, 2, 2)

	res, err := Decode("icon.png", bytes.NewReader(data))
	require.NoError(t, err)

	// 2x2 and 1x1 levels: 4 + 2*16 directory bytes, then 16 + 4 pixel bytes.
	require.Len(t, res.Payload, 4+2*directoryEntrySize+16+4)
	require.Greater(t, len(res.Payload), 4+int(res.MipCount)*directoryEntrySize)

	for i := 0; i < int(res.MipCount); i++ {
		entry := res.Payload[4+i*directoryEntrySize:]
		offset := binary.LittleEndian.Uint32(entry[8:12])
		size := binary.LittleEndian.Uint32(entry[12:16])
		require.LessOrEqual(t, int(offset+size), len(res.Payload))
	}
}

func TestDecode_SquarePowerOfTwo(t *testing.T) {
	data := encodePNG(t, 16, 16)

	res, err := Decode("tex.png", bytes.NewReader(data))
	require.NoError(t, err)
	// 16->8->4->2->1 = 5 levels
	require.EqualValues(t, 5, res.MipCount)
}

func TestDecodeTGA_UncompressedTrueColor(t *testing.T) {
	w, h := 2, 2
	header := make([]byte, 18)
	header[2] = 2 // uncompressed true-color
	header[12], header[13] = byte(w), byte(w>>8)
	header[14], header[15] = byte(h), byte(h>>8)
	header[16] = 32
	header[17] = 0x20 // top-down

	pixels := []byte{
		255, 0, 0, 255, // BGR(A) blue opaque px0
		0, 255, 0, 255, // green px1
		0, 0, 255, 255, // red px2
		10, 20, 30, 255,
	}

	data := append(header, pixels...)
	img, err := decodeTGA(data)
	require.NoError(t, err)

	r, g, b, a := img.At(0, 0).RGBA()
	require.EqualValues(t, 0, r>>8)
	require.EqualValues(t, 0, g>>8)
	require.EqualValues(t, 255, b>>8)
	require.EqualValues(t, 255, a>>8)
}
