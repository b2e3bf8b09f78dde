// Package convert turns one manifest row into its native wire payload: it
// dispatches to the mesh/image/audio decoder by file extension, falls back
// to raw bytes on a missing source or decode failure, and runs the result
// through the compression gate and dedup digest.
package convert

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/greatbadbeyond/gbpack/compress"
	"github.com/greatbadbeyond/gbpack/decode/audio"
	"github.com/greatbadbeyond/gbpack/decode/image"
	"github.com/greatbadbeyond/gbpack/decode/mesh"
	"github.com/greatbadbeyond/gbpack/format"
)

// digestSize is the size, in bytes, of the dedup digest computed over a
// row's decoded (pre-compression) payload.
const digestSize = 16

// Row is the subset of a manifest row a conversion needs.
type Row struct {
	RelativePath string
	SemanticKind string
}

// Result is one row's fully processed conversion: the fields that get
// copied verbatim into its BuildRecord, plus the digest used for
// cross-row deduplication and the bytes to append to the payload stream.
type Result struct {
	Kind             format.AssetKind
	Format           format.AssetFormat
	Meta0, Meta1     uint32
	Meta2, Meta3     uint32
	Flags            uint32
	Aux              [8]uint32
	Digest           [digestSize]byte
	Compression      format.CompressionCodec
	StoredPayload    []byte
	DecodedSize      uint32
}

// DedupKey identifies records whose decoded payloads are byte-identical
// and whose metadata agrees, making one a safe alias of the other.
type DedupKey struct {
	Format format.AssetFormat
	Digest [digestSize]byte
	Meta0  uint32
	Meta1  uint32
	Meta2  uint32
	Meta3  uint32
	Aux    [8]uint32
}

// Key returns r's dedup key.
func (r Result) Key() DedupKey {
	return DedupKey{
		Format: r.Format,
		Digest: r.Digest,
		Meta0:  r.Meta0,
		Meta1:  r.Meta1,
		Meta2:  r.Meta2,
		Meta3:  r.Meta3,
		Aux:    r.Aux,
	}
}

// Convert converts one manifest row into a Result. sourceRoot is prepended
// to row.RelativePath to locate the source file on disk.
func Convert(row Row, sourceRoot string) Result {
	sourcePath := filepath.Join(sourceRoot, row.RelativePath)

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return missingResult()
	}

	kind, fmtEnum, meta0, meta1, meta2, meta3, payload, flags, aux := buildNativePayload(row, sourcePath, data)

	digest := blake2b16(payload)
	storedPayload, codec := compressPayload(fmtEnum, payload)

	return Result{
		Kind:          kind,
		Format:        fmtEnum,
		Meta0:         meta0,
		Meta1:         meta1,
		Meta2:         meta2,
		Meta3:         meta3,
		Flags:         flags,
		Aux:           aux,
		Digest:        digest,
		Compression:   codec,
		StoredPayload: storedPayload,
		DecodedSize:   uint32(len(payload)),
	}
}

func missingResult() Result {
	return Result{
		Kind:          format.KindOther,
		Format:        format.FormatRawBytes,
		Flags:         format.FlagConversionFailed,
		Digest:        blake2b16(nil),
		Compression:   format.CodecNone,
		StoredPayload: nil,
		DecodedSize:   0,
	}
}

// buildNativePayload dispatches row to the decoder matching its source
// extension (or its declared semantic kind, for audio), falling back to
// raw bytes with FlagConversionFailed set if the decoder errors, and to
// plain raw bytes with no flag if no decoder claims the row at all.
func buildNativePayload(row Row, sourcePath string, data []byte) (kind format.AssetKind, fmtEnum format.AssetFormat, meta0, meta1, meta2, meta3 uint32, payload []byte, flags uint32, aux [8]uint32) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(sourcePath), "."))
	fallbackKind := format.SemanticKindToAssetKind(strings.ToLower(row.SemanticKind))

	switch {
	case ext == "obj":
		res, err := mesh.Decode(bytes.NewReader(data))
		if err != nil {
			return fallbackKind, format.FormatRawBytes, 0, 0, 0, 0, data, format.FlagConversionFailed, aux
		}
		aux = [8]uint32{
			f32bits(res.BoundsMin[0]), f32bits(res.BoundsMin[1]), f32bits(res.BoundsMin[2]),
			f32bits(res.BoundsMax[0]), f32bits(res.BoundsMax[1]), f32bits(res.BoundsMax[2]),
			f32bits(res.Radius), 0,
		}
		return format.KindMesh, format.FormatMeshPNUVF32U32, res.VertexCount, res.IndexCount, res.VertexStride, res.IndexOffset, res.Payload, format.FlagHasBounds, aux

	case image.Recognized(ext):
		res, err := image.Decode(sourcePath, bytes.NewReader(data))
		if err != nil {
			return fallbackKind, format.FormatRawBytes, 0, 0, 0, 0, data, format.FlagConversionFailed, aux
		}
		return format.KindImage, format.FormatImageRGBA8Mips, res.Width, res.Height, res.MipCount, res.BytesPerPx, res.Payload, 0, aux

	case strings.ToLower(row.SemanticKind) == "audio":
		res, err := audio.Decode(bytes.NewReader(data))
		if err != nil {
			return fallbackKind, format.FormatRawBytes, 0, 0, 0, 0, data, format.FlagConversionFailed, aux
		}
		return format.KindAudio, format.FormatAudioPCM16Interleaved, res.SampleRate, res.ChannelCount, res.FrameCount, 16, res.Payload, 0, aux
	}

	return fallbackKind, format.FormatRawBytes, 0, 0, 0, 0, data, 0, aux
}

func compressPayload(fmtEnum format.AssetFormat, payload []byte) ([]byte, format.CompressionCodec) {
	stored, codec, err := compress.Apply(fmtEnum, payload)
	if err != nil {
		return payload, format.CodecNone
	}

	return stored, codec
}

// blake2b16 computes the 16-byte BLAKE2b digest used to dedup decoded
// payloads across rows (§4.8's dedup key).
func blake2b16(data []byte) [digestSize]byte {
	var out [digestSize]byte

	h, err := blake2b.New(digestSize, nil)
	if err != nil {
		// blake2b.New only errors for an invalid key or out-of-range
		// digest size; digestSize (16) and a nil key are always valid.
		panic(err)
	}
	h.Write(data)
	copy(out[:], h.Sum(nil))

	return out
}

func f32bits(f float32) uint32 {
	return math.Float32bits(f)
}
