// Package format defines the wire-level enums and constants shared by every
// stage of the pack build: the kind/format tags stamped on a converted
// asset, the compression codec selector, and the per-record flag bits.
// Everything here is a pure value type; nothing in this package touches
// I/O or concurrency.
package format

// AssetKind classifies a record by media category, independent of the
// exact on-disk format used to store it (a failed mesh decode still
// reports KindMesh, carried via the manifest's declared semantic_kind).
type AssetKind uint32

const (
	KindRaw AssetKind = iota
	KindMesh
	KindImage
	KindAudio
	KindDocument
	KindOther
)

func (k AssetKind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindMesh:
		return "mesh"
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindDocument:
		return "document"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// SemanticKindToAssetKind maps a manifest's semantic_kind column to the
// fallback AssetKind used when no decoder claims the row (§4.5 / §4.8's
// build_native_payload fallback path).
func SemanticKindToAssetKind(semanticKind string) AssetKind {
	switch semanticKind {
	case "model":
		return KindMesh
	case "image":
		return KindImage
	case "audio":
		return KindAudio
	case "document":
		return KindDocument
	default:
		return KindOther
	}
}

// AssetFormat identifies the exact byte layout of a record's payload.
type AssetFormat uint32

const (
	FormatRawBytes AssetFormat = iota
	FormatMeshPNUVF32U32
	FormatImageRGBA8Mips
	FormatAudioPCM16Interleaved
)

func (f AssetFormat) String() string {
	switch f {
	case FormatRawBytes:
		return "RAW_BYTES"
	case FormatMeshPNUVF32U32:
		return "MESH_PNUV_F32_U32"
	case FormatImageRGBA8Mips:
		return "IMAGE_RGBA8_MIPS"
	case FormatAudioPCM16Interleaved:
		return "AUDIO_PCM16_INTERLEAVED"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies how a record's stored payload was encoded
// relative to its decoded form.
type CompressionCodec uint32

const (
	CodecNone CompressionCodec = iota
	CodecDeflateZlib
)

func (c CompressionCodec) String() string {
	switch c {
	case CodecNone:
		return "NONE"
	case CodecDeflateZlib:
		return "DEFLATE_ZLIB"
	default:
		return "UNKNOWN"
	}
}

// Flag bits, §6.2.
const (
	FlagAlias            uint32 = 1 << 0
	FlagConversionFailed uint32 = 1 << 1
	FlagHasBounds        uint32 = 1 << 2
)

// Container-wide constants, §6.2.
const (
	PackMagic    uint32 = 0x4B504247 // "GBPK"
	PackVersion  uint32 = 3
	InvalidIndex uint32 = 0xFFFFFFFF
)
