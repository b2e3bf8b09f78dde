// Package compress implements the pack's payload compression gate: a
// small Codec interface plus the two concrete codecs the container format
// recognizes, and the eligibility/acceptance-ratio decision that chooses
// between them for a given payload.
package compress

import (
	"fmt"

	"github.com/greatbadbeyond/gbpack/format"
)

// Codec compresses and decompresses payload bytes for one on-disk codec.
type Codec interface {
	// Compress returns data's compressed form.
	Compress(data []byte) ([]byte, error)

	// Decompress returns a compressed payload's original bytes.
	Decompress(data []byte) ([]byte, error)
}

// GetCodec returns the built-in Codec for the given on-disk codec id.
func GetCodec(codec format.CompressionCodec) (Codec, error) {
	switch codec {
	case format.CodecNone:
		return NoopCodec{}, nil
	case format.CodecDeflateZlib:
		return NewDeflateZlibCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported compression codec: %s", codec)
	}
}

// minimum payload size, in bytes, before compression is even attempted.
const minCompressibleSize = 256

// Eligible reports whether a payload stored in fmtEnum may ever be
// compressed. Mesh payloads are stored raw regardless of the row's
// semantic kind: their vertex/index bytes are consumed directly by
// graphics APIs that expect tightly packed float/uint arrays, so the gate
// keys off the wire format actually written, not the asset's media
// category (a failed mesh decode still reports AssetKind mesh but falls
// back to the RAW_BYTES format, which is eligible).
func Eligible(fmtEnum format.AssetFormat) bool {
	return fmtEnum != format.FormatMeshPNUVF32U32
}

// Apply runs the full §4.6 decision for one payload: skip if fmtEnum is
// ineligible or the payload is too small; otherwise deflate-compress and
// keep the result only if it saves more than max(64, len(payload)/100)
// bytes. It returns the bytes to store and the codec that produced them.
func Apply(fmtEnum format.AssetFormat, payload []byte) ([]byte, format.CompressionCodec, error) {
	if !Eligible(fmtEnum) || len(payload) < minCompressibleSize {
		return payload, format.CodecNone, nil
	}

	codec := NewDeflateZlibCodec()
	compressed, err := codec.Compress(payload)
	if err != nil {
		return payload, format.CodecNone, fmt.Errorf("deflate compress: %w", err)
	}

	threshold := len(payload) / 100
	if threshold < 64 {
		threshold = 64
	}

	if len(compressed)+threshold < len(payload) {
		return compressed, format.CodecDeflateZlib, nil
	}

	return payload, format.CodecNone, nil
}
