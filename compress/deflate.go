package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// DeflateZlibCodec implements Codec using RFC 1950 zlib framing around a
// DEFLATE stream, backing format.CodecDeflateZlib.
type DeflateZlibCodec struct {
	level int
}

var _ Codec = DeflateZlibCodec{}

// NewDeflateZlibCodec returns a codec compressing at zlib's default level,
// a moderate trade-off between ratio and throughput suited to the one-shot
// payload sizes seen during a build.
func NewDeflateZlibCodec() DeflateZlibCodec {
	return DeflateZlibCodec{level: zlib.DefaultCompression}
}

// Compress zlib-compresses data.
func (c DeflateZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("new zlib writer: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("zlib write: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func (c DeflateZlibCodec) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("new zlib reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib read: %w", err)
	}

	return out, nil
}
