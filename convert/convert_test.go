package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greatbadbeyond/gbpack/format"
)

func TestConvert_MissingSourceProducesFailureFlag(t *testing.T) {
	res := Convert(Row{RelativePath: "does/not/exist.bin", SemanticKind: "document"}, t.TempDir())

	require.Equal(t, format.FormatRawBytes, res.Format)
	require.Equal(t, format.KindOther, res.Kind)
	require.NotZero(t, res.Flags&format.FlagConversionFailed)
	require.Empty(t, res.StoredPayload)
	require.EqualValues(t, 0, res.DecodedSize)
}

func TestConvert_RawFallbackForUnrecognizedFormat(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "data.bin"), []byte("hello world"), 0o644))

	res := Convert(Row{RelativePath: "data.bin", SemanticKind: "archive"}, root)

	require.Equal(t, format.FormatRawBytes, res.Format)
	require.Equal(t, format.KindOther, res.Kind)
	require.Zero(t, res.Flags&format.FlagConversionFailed)
	require.Equal(t, []byte("hello world"), res.StoredPayload)
}

func TestConvert_BrokenMeshFileFallsBackWithFailureFlag(t *testing.T) {
	root := t.TempDir()
	// no 'v' directives at all: decode should fail with empty payload.
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.obj"), []byte("# nothing here\n"), 0o644))

	res := Convert(Row{RelativePath: "broken.obj", SemanticKind: "model"}, root)

	require.Equal(t, format.FormatRawBytes, res.Format)
	require.Equal(t, format.KindMesh, res.Kind)
	require.NotZero(t, res.Flags&format.FlagConversionFailed)
}

func TestConvert_GoodMeshFileSucceeds(t *testing.T) {
	root := t.TempDir()
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "tri.obj"), []byte(obj), 0o644))

	res := Convert(Row{RelativePath: "tri.obj", SemanticKind: "model"}, root)

	require.Equal(t, format.FormatMeshPNUVF32U32, res.Format)
	require.Equal(t, format.KindMesh, res.Kind)
	require.Zero(t, res.Flags&format.FlagConversionFailed)
	require.NotZero(t, res.Flags&format.FlagHasBounds)
	require.NotEmpty(t, res.StoredPayload)
}

func TestConvert_DigestIsStableForIdenticalBytes(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.bin"), []byte("same-bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.bin"), []byte("same-bytes"), 0o644))

	a := Convert(Row{RelativePath: "a.bin", SemanticKind: "archive"}, root)
	b := Convert(Row{RelativePath: "b.bin", SemanticKind: "archive"}, root)

	require.Equal(t, a.Digest, b.Digest)
	require.Equal(t, a.Key(), b.Key())
}

func TestConvert_BrokenMeshFallbackIsStillCompressible(t *testing.T) {
	root := t.TempDir()
	// no 'v' directives: decode fails, falling back to RAW_BYTES while
	// SemanticKindToAssetKind still reports KindMesh for a "model" row.
	// Compression eligibility must key off the stored format, not kind.
	payload := make([]byte, 0, 2000)
	for len(payload) < 2000 {
		payload = append(payload, []byte("# comment line padding out this broken obj file\n")...)
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken_big.obj"), payload, 0o644))

	res := Convert(Row{RelativePath: "broken_big.obj", SemanticKind: "model"}, root)

	require.Equal(t, format.FormatRawBytes, res.Format)
	require.Equal(t, format.KindMesh, res.Kind)
	require.NotZero(t, res.Flags&format.FlagConversionFailed)
	require.Equal(t, format.CodecDeflateZlib, res.Compression)
	require.Less(t, len(res.StoredPayload), len(payload))
}

func TestConvert_MeshNeverCompressed(t *testing.T) {
	root := t.TempDir()
	var obj string
	for i := 0; i < 500; i++ {
		obj += "v 0 0 0\n"
	}
	obj += "f 1 2 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.obj"), []byte(obj), 0o644))

	res := Convert(Row{RelativePath: "big.obj", SemanticKind: "model"}, root)
	require.Equal(t, format.CodecNone, res.Compression)
}
