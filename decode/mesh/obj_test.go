package mesh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greatbadbeyond/gbpack/internal/errs"
)

const triangleOBJ = `
# a single triangle
v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
vt 0.0 0.0
vt 1.0 0.0
vt 0.0 1.0
vn 0.0 0.0 1.0
f 1/1/1 2/2/1 3/3/1
`

func TestDecode_Triangle(t *testing.T) {
	res, err := Decode(strings.NewReader(triangleOBJ))
	require.NoError(t, err)

	require.EqualValues(t, 3, res.VertexCount)
	require.EqualValues(t, 3, res.IndexCount)
	require.EqualValues(t, vertexStride, res.VertexStride)
	require.EqualValues(t, res.VertexCount*vertexStride, res.IndexOffset)
	require.Len(t, res.Payload, int(res.IndexOffset)+int(res.IndexCount)*4)

	require.InDelta(t, 0, res.BoundsMin[0], 1e-6)
	require.InDelta(t, 1, res.BoundsMax[0], 1e-6)
	require.Greater(t, res.Radius, float32(0))
}

func TestDecode_FanTriangulatesQuad(t *testing.T) {
	const quad = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	res, err := Decode(strings.NewReader(quad))
	require.NoError(t, err)

	// a quad fan-triangulates into two triangles: 6 emitted vertices.
	require.EqualValues(t, 6, res.VertexCount)
	require.EqualValues(t, 6, res.IndexCount)
}

func TestDecode_MissingNormalAndUVDefaults(t *testing.T) {
	const noAttrs = `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	res, err := Decode(strings.NewReader(noAttrs))
	require.NoError(t, err)
	require.EqualValues(t, 3, res.VertexCount)
}

func TestDecode_OutOfRangeIndexFails(t *testing.T) {
	const bad = `
v 0 0 0
f 1 2 3
`
	_, err := Decode(strings.NewReader(bad))
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestDecode_EmptyStreamFails(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	require.ErrorIs(t, err, errs.ErrEmptyMeshPayload)
}

func TestDecode_NegativeIndex(t *testing.T) {
	const rel = `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	res, err := Decode(strings.NewReader(rel))
	require.NoError(t, err)
	require.EqualValues(t, 3, res.VertexCount)
}
