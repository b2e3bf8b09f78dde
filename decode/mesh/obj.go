// Package mesh decodes Wavefront OBJ geometry into the pack's
// MESH_PNUV_F32_U32 wire format: an interleaved position/normal/uv vertex
// array followed by a sequential index array, with the source mesh's
// bounding box and bounding sphere radius carried alongside.
package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/greatbadbeyond/gbpack/internal/errs"
	"github.com/greatbadbeyond/gbpack/internal/pool"
)

// vertexFloats is the number of float32 fields per emitted vertex:
// position (3) + normal (3) + uv (2).
const vertexFloats = 8

// vertexStride is the byte size of one emitted vertex record.
const vertexStride = vertexFloats * 4

type vec3 struct{ x, y, z float32 }
type vec2 struct{ u, v float32 }

// Result holds a decoded mesh's wire payload plus the metadata the caller
// stamps into the asset record's meta/aux fields.
type Result struct {
	Payload      []byte
	VertexCount  uint32
	IndexCount   uint32
	VertexStride uint32
	IndexOffset  uint32
	BoundsMin    [3]float32
	BoundsMax    [3]float32
	Radius       float32
}

// Decode parses an OBJ stream and returns its native payload. Faces with
// more than three vertices are fan-triangulated. A face vertex missing a
// normal or uv substitutes (0,1,0) or (0,0) respectively.
func Decode(r io.Reader) (Result, error) {
	var (
		positions []vec3
		normals   []vec3
		uvs       []vec2
		vertices  []float32
		indices   []uint32
	)

	minX, minY, minZ := float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY, maxZ := float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))

	emitFaceVertex := func(token string) error {
		var pIdx, tIdx, nIdx int

		parts := strings.Split(token, "/")
		if len(parts) >= 1 && parts[0] != "" {
			v, err := strconv.Atoi(parts[0])
			if err != nil {
				return fmt.Errorf("obj face position token %q: %w", token, err)
			}
			pIdx = v
		}
		if len(parts) >= 2 && parts[1] != "" {
			v, err := strconv.Atoi(parts[1])
			if err != nil {
				return fmt.Errorf("obj face uv token %q: %w", token, err)
			}
			tIdx = v
		}
		if len(parts) >= 3 && parts[2] != "" {
			v, err := strconv.Atoi(parts[2])
			if err != nil {
				return fmt.Errorf("obj face normal token %q: %w", token, err)
			}
			nIdx = v
		}

		pZero := toZeroIndex(pIdx, len(positions))
		if pZero < 0 || pZero >= len(positions) {
			return fmt.Errorf("%w: position", errs.ErrIndexOutOfRange)
		}
		p := positions[pZero]

		n := vec3{0, 1, 0}
		if nIdx != 0 {
			nZero := toZeroIndex(nIdx, len(normals))
			if nZero < 0 || nZero >= len(normals) {
				return fmt.Errorf("%w: normal", errs.ErrIndexOutOfRange)
			}
			n = normals[nZero]
		}

		uv := vec2{0, 0}
		if tIdx != 0 {
			tZero := toZeroIndex(tIdx, len(uvs))
			if tZero < 0 || tZero >= len(uvs) {
				return fmt.Errorf("%w: uv", errs.ErrIndexOutOfRange)
			}
			uv = uvs[tZero]
		}

		vertices = append(vertices, p.x, p.y, p.z, n.x, n.y, n.z, uv.u, uv.v)
		indices = append(indices, uint32(len(indices)))

		minX, minY, minZ = min32(minX, p.x), min32(minY, p.y), min32(minZ, p.z)
		maxX, maxY, maxZ = max32(maxX, p.x), max32(maxY, p.y), max32(maxZ, p.z)

		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			p, err := parseVec3(fields[1:4])
			if err != nil {
				return Result{}, fmt.Errorf("obj position: %w", err)
			}
			positions = append(positions, p)

		case "vn":
			if len(fields) < 4 {
				continue
			}
			n, err := parseVec3(fields[1:4])
			if err != nil {
				return Result{}, fmt.Errorf("obj normal: %w", err)
			}
			normals = append(normals, n)

		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, err := strconv.ParseFloat(fields[1], 32)
			if err != nil {
				return Result{}, fmt.Errorf("obj uv: %w", err)
			}
			v, err := strconv.ParseFloat(fields[2], 32)
			if err != nil {
				return Result{}, fmt.Errorf("obj uv: %w", err)
			}
			uvs = append(uvs, vec2{float32(u), 1 - float32(v)})

		case "f":
			if len(fields) < 4 {
				continue
			}
			faceTokens := fields[1:]
			for tri := 1; tri < len(faceTokens)-1; tri++ {
				if err := emitFaceVertex(faceTokens[0]); err != nil {
					return Result{}, err
				}
				if err := emitFaceVertex(faceTokens[tri]); err != nil {
					return Result{}, err
				}
				if err := emitFaceVertex(faceTokens[tri+1]); err != nil {
					return Result{}, err
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("scan obj stream: %w", err)
	}

	if len(vertices) == 0 || len(indices) == 0 {
		return Result{}, errs.ErrEmptyMeshPayload
	}

	centerX := (minX + maxX) * 0.5
	centerY := (minY + maxY) * 0.5
	centerZ := (minZ + maxZ) * 0.5

	var radiusSq float32
	for i := 0; i < len(vertices); i += vertexFloats {
		dx := vertices[i] - centerX
		dy := vertices[i+1] - centerY
		dz := vertices[i+2] - centerZ
		d := dx*dx + dy*dy + dz*dz
		if d > radiusSq {
			radiusSq = d
		}
	}
	radius := float32(math.Sqrt(float64(radiusSq)))

	indexOffset := len(vertices) * 4
	totalBytes := indexOffset + len(indices)*4

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	buf.ExtendOrGrow(totalBytes)
	staging := buf.Bytes()

	for i, f := range vertices {
		binary.LittleEndian.PutUint32(staging[i*4:], math.Float32bits(f))
	}
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(staging[indexOffset+i*4:], idx)
	}

	// staging is backed by a pooled buffer about to be returned for reuse,
	// so the record's payload must own an independent copy.
	payload := make([]byte, totalBytes)
	copy(payload, staging)

	return Result{
		Payload:      payload,
		VertexCount:  uint32(len(vertices) / vertexFloats),
		IndexCount:   uint32(len(indices)),
		VertexStride: vertexStride,
		IndexOffset:  uint32(indexOffset),
		BoundsMin:    [3]float32{minX, minY, minZ},
		BoundsMax:    [3]float32{maxX, maxY, maxZ},
		Radius:       radius,
	}, nil
}

func parseVec3(fields []string) (vec3, error) {
	x, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 32)
	if err != nil {
		return vec3{}, err
	}
	return vec3{float32(x), float32(y), float32(z)}, nil
}

func toZeroIndex(index, count int) int {
	switch {
	case index > 0:
		return index - 1
	case index < 0:
		return count + index
	default:
		return -1
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
