package packfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/greatbadbeyond/gbpack/format"
	"github.com/greatbadbeyond/gbpack/internal/errs"
)

// Header mirrors the fixed 68-byte header at offset 0 of a pack file.
type Header struct {
	Magic             uint32
	Version           uint32
	Flags             uint32
	AssetCount        uint32
	StringTableOffset uint64
	StringTableSize   uint64
	AssetTableOffset  uint64
	AssetTableSize    uint64
	PayloadOffset     uint64
	PayloadSize       uint64
}

// Record is the decoded form of one on-disk asset-table entry. String
// fields are resolved views into the reader's string table region.
type Record struct {
	Name         string
	RelativePath string
	SemanticKind string
	ContentRole  string
	EngineHint   string
	SemanticTags string

	Kind        format.AssetKind
	Format      format.AssetFormat
	Flags       uint32
	AliasIndex  uint32
	Meta        [4]uint32
	Compression format.CompressionCodec
	Aux         [8]uint32

	PayloadOffset uint64
	PayloadSize   uint64
	DecodedSize   uint64
}

// MeshBounds is the decoded AABB/radius carried by a mesh record with
// FlagHasBounds set.
type MeshBounds struct {
	Min    [3]float32
	Max    [3]float32
	Radius float32
}

// Reader provides read-only, bounds-checked access to a pack file mapped
// into memory. It exists to verify what Write produced; production
// consumers of a pack are outside this module's scope.
type Reader struct {
	file *os.File
	data mmap.MMap
	hdr  Header
}

// Open memory-maps path and validates its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pack file: %w", err)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap pack file: %w", err)
	}

	r := &Reader{file: f, data: m}
	if err := r.parseHeader(); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// Close unmaps and closes the underlying file.
func (r *Reader) Close() error {
	var mmapErr, fileErr error
	if r.data != nil {
		mmapErr = r.data.Unmap()
	}
	if r.file != nil {
		fileErr = r.file.Close()
	}
	if mmapErr != nil {
		return mmapErr
	}
	return fileErr
}

// Header returns the parsed and validated header.
func (r *Reader) Header() Header {
	return r.hdr
}

func (r *Reader) parseHeader() error {
	if len(r.data) < format.HeaderSize {
		return errs.ErrShortHeader
	}

	h := Header{
		Magic:             binary.LittleEndian.Uint32(r.data[0:4]),
		Version:           binary.LittleEndian.Uint32(r.data[4:8]),
		Flags:             binary.LittleEndian.Uint32(r.data[8:12]),
		AssetCount:        binary.LittleEndian.Uint32(r.data[12:16]),
		StringTableOffset: binary.LittleEndian.Uint64(r.data[20:28]),
		StringTableSize:   binary.LittleEndian.Uint64(r.data[28:36]),
		AssetTableOffset:  binary.LittleEndian.Uint64(r.data[36:44]),
		AssetTableSize:    binary.LittleEndian.Uint64(r.data[44:52]),
		PayloadOffset:     binary.LittleEndian.Uint64(r.data[52:60]),
		PayloadSize:       binary.LittleEndian.Uint64(r.data[60:68]),
	}

	if h.Magic != format.PackMagic {
		return errs.ErrBadMagic
	}
	if h.Version != format.PackVersion {
		return errs.ErrBadVersion
	}

	fileSize := uint64(len(r.data))
	if h.StringTableOffset+h.StringTableSize > fileSize ||
		h.AssetTableOffset+h.AssetTableSize > fileSize ||
		h.PayloadOffset+h.PayloadSize > fileSize {
		return errs.ErrRegionOutOfBounds
	}

	if h.AssetTableSize%uint64(format.RecordSize) != 0 {
		return errs.ErrMisalignedAssetTable
	}
	if h.AssetTableSize/uint64(format.RecordSize) != uint64(h.AssetCount) {
		return errs.ErrMisalignedAssetTable
	}

	r.hdr = h
	return nil
}

// AssetCount returns the number of records in the asset table.
func (r *Reader) AssetCount() int {
	return int(r.hdr.AssetCount)
}

// Record decodes and returns the i'th asset-table entry.
func (r *Reader) Record(i int) (Record, error) {
	if i < 0 || i >= int(r.hdr.AssetCount) {
		return Record{}, fmt.Errorf("%w: record %d", errs.ErrIndexOutOfRange, i)
	}

	base := r.hdr.AssetTableOffset + uint64(i)*uint64(format.RecordSize)
	rec := r.data[base : base+uint64(format.RecordSize)]

	readStringRef := func(off int) (string, error) {
		o := binary.LittleEndian.Uint32(rec[off : off+4])
		l := binary.LittleEndian.Uint32(rec[off+4 : off+8])
		return r.resolveString(o, l)
	}

	name, err := readStringRef(0)
	if err != nil {
		return Record{}, err
	}
	relPath, err := readStringRef(8)
	if err != nil {
		return Record{}, err
	}
	semanticKind, err := readStringRef(16)
	if err != nil {
		return Record{}, err
	}
	contentRole, err := readStringRef(24)
	if err != nil {
		return Record{}, err
	}
	engineHint, err := readStringRef(32)
	if err != nil {
		return Record{}, err
	}
	semanticTags, err := readStringRef(40)
	if err != nil {
		return Record{}, err
	}

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(rec[off : off+4]) }
	u64 := func(off int) uint64 { return binary.LittleEndian.Uint64(rec[off : off+8]) }

	out := Record{
		Name:         name,
		RelativePath: relPath,
		SemanticKind: semanticKind,
		ContentRole:  contentRole,
		EngineHint:   engineHint,
		SemanticTags: semanticTags,
		Kind:         format.AssetKind(u32(48)),
		Format:       format.AssetFormat(u32(52)),
		Flags:        u32(56),
		AliasIndex:   u32(60),
		Meta:         [4]uint32{u32(64), u32(68), u32(72), u32(76)},
		Compression:  format.CompressionCodec(u32(80)),
	}
	for j := 0; j < 8; j++ {
		out.Aux[j] = u32(84 + j*4)
	}
	out.PayloadOffset = u64(116)
	out.PayloadSize = u64(124)
	out.DecodedSize = u64(132)

	return out, nil
}

func (r *Reader) resolveString(offset, length uint32) (string, error) {
	start := r.hdr.StringTableOffset + uint64(offset)
	end := start + uint64(length)
	if end > r.hdr.StringTableOffset+r.hdr.StringTableSize {
		return "", errs.ErrStringOutOfBounds
	}
	return string(r.data[start:end]), nil
}

// Payload returns the raw stored bytes for a record's payload region.
func (r *Reader) Payload(rec Record) ([]byte, error) {
	start := r.hdr.PayloadOffset + rec.PayloadOffset
	end := start + rec.PayloadSize
	if end > r.hdr.PayloadOffset+r.hdr.PayloadSize {
		return nil, errs.ErrPayloadOutOfBounds
	}
	return r.data[start:end], nil
}

// MeshBoundsOf returns rec's bounding box/radius if rec is a mesh with
// FlagHasBounds set; ok is false otherwise.
func MeshBoundsOf(rec Record) (bounds MeshBounds, ok bool) {
	if rec.Format != format.FormatMeshPNUVF32U32 || rec.Flags&format.FlagHasBounds == 0 {
		return MeshBounds{}, false
	}

	return MeshBounds{
		Min:    [3]float32{math.Float32frombits(rec.Aux[0]), math.Float32frombits(rec.Aux[1]), math.Float32frombits(rec.Aux[2])},
		Max:    [3]float32{math.Float32frombits(rec.Aux[3]), math.Float32frombits(rec.Aux[4]), math.Float32frombits(rec.Aux[5])},
		Radius: math.Float32frombits(rec.Aux[6]),
	}, true
}
