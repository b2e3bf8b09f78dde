// Package packfile writes and (for tests) reads the pack container: the
// fixed header, the interned string table, the fixed-size asset table,
// and the payload region, laid out exactly as §6.2 of the format
// description specifies and always little-endian.
package packfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/greatbadbeyond/gbpack/build"
	"github.com/greatbadbeyond/gbpack/format"
	"github.com/greatbadbeyond/gbpack/strtab"
)

// WriteFile writes a complete pack container to path, replacing any
// existing file only once the new content is fully flushed.
func WriteFile(path string, strs *strtab.Table, records []build.Record, payload []byte) error {
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create pack output: %w", err)
	}

	if err := Write(f, strs, records, payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close pack output: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit pack output: %w", err)
	}

	return nil
}

// Write encodes a complete pack container to w: header, string table,
// asset table, payload, in that order.
func Write(w io.Writer, strs *strtab.Table, records []build.Record, payload []byte) error {
	stringTable := strs.Bytes()
	assetTable := encodeAssetTable(records)

	stringTableOffset := uint64(format.HeaderSize)
	assetTableOffset := stringTableOffset + uint64(len(stringTable))
	payloadOffset := assetTableOffset + uint64(len(assetTable))

	header := make([]byte, format.HeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], format.PackMagic)
	binary.LittleEndian.PutUint32(header[4:8], format.PackVersion)
	binary.LittleEndian.PutUint32(header[8:12], 0) // flags, currently unused
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(records)))
	binary.LittleEndian.PutUint32(header[16:20], 0) // reserved
	binary.LittleEndian.PutUint64(header[20:28], stringTableOffset)
	binary.LittleEndian.PutUint64(header[28:36], uint64(len(stringTable)))
	binary.LittleEndian.PutUint64(header[36:44], assetTableOffset)
	binary.LittleEndian.PutUint64(header[44:52], uint64(len(assetTable)))
	binary.LittleEndian.PutUint64(header[52:60], payloadOffset)
	binary.LittleEndian.PutUint64(header[60:68], uint64(len(payload)))

	for _, chunk := range [][]byte{header, stringTable, assetTable, payload} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("write pack region: %w", err)
		}
	}

	return nil
}

// encodeAssetTable packs every record into its fixed 140-byte wire form.
func encodeAssetTable(records []build.Record) []byte {
	out := make([]byte, len(records)*format.RecordSize)

	for i, r := range records {
		rec := out[i*format.RecordSize : (i+1)*format.RecordSize]
		off := 0

		putStringRef := func(ref strtab.Ref) {
			binary.LittleEndian.PutUint32(rec[off:off+4], ref.Offset)
			binary.LittleEndian.PutUint32(rec[off+4:off+8], ref.Length)
			off += 8
		}
		putU32 := func(v uint32) {
			binary.LittleEndian.PutUint32(rec[off:off+4], v)
			off += 4
		}
		putU64 := func(v uint64) {
			binary.LittleEndian.PutUint64(rec[off:off+8], v)
			off += 8
		}

		putStringRef(r.NameRef)
		putStringRef(r.PathRef)
		putStringRef(r.KindRef)
		putStringRef(r.RoleRef)
		putStringRef(r.EngineRef)
		putStringRef(r.TagsRef)

		putU32(uint32(r.Kind))
		putU32(uint32(r.Format))
		putU32(r.Flags)
		putU32(r.AliasIndex)
		putU32(r.Meta[0])
		putU32(r.Meta[1])
		putU32(r.Meta[2])
		putU32(r.Meta[3])
		putU32(uint32(r.Compression))
		for _, a := range r.Aux {
			putU32(a)
		}

		putU64(r.PayloadOffset)
		putU64(r.PayloadSize)
		putU64(r.DecodedSize)
	}

	return out
}
