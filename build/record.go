package build

import (
	"github.com/greatbadbeyond/gbpack/format"
	"github.com/greatbadbeyond/gbpack/strtab"
)

// Record is one asset's in-memory representation between conversion and
// the final container write: the six interned string references plus
// every wire field of §6.2's asset record, still in host byte order.
type Record struct {
	NameRef   strtab.Ref
	PathRef   strtab.Ref
	KindRef   strtab.Ref
	RoleRef   strtab.Ref
	EngineRef strtab.Ref
	TagsRef   strtab.Ref

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
