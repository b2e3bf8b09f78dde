package format

// Fixed on-disk sizes for the pack container, §6.2.
const (
	// HeaderSize is the byte size of the fixed pack header:
	// 5 x u32 + 6 x u64 = 20 + 48 = 68 bytes.
	HeaderSize = 68

	// StringRefSize is the byte size of one (offset, length) string
	// reference: 2 x u32.
	StringRefSize = 8

	// StringRefsPerRecord is the number of string references carried by
	// each asset record (name, relative_path, semantic_kind, content_role,
	// engine_hint, semantic_tags).
	StringRefsPerRecord = 6

	// RecordFixedU32Count is the count of u32 fields in an asset record
	// after the string references: kind, format, flags, alias_index,
	// meta0..meta3, compression, aux0..aux7 = 4 + 4 + 1 + 8 = 17.
	RecordFixedU32Count = 17

	// RecordU64Count is the count of trailing u64 fields: payload_offset,
	// payload_size, decoded_size.
	RecordU64Count = 3

	// RecordSize is the fixed byte size of one asset record:
	// (6 string refs x 8 bytes) + (17 u32 x 4 bytes) + (3 u64 x 8 bytes)
	// = 48 + 68 + 24 = 140 bytes. This matches §6.2's "29 x u32 followed
	// by 3 x u64" description: 6 string refs contribute 12 u32 words,
	// plus the 17 listed above, for 29 u32 words total.
	RecordSize = (StringRefsPerRecord*2+RecordFixedU32Count)*4 + RecordU64Count*8
)
