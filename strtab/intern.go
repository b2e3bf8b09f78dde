// Package strtab implements the append-only string table shared by every
// asset record in a pack: a single byte arena holding every distinct
// string seen during a build, each entry NUL-terminated for cheap C-string
// interop and referenced elsewhere by (offset, length) pairs.
package strtab

import "github.com/greatbadbeyond/gbpack/internal/pool"

// Ref is a reference into a Table's arena: the byte offset of the string's
// first byte and its length, not counting the trailing NUL.
type Ref struct {
	Offset uint32
	Length uint32
}

// Table is an append-only string interner. The zero value is not usable;
// construct one with New.
type Table struct {
	buf  *pool.ByteBuffer
	refs map[string]Ref
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		buf:  pool.NewByteBuffer(4096),
		refs: make(map[string]Ref),
	}
}

// Intern returns s's reference, appending s to the arena on first sight.
// Repeated calls with the same string are idempotent and return the same
// reference.
func (t *Table) Intern(s string) Ref {
	if ref, ok := t.refs[s]; ok {
		return ref
	}

	ref := Ref{
		Offset: uint32(t.buf.Len()),
		Length: uint32(len(s)),
	}
	t.buf.MustWrite([]byte(s))
	t.buf.MustWrite([]byte{0})
	t.refs[s] = ref

	return ref
}

// Len returns the current size of the arena in bytes, including every
// trailing NUL written so far.
func (t *Table) Len() int {
	return t.buf.Len()
}

// Bytes returns the arena's contents. The returned slice is only valid
// until the next call to Intern.
func (t *Table) Bytes() []byte {
	return t.buf.Bytes()
}
