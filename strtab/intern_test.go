package strtab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTable_InternDeduplicates(t *testing.T) {
	tbl := New()

	a := tbl.Intern("meshes/crate.obj")
	b := tbl.Intern("meshes/crate.obj")
	require.Equal(t, a, b)

	c := tbl.Intern("meshes/barrel.obj")
	require.NotEqual(t, a, c)
}

func TestTable_NulTerminatedNotCountedInLength(t *testing.T) {
	tbl := New()

	ref := tbl.Intern("hi")
	require.Equal(t, uint32(0), ref.Offset)
	require.Equal(t, uint32(2), ref.Length)

	// three bytes were written: 'h', 'i', NUL
	require.Equal(t, 3, tbl.Len())
	require.Equal(t, byte(0), tbl.Bytes()[2])
}

func TestTable_SequentialOffsetsAccountForNul(t *testing.T) {
	tbl := New()

	first := tbl.Intern("ab")
	second := tbl.Intern("cde")

	require.Equal(t, uint32(0), first.Offset)
	require.Equal(t, uint32(3), second.Offset) // "ab\x00" is 3 bytes
	require.Equal(t, uint32(3), second.Length)
}

func TestTable_EmptyString(t *testing.T) {
	tbl := New()

	ref := tbl.Intern("")
	require.Equal(t, uint32(0), ref.Length)
	require.Equal(t, 1, tbl.Len()) // just the NUL
}
