package packfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greatbadbeyond/gbpack/build"
	"github.com/greatbadbeyond/gbpack/format"
	"github.com/greatbadbeyond/gbpack/strtab"
)

func TestWriteFile_RoundTrip(t *testing.T) {
	strs := strtab.New()

	payload := []byte("fake mesh payload bytes............")

	rec := build.Record{
		NameRef:     strs.Intern("Crate"),
		PathRef:     strs.Intern("models/crate.obj"),
		KindRef:     strs.Intern("model"),
		RoleRef:     strs.Intern("prop"),
		EngineRef:   strs.Intern("unity"),
		TagsRef:     strs.Intern("container"),
		Kind:        format.KindMesh,
		Format:      format.FormatMeshPNUVF32U32,
		AliasIndex:  format.InvalidIndex,
		PayloadSize: uint64(len(payload)),
		DecodedSize: uint64(len(payload)),
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "out.pack")
	require.NoError(t, WriteFile(path, strs, []build.Record{rec}, payload))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	hdr := r.Header()
	require.Equal(t, format.PackMagic, hdr.Magic)
	require.Equal(t, format.PackVersion, hdr.Version)
	require.EqualValues(t, 1, hdr.AssetCount)
	require.Equal(t, 1, r.AssetCount())

	got, err := r.Record(0)
	require.NoError(t, err)
	require.Equal(t, "Crate", got.Name)
	require.Equal(t, "models/crate.obj", got.RelativePath)
	require.Equal(t, "model", got.SemanticKind)
	require.Equal(t, format.KindMesh, got.Kind)
	require.Equal(t, format.FormatMeshPNUVF32U32, got.Format)

	gotPayload, err := r.Payload(got)
	require.NoError(t, err)
	require.Equal(t, payload, gotPayload)
}

func TestWriteFile_MultipleRecordsAndAliasIndex(t *testing.T) {
	strs := strtab.New()

	a := build.Record{
		NameRef: strs.Intern("A"), PathRef: strs.Intern("a.bin"), KindRef: strs.Intern("archive"),
		RoleRef: strs.Intern("data"), EngineRef: strs.Intern("none"), TagsRef: strs.Intern(""),
		AliasIndex: format.InvalidIndex, PayloadSize: 4, DecodedSize: 4,
	}
	b := build.Record{
		NameRef: strs.Intern("B"), PathRef: strs.Intern("b.bin"), KindRef: strs.Intern("archive"),
		RoleRef: strs.Intern("data"), EngineRef: strs.Intern("none"), TagsRef: strs.Intern(""),
		AliasIndex: 0, Flags: format.FlagAlias,
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "multi.pack")
	require.NoError(t, WriteFile(path, strs, []build.Record{a, b}, []byte("data")))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 2, r.AssetCount())

	got, err := r.Record(1)
	require.NoError(t, err)
	require.EqualValues(t, 0, got.AliasIndex)
	require.NotZero(t, got.Flags&format.FlagAlias)
}

func TestOpen_RejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pack")
	require.NoError(t, os.WriteFile(path, make([]byte, 68), 0o644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestOpen_RejectsShortFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.pack")
	require.NoError(t, os.WriteFile(path, make([]byte, 10), 0o644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestOpen_RejectsBadVersion(t *testing.T) {
	strs := strtab.New()
	rec := build.Record{AliasIndex: format.InvalidIndex}

	dir := t.TempDir()
	path := filepath.Join(dir, "v.pack")
	require.NoError(t, WriteFile(path, strs, []build.Record{rec}, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[4] = 0xFF // corrupt version field

	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = Open(path)
	require.Error(t, err)
}
