// Package errs collects the sentinel errors shared across the pack build
// pipeline, in the same style the teacher package uses them: plain
// errors.New values, wrapped with fmt.Errorf("...: %w", ...) at the call
// site that needs to add context.
package errs

import "errors"

var (
	// ErrMissingColumn is returned when the input manifest is missing one
	// of the required columns listed in §6.1.
	ErrMissingColumn = errors.New("manifest missing required column")

	// ErrEmptyMeshPayload is returned when an OBJ source produces no
	// vertices or indices.
	ErrEmptyMeshPayload = errors.New("mesh decode produced no vertices or indices")

	// ErrIndexOutOfRange is returned when an OBJ face references a
	// position, normal, or uv index outside the bounds already parsed.
	ErrIndexOutOfRange = errors.New("obj face index out of range")

	// ErrEmptyAudioPayload is returned when an audio decode yields zero
	// samples.
	ErrEmptyAudioPayload = errors.New("audio decode produced no samples")

	// ErrAliasCycle describes an alias chain that never reaches a record
	// whose alias_index is the none sentinel. The assembler's root walk
	// does not return it: on a cycle it leaves the alias pointing at its
	// first hop (the planner and finalizer never construct a true cycle).
	ErrAliasCycle = errors.New("alias chain did not terminate")

	// ErrShortHeader is returned when a buffer is too small to contain a
	// pack header.
	ErrShortHeader = errors.New("buffer shorter than pack header")

	// ErrBadMagic is returned when a pack's magic number doesn't match.
	ErrBadMagic = errors.New("pack magic mismatch")

	// ErrBadVersion is returned when a pack's version doesn't match.
	ErrBadVersion = errors.New("pack version mismatch")

	// ErrRegionOutOfBounds is returned when a header-declared region
	// (string table, asset table, or payload) would extend past the end
	// of the file.
	ErrRegionOutOfBounds = errors.New("pack region extends past file")

	// ErrMisalignedAssetTable is returned when the asset table size does
	// not divide evenly by the fixed record size, or the resulting count
	// disagrees with the header's asset_count.
	ErrMisalignedAssetTable = errors.New("pack asset table size mismatch")

	// ErrStringOutOfBounds is returned when a string reference resolves
	// outside the string table region.
	ErrStringOutOfBounds = errors.New("string reference out of bounds")

	// ErrPayloadOutOfBounds is returned when a record's payload
	// coordinates resolve outside the payload region.
	ErrPayloadOutOfBounds = errors.New("payload reference out of bounds")

	// ErrNoRecordFuture is returned if the assembler's finalizer reaches a
	// row index with no pending conversion and no alias assignment; this
	// indicates an internal scheduling bug, never a user-facing condition.
	ErrNoRecordFuture = errors.New("no pending conversion for row")
)
