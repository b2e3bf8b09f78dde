// Package build assembles a manifest's rows into the pack's final
// in-memory form: the interned string table, one Record per row, and the
// concatenated payload stream. Conversion work runs on a bounded worker
// pool; a single finalizer applies every result in strict manifest order
// so the resulting payload layout never depends on how fast any one
// worker happened to run.
package build

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/greatbadbeyond/gbpack/alias"
	"github.com/greatbadbeyond/gbpack/convert"
	"github.com/greatbadbeyond/gbpack/format"
	"github.com/greatbadbeyond/gbpack/internal/errs"
	"github.com/greatbadbeyond/gbpack/manifest"
	"github.com/greatbadbeyond/gbpack/strtab"
)

// Options configures one Build call.
type Options struct {
	// SourceRoot is prepended to each row's relative path to locate its
	// source file.
	SourceRoot string

	// Workers bounds the number of rows converted concurrently. Values
	// below 1 are treated as 1.
	Workers int

	// MaxInflight bounds the number of rows that may be submitted for
	// conversion before the finalizer has consumed their results,
	// capping memory held by completed-but-unflushed conversions
	// independent of Workers. Zero means 2x Workers.
	MaxInflight int

	// Progress, if non-nil, is called after every finalized record with
	// the number finalized so far and the total row count. Calls come
	// one at a time from a single finalizer goroutine, not from the
	// goroutine that called Build.
	Progress func(done, total int)
}

// Output is the result of a successful Build.
type Output struct {
	Strings *strtab.Table
	Records []Record
	Payload []byte
}

// canonicalEntry is what the dedup table remembers about the first row to
// produce a given decoded payload.
type canonicalEntry struct {
	index       int
	offset      uint64
	size        uint64
	kind        format.AssetKind
	format      format.AssetFormat
	meta        [4]uint32
	compression format.CompressionCodec
	decodedSize uint64
	aux         [8]uint32
	hasBounds   bool
}

// Build converts every row in rows and assembles the resulting records,
// string table, and payload stream.
func Build(ctx context.Context, rows []manifest.Row, opts Options) (Output, error) {
	n := len(rows)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	maxInflight := opts.MaxInflight
	if maxInflight < 1 {
		maxInflight = workers * 2
	}

	relPaths := make([]string, n)
	for i, r := range rows {
		relPaths[i] = r.RelativePath
	}
	aliases := alias.Plan(relPaths)

	strs := strtab.New()
	records := make([]Record, n)
	resultsCh := make([]chan convert.Result, n)

	for i, r := range rows {
		records[i] = Record{
			NameRef:    strs.Intern(r.Name),
			PathRef:    strs.Intern(r.RelativePath),
			KindRef:    strs.Intern(r.SemanticKind),
			RoleRef:    strs.Intern(r.ContentRole),
			EngineRef:  strs.Intern(r.EngineHint),
			TagsRef:    strs.Intern(r.SemanticTags),
			AliasIndex: format.InvalidIndex,
		}

		if canon, ok := aliases[i]; ok {
			records[i].Flags |= format.FlagAlias
			records[i].AliasIndex = uint32(canon)
			continue
		}

		resultsCh[i] = make(chan convert.Result, 1)
	}

	inflight := semaphore.NewWeighted(int64(maxInflight))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var payload []byte
	dedup := make(map[convert.DedupKey]canonicalEntry)

	finalizeErrCh := make(chan error, 1)
	go func() {
		finalizeErrCh <- finalize(rows, records, resultsCh, dedup, &payload, inflight, opts.Progress)
	}()

	var submitErr error
submitLoop:
	for i, row := range rows {
		if records[i].AliasIndex != format.InvalidIndex {
			continue
		}

		if err := inflight.Acquire(gctx, 1); err != nil {
			submitErr = err
			break submitLoop
		}

		i, row := i, row
		g.Go(func() error {
			res := convert.Convert(convert.Row{RelativePath: row.RelativePath, SemanticKind: row.SemanticKind}, opts.SourceRoot)
			resultsCh[i] <- res
			return nil
		})
	}

	if waitErr := g.Wait(); submitErr == nil {
		submitErr = waitErr
	}

	finalizeErr := <-finalizeErrCh

	if submitErr != nil {
		return Output{}, fmt.Errorf("convert rows: %w", submitErr)
	}
	if finalizeErr != nil {
		return Output{}, fmt.Errorf("finalize records: %w", finalizeErr)
	}

	flattenAliasRoots(records)

	return Output{Strings: strs, Records: records, Payload: payload}, nil
}

// finalize consumes each non-aliased row's conversion result in strict
// manifest order, applying it to the row's record and either deduping it
// against an earlier identical payload or appending its stored bytes to
// payload. Each consumed result frees one slot of inflight.
func finalize(rows []manifest.Row, records []Record, resultsCh []chan convert.Result, dedup map[convert.DedupKey]canonicalEntry, payload *[]byte, inflight *semaphore.Weighted, progress func(done, total int)) error {
	total := len(rows)

	for i := range rows {
		if records[i].AliasIndex != format.InvalidIndex {
			if progress != nil {
				progress(i+1, total)
			}
			continue
		}

		ch := resultsCh[i]
		if ch == nil {
			return fmt.Errorf("%w: index %d", errs.ErrNoRecordFuture, i)
		}

		res, ok := <-ch
		if !ok {
			return fmt.Errorf("%w: index %d", errs.ErrNoRecordFuture, i)
		}
		inflight.Release(1)

		applyConversion(i, &records[i], res, dedup, payload)

		if progress != nil {
			progress(i+1, total)
		}
	}

	return nil
}

// applyConversion is the per-row finalization step: §4.8's dedup lookup
// and record write.
func applyConversion(idx int, record *Record, res convert.Result, dedup map[convert.DedupKey]canonicalEntry, payload *[]byte) {
	record.Flags |= res.Flags

	key := res.Key()
	if canon, ok := dedup[key]; ok {
		record.Flags |= format.FlagAlias
		if canon.hasBounds {
			record.Flags |= format.FlagHasBounds
		}
		record.AliasIndex = uint32(canon.index)
		record.PayloadOffset = canon.offset
		record.PayloadSize = canon.size
		record.Kind = canon.kind
		record.Format = canon.format
		record.Meta = canon.meta
		record.Compression = canon.compression
		record.DecodedSize = canon.decodedSize
		record.Aux = canon.aux
		return
	}

	offset := uint64(len(*payload))

	record.Kind = res.Kind
	record.Format = res.Format
	record.Meta = [4]uint32{res.Meta0, res.Meta1, res.Meta2, res.Meta3}
	record.Compression = res.Compression
	record.Aux = res.Aux
	record.PayloadOffset = offset
	record.PayloadSize = uint64(len(res.StoredPayload))
	record.DecodedSize = uint64(res.DecodedSize)

	*payload = append(*payload, res.StoredPayload...)

	dedup[key] = canonicalEntry{
		index:       idx,
		offset:      offset,
		size:        record.PayloadSize,
		kind:        res.Kind,
		format:      res.Format,
		meta:        record.Meta,
		compression: res.Compression,
		decodedSize: record.DecodedSize,
		aux:         res.Aux,
		hasBounds:   record.Flags&format.FlagHasBounds != 0,
	}
}

// flattenAliasRoots walks every alias chain to its ultimate root so no
// consumer ever has to follow more than one hop, and mirrors the root's
// payload coordinates, kind/format, meta, aux, compression, and
// FLAG_HAS_BOUNDS onto the alias. Planner-marked aliases are never
// submitted for conversion or finalized, so without this copy they would
// keep their zero-valued fields instead of matching the root record they
// point at. Cycle-guarded, though the planner and finalizer never
// construct a genuine cycle.
func flattenAliasRoots(records []Record) {
	resolveRoot := func(start int) int {
		visited := make(map[int]bool)
		current := start

		for current != int(format.InvalidIndex) {
			if visited[current] {
				return start
			}
			visited[current] = true

			next := records[current].AliasIndex
			if next == format.InvalidIndex {
				return current
			}
			current = int(next)
		}

		return start
	}

	for idx := range records {
		if records[idx].AliasIndex == format.InvalidIndex {
			continue
		}

		root := resolveRoot(int(records[idx].AliasIndex))
		alias := &records[idx]
		rootRec := records[root]

		alias.AliasIndex = uint32(root)
		alias.Kind = rootRec.Kind
		alias.Format = rootRec.Format
		alias.Meta = rootRec.Meta
		alias.Aux = rootRec.Aux
		alias.Compression = rootRec.Compression
		alias.PayloadOffset = rootRec.PayloadOffset
		alias.PayloadSize = rootRec.PayloadSize
		alias.DecodedSize = rootRec.DecodedSize

		if rootRec.Flags&format.FlagHasBounds != 0 {
			alias.Flags |= format.FlagHasBounds
		} else {
			alias.Flags &^= format.FlagHasBounds
		}
	}
}
