// Package manifest reads the tab-separated asset manifest that drives a
// pack build: one row per source asset, naming its relative path and the
// semantic metadata carried into the container record.
package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/greatbadbeyond/gbpack/internal/errs"
)

// requiredColumns lists the manifest columns a build cannot proceed
// without.
var requiredColumns = []string{
	"asset_name",
	"asset_relative_path",
	"semantic_kind",
	"content_role",
	"engine_hint",
	"semantic_tags",
}

// Row is one manifest entry.
type Row struct {
	Name         string
	RelativePath string
	SemanticKind string
	ContentRole  string
	EngineHint   string
	SemanticTags string
}

// Read parses a tab-separated manifest from r. The header must contain
// every column in requiredColumns; extra columns are ignored.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty manifest", errs.ErrMissingColumn)
		}
		return nil, fmt.Errorf("read manifest header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	if missing := missingColumns(col); len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %v", errs.ErrMissingColumn, missing)
	}

	var rows []Row
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read manifest row: %w", err)
		}

		rows = append(rows, Row{
			Name:         field(rec, col, "asset_name"),
			RelativePath: field(rec, col, "asset_relative_path"),
			SemanticKind: field(rec, col, "semantic_kind"),
			ContentRole:  field(rec, col, "content_role"),
			EngineHint:   field(rec, col, "engine_hint"),
			SemanticTags: field(rec, col, "semantic_tags"),
		})
	}

	return rows, nil
}

func missingColumns(col map[string]int) []string {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func field(rec []string, col map[string]int, name string) string {
	idx, ok := col[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
