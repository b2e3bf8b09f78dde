// Package header generates the C++ descriptor header that accompanies a
// pack: the container constants, the enums, the wire-layout structs, a
// MeshBounds struct, and a namespace tree of one constant index per asset,
// keyed by its sanitized relative path with the file extension dropped
// from the leaf. The header declares no accessor routines: it does not
// validate a pack's magic or version, bounds-check offsets, resolve
// strings or payloads, or extract mesh bounds.
package header

import (
	"strconv"
	"strings"
)

// Sanitize turns an arbitrary path segment into a valid C++ identifier
// fragment: non-alphanumeric runs collapse to a single underscore, the
// result is lowercased and trimmed of leading/trailing underscores, and a
// leading digit gets an "n" prefix. An empty result becomes "item".
func Sanitize(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))

	var b strings.Builder
	prevUnderscore := false

	for _, ch := range lowered {
		if isAlnum(ch) {
			b.WriteRune(ch)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			b.WriteByte('_')
		}
		prevUnderscore = true
	}

	result := strings.Trim(b.String(), "_")
	if result == "" {
		result = "item"
	}
	if result[0] >= '0' && result[0] <= '9' {
		result = "n" + result
	}

	return result
}

func isAlnum(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'Z')
}

// ParsePackPath splits a manifest relative path into its top-level
// directory, pack (second path segment), and leaf (the remainder). Paths
// with fewer than two segments map everything to "[root]" except the
// leaf, which is the path itself.
func ParsePackPath(relativePath string) (topLevel, pack, leaf string) {
	parts := strings.Split(relativePath, "/")
	if len(parts) < 2 {
		return "[root]", "[root]", relativePath
	}

	topLevel = parts[0]
	pack = parts[1]
	if len(parts) > 2 {
		leaf = strings.Join(parts[2:], "/")
	} else {
		leaf = parts[len(parts)-1]
	}

	return topLevel, pack, leaf
}

// disambiguate returns base the first time it's seen for a given
// (top, pack) namespace, and base suffixed with an incrementing 2-based
// counter on every subsequent collision.
type disambiguator struct {
	counts map[string]map[string]int
}

func newDisambiguator() *disambiguator {
	return &disambiguator{counts: make(map[string]map[string]int)}
}

func (d *disambiguator) symbol(ns, base string) string {
	perNS, ok := d.counts[ns]
	if !ok {
		perNS = make(map[string]int)
		d.counts[ns] = perNS
	}

	perNS[base]++
	n := perNS[base]
	if n == 1 {
		return base
	}

	return base + "_" + strconv.Itoa(n)
}
