// Package alias implements the pre-conversion alias planner: it groups
// manifest rows that are different-format copies of the same asset (a
// .obj and a .fbx of one model, a .png and a .jpg of one texture) and
// picks a single canonical row per group by a fixed per-family extension
// rank.
package alias

import (
	"path"
	"strings"
)

// modelRank, imageRank, and audioRank give each family's recognized
// extensions a preference order; lower ranks win. Extensions absent from
// a family's map never join that family's grouping.
var (
	modelRank = map[string]int{"obj": 0, "glb": 1, "gltf": 2, "fbx": 3, "dae": 4, "stl": 5, "blend": 6, "3ds": 7, "skp": 8}
	imageRank = map[string]int{"png": 0, "jpg": 1, "jpeg": 1, "svg": 2}
	audioRank = map[string]int{"ogg": 0}
)

type familySpec struct {
	name string
	rank map[string]int
}

var families = []familySpec{
	{"model", modelRank},
	{"image", imageRank},
	{"audio", audioRank},
}

// invalidIndex is the "no alias" sentinel, mirroring format.InvalidIndex
// without importing the format package (the planner only deals in plain
// row indices, not on-disk records).
const invalidIndex = ^uint32(0)

// Plan maps each aliased row's index to its canonical row's index. Rows
// not present in the map are canonical (or belong to no family).
func Plan(relativePaths []string) map[int]int {
	aliases := make(map[int]int)

	for _, fam := range families {
		grouped := make(map[string][]int)

		for idx, p := range relativePaths {
			ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
			if _, ok := fam.rank[ext]; !ok {
				continue
			}

			stemKey := fam.name + "|" + strings.ToLower(stripExt(p))
			grouped[stemKey] = append(grouped[stemKey], idx)
		}

		for _, indices := range grouped {
			if len(indices) < 2 {
				continue
			}

			canonical := indices[0]
			for _, idx := range indices[1:] {
				if less(relativePaths, fam.rank, idx, canonical) {
					canonical = idx
				}
			}

			for _, idx := range indices {
				if idx != canonical {
					aliases[idx] = canonical
				}
			}
		}
	}

	return aliases
}

// less reports whether row a should be preferred over row b: lower
// extension rank first, then lexicographically lower lowercased path.
func less(relativePaths []string, rank map[string]int, a, b int) bool {
	ra := rank[strings.ToLower(strings.TrimPrefix(path.Ext(relativePaths[a]), "."))]
	rb := rank[strings.ToLower(strings.TrimPrefix(path.Ext(relativePaths[b]), "."))]
	if ra != rb {
		return ra < rb
	}

	return strings.ToLower(relativePaths[a]) < strings.ToLower(relativePaths[b])
}

// stripExt returns p with its final extension removed, matching
// Path.with_suffix('') semantics for a single-dot extension.
func stripExt(p string) string {
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext)
}
