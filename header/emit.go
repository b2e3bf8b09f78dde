package header

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/greatbadbeyond/gbpack/build"
)

// RowInfo is the subset of a manifest row the header emitter needs to
// assign a symbol: its relative path and its index in the final record
// list.
type RowInfo struct {
	RelativePath string
	Index        int
}

// namespaceEntry is one generated constant inside a (topLevel, pack)
// namespace.
type namespaceEntry struct {
	Symbol string
	Index  int
}

type namespaceBlock struct {
	TopLevel string
	Pack     string
	Entries  []namespaceEntry
}

type templateData struct {
	Namespaces []namespaceBlock
}

// Generate writes the full C++ descriptor header for rows to w. records
// is unused by the header itself but documents that the header mirrors
// the final, alias-flattened record list's layout.
func Generate(w io.Writer, rows []RowInfo, _ []build.Record) error {
	grouped := make(map[string]map[string][]namespaceEntry)
	nsOrder := make([]string, 0)
	packOrderByNS := make(map[string][]string)
	dis := newDisambiguator()

	for _, row := range rows {
		topLevel, pack, leaf := ParsePackPath(row.RelativePath)
		topKey := Sanitize(topLevel)
		packKey := Sanitize(pack)
		symbolBase := Sanitize(strings.TrimSuffix(leaf, path.Ext(leaf)))

		nsKey := topKey + "::" + packKey
		symbol := dis.symbol(nsKey, symbolBase)

		if _, ok := grouped[topKey]; !ok {
			grouped[topKey] = make(map[string][]namespaceEntry)
			nsOrder = append(nsOrder, topKey)
		}
		if _, ok := grouped[topKey][packKey]; !ok {
			packOrderByNS[topKey] = append(packOrderByNS[topKey], packKey)
		}

		grouped[topKey][packKey] = append(grouped[topKey][packKey], namespaceEntry{Symbol: symbol, Index: row.Index})
	}

	sort.Strings(nsOrder)

	data := templateData{}
	for _, topKey := range nsOrder {
		packs := packOrderByNS[topKey]
		sort.Strings(packs)
		for _, packKey := range packs {
			data.Namespaces = append(data.Namespaces, namespaceBlock{
				TopLevel: topKey,
				Pack:     packKey,
				Entries:  grouped[topKey][packKey],
			})
		}
	}

	tmpl, err := template.New("header").Parse(headerTemplate)
	if err != nil {
		return fmt.Errorf("parse header template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	return nil
}

const headerTemplate = `#pragma once

#include <array>
#include <bit>
#include <cstddef>
#include <cstdint>
#include <span>
#include <string_view>

namespace manifest
{
inline constexpr std::uint32_t kPackMagic = 0x4B504247u;
inline constexpr std::uint32_t kPackVersion = 3u;
inline constexpr std::uint32_t kInvalidIndex = 0xFFFFFFFFu;

enum class AssetKind : std::uint32_t
{
    RAW = 0,
    MESH = 1,
    IMAGE = 2,
    AUDIO = 3,
    DOCUMENT = 4,
    OTHER = 5,
};

enum class AssetFormat : std::uint32_t
{
    RAW_BYTES = 0,
    MESH_PNUV_F32_U32 = 1,
    IMAGE_RGBA8_MIPS = 2,
    AUDIO_PCM16_INTERLEAVED = 3,
};

enum class CompressionCodec : std::uint32_t
{
    NONE = 0,
    DEFLATE_ZLIB = 1,
};

enum AssetFlags : std::uint32_t
{
    ASSET_FLAG_ALIAS = 1u << 0,
    ASSET_FLAG_CONVERSION_FAILED = 1u << 1,
    ASSET_FLAG_HAS_BOUNDS = 1u << 2,
};

#pragma pack(push, 1)
struct PackHeader
{
    std::uint32_t magic;
    std::uint32_t version;
    std::uint32_t flags;
    std::uint32_t assetCount;
    std::uint32_t reserved;
    std::uint64_t stringTableOffset;
    std::uint64_t stringTableSize;
    std::uint64_t assetTableOffset;
    std::uint64_t assetTableSize;
    std::uint64_t payloadOffset;
    std::uint64_t payloadSize;
};

struct StringRef
{
    std::uint32_t offset;
    std::uint32_t length;
};

struct AssetRecord
{
    StringRef name;
    StringRef relativePath;
    StringRef semanticKind;
    StringRef contentRole;
    StringRef engineHint;
    StringRef semanticTags;
    std::uint32_t kind;
    std::uint32_t format;
    std::uint32_t flags;
    std::uint32_t aliasIndex;
    std::uint32_t meta0;
    std::uint32_t meta1;
    std::uint32_t meta2;
    std::uint32_t meta3;
    std::uint32_t compression;
    std::uint32_t aux0;
    std::uint32_t aux1;
    std::uint32_t aux2;
    std::uint32_t aux3;
    std::uint32_t aux4;
    std::uint32_t aux5;
    std::uint32_t aux6;
    std::uint32_t aux7;
    std::uint64_t payloadOffset;
    std::uint64_t payloadSize;
    std::uint64_t decodedSize;
};
#pragma pack(pop)

struct MeshBounds
{
    bool valid;
    float minX;
    float minY;
    float minZ;
    float maxX;
    float maxY;
    float maxZ;
    float radius;
};
{{range .Namespaces}}
namespace {{.TopLevel}}::{{.Pack}}
{
{{range .Entries}}inline constexpr std::uint32_t {{.Symbol}} = {{.Index}}u;
{{end}}}
{{end}}
} // namespace manifest
`
