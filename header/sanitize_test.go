package header

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize_CollapsesRunsAndTrims(t *testing.T) {
	require.Equal(t, "crate_01", Sanitize("Crate--01"))
	require.Equal(t, "foo_bar", Sanitize("  foo bar  "))
	require.Equal(t, "item", Sanitize("---"))
}

func TestSanitize_LeadingDigitGetsPrefixed(t *testing.T) {
	require.Equal(t, "n3d_model", Sanitize("3d_model"))
}

func TestParsePackPath_SplitsTopPackLeaf(t *testing.T) {
	top, pack, leaf := ParsePackPath("models/vehicles/crate.obj")
	require.Equal(t, "models", top)
	require.Equal(t, "vehicles", pack)
	require.Equal(t, "crate.obj", leaf)
}

func TestParsePackPath_NoKenneyPrefixStripping(t *testing.T) {
	top, pack, leaf := ParsePackPath("external/Kenney/models/crate.obj")
	require.Equal(t, "external", top)
	require.Equal(t, "Kenney", pack)
	require.Equal(t, "models/crate.obj", leaf)
}

func TestParsePackPath_ShortPathFallsBackToRoot(t *testing.T) {
	top, pack, leaf := ParsePackPath("lonely.obj")
	require.Equal(t, "[root]", top)
	require.Equal(t, "[root]", pack)
	require.Equal(t, "lonely.obj", leaf)
}

func TestDisambiguator_SuffixesCollisions(t *testing.T) {
	d := newDisambiguator()

	require.Equal(t, "foo", d.symbol("ns", "foo"))
	require.Equal(t, "foo_2", d.symbol("ns", "foo"))
	require.Equal(t, "foo_3", d.symbol("ns", "foo"))
	require.Equal(t, "foo", d.symbol("other_ns", "foo"))
}
