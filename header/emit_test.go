package header

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate_ProducesNamespacedConstants(t *testing.T) {
	rows := []RowInfo{
		{RelativePath: "models/vehicles/crate.obj", Index: 0},
		{RelativePath: "models/vehicles/crate.fbx", Index: 1},
		{RelativePath: "textures/ui/button.png", Index: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, rows, nil))

	out := buf.String()
	require.Contains(t, out, "namespace manifest")
	require.Contains(t, out, "namespace models::vehicles")
	require.Contains(t, out, "crate = 0u")
	require.Contains(t, out, "crate_2 = 1u")
	require.Contains(t, out, "namespace textures::ui")
	require.Contains(t, out, "button = 2u")
	require.Contains(t, out, "kPackMagic = 0x4B504247u")
}

func TestGenerate_EmptyRowsStillEmitsScaffold(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, nil, nil))

	out := buf.String()
	require.Contains(t, out, "struct PackHeader")
	require.Contains(t, out, "struct AssetRecord")
}
