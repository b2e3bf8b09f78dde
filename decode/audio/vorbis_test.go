package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloatToPCM16_ClampsRange(t *testing.T) {
	require.EqualValues(t, int16(32767), int16(floatToPCM16(2.0)))
	require.EqualValues(t, int16(-32768), int16(floatToPCM16(-2.0)))
	require.EqualValues(t, int16(0), int16(floatToPCM16(0)))
}

func TestFloatToPCM16_ScalesHalfAmplitude(t *testing.T) {
	got := int16(floatToPCM16(0.5))
	require.InDelta(t, 16384, int(got), 2)
}

func TestFloatToPCM16_Monotonic(t *testing.T) {
	prev := int16(math.MinInt16)
	for _, v := range []float32{-1, -0.5, 0, 0.5, 1} {
		cur := int16(floatToPCM16(v))
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}
