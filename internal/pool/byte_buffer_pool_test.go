package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("hello"))
	require.Equal(t, 5, bb.Len())
	require.Equal(t, "hello", string(bb.Bytes()))

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 5)
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(2)
	bb.ExtendOrGrow(10)
	require.Equal(t, 10, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 10)
}

func TestByteBuffer_SliceBounds(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("payload!"))

	require.Panics(t, func() { bb.Slice(0, 100) })
	require.NotPanics(t, func() { bb.Slice(0, bb.Len()) })
}

func TestByteBufferPool_DiscardsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(4, 8)

	bb := p.Get()
	bb.MustWrite(make([]byte, 9))
	p.Put(bb)

	fresh := p.Get()
	require.Less(t, fresh.Cap(), 9)
}

func TestGetPayloadBuffer_RoundTrips(t *testing.T) {
	bb := GetPayloadBuffer()
	bb.MustWrite([]byte{1, 2, 3})
	PutPayloadBuffer(bb)

	again := GetPayloadBuffer()
	require.Equal(t, 0, again.Len())
	PutPayloadBuffer(again)
}

func TestGetMipBuffer_RoundTrips(t *testing.T) {
	bb := GetMipBuffer()
	bb.ExtendOrGrow(128)
	PutMipBuffer(bb)
}
