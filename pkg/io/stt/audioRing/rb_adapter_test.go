package audioring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcm(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestFrameBufferFIFO(t *testing.T) {
	buf := New(1024)
	assert.Equal(t, 1024, buf.Capacity())
	assert.Equal(t, 0, buf.Len())

	for i := 0; i < 3; i++ {
		require.NoError(t, buf.Enqueue(Frame{
			PCM:        pcm(10, byte(i)),
			Offset:     time.Duration(i) * time.Second,
			SampleRate: 16000,
			Channels:   1,
		}))
	}
	assert.Equal(t, 3, buf.Frames())
	assert.Equal(t, 3*Frame{PCM: pcm(10, 0)}.EncodedSize(), buf.Len())

	first, ok := buf.Dequeue()
	require.True(t, ok)
	assert.Equal(t, pcm(10, 0), first.PCM)
	assert.Equal(t, int32(16000), first.SampleRate)
	assert.Equal(t, int16(1), first.Channels)

	rest := buf.Drain()
	require.Len(t, rest, 2)
	assert.Equal(t, time.Second, rest[0].Offset)
	assert.Equal(t, 2*time.Second, rest[1].Offset)
	assert.Equal(t, 0, buf.Frames())
	assert.Equal(t, 0, buf.Len())

	_, ok = buf.Dequeue()
	assert.False(t, ok)
}

func TestFrameBufferRejectsInsteadOfDropping(t *testing.T) {
	size := SizeFor(2, 100)
	buf := New(size)

	require.NoError(t, buf.Enqueue(Frame{PCM: pcm(100, 1)}))
	require.NoError(t, buf.Enqueue(Frame{PCM: pcm(100, 2)}))
	assert.ErrorIs(t, buf.Enqueue(Frame{PCM: pcm(100, 3)}), ErrBufferFull)
	assert.ErrorIs(t, buf.Enqueue(Frame{PCM: pcm(size, 3)}), ErrFrameTooLarge)

	frames := buf.Drain()
	require.Len(t, frames, 2)
	assert.Equal(t, byte(1), frames[0].PCM[0])
	require.NoError(t, buf.Enqueue(Frame{PCM: pcm(100, 3)}))
}

func TestFrameDuration(t *testing.T) {
	f := Frame{PCM: make([]byte, 32000), SampleRate: 16000, Channels: 1}
	assert.Equal(t, time.Second, f.Duration())
	assert.Equal(t, time.Duration(0), Frame{PCM: make([]byte, 10)}.Duration())
}

func TestFrameUnmarshalShort(t *testing.T) {
	var f Frame
	assert.ErrorIs(t, f.UnmarshalBinary([]byte{1, 2}), ErrShortFrame)

	good := Frame{PCM: []byte{1, 2, 3, 4}, Offset: time.Minute, SampleRate: 8000, Channels: 1}
	data, err := good.MarshalBinary()
	require.NoError(t, err)
	assert.ErrorIs(t, f.UnmarshalBinary(data[:len(data)-1]), ErrShortFrame)
	require.NoError(t, f.UnmarshalBinary(data))
	assert.Equal(t, good, f)
}
