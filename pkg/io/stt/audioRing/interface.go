package audioring

import (
	"encoding/binary"
	"errors"
	"time"
)

var (
	ErrFrameTooLarge = errors.New("audio frame too large for buffer")
	ErrBufferFull    = errors.New("audio buffer full")
	ErrShortFrame    = errors.New("truncated audio frame")
)

// frameHeader is offset(8) + sampleRate(4) + channels(2) + dataLen(4).
const frameHeader = 8 + 4 + 2 + 4

// Frame is a slice of signed 16-bit little-endian PCM at a position in the
// source recording.
type Frame struct {
	PCM        []byte
	Offset     time.Duration
	SampleRate int32
	Channels   int16
}

// Duration is the playback length of the frame.
func (f Frame) Duration() time.Duration {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return 0
	}
	samples := len(f.PCM) / (2 * int(f.Channels))
	return time.Duration(samples) * time.Second / time.Duration(f.SampleRate)
}

// EncodedSize is the number of buffer bytes the frame occupies.
func (f Frame) EncodedSize() int {
	return 4 + frameHeader + len(f.PCM)
}

func (f *Frame) MarshalBinary() ([]byte, error) {
	buf := make([]byte, frameHeader+len(f.PCM))
	binary.LittleEndian.PutUint64(buf[0:], uint64(f.Offset))
	binary.LittleEndian.PutUint32(buf[8:], uint32(f.SampleRate))
	binary.LittleEndian.PutUint16(buf[12:], uint16(f.Channels))
	binary.LittleEndian.PutUint32(buf[14:], uint32(len(f.PCM)))
	copy(buf[frameHeader:], f.PCM)
	return buf, nil
}

func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < frameHeader {
		return ErrShortFrame
	}
	n := int(binary.LittleEndian.Uint32(data[14:]))
	if len(data)-frameHeader < n {
		return ErrShortFrame
	}
	f.Offset = time.Duration(binary.LittleEndian.Uint64(data[0:]))
	f.SampleRate = int32(binary.LittleEndian.Uint32(data[8:]))
	f.Channels = int16(binary.LittleEndian.Uint16(data[12:]))
	f.PCM = make([]byte, n)
	copy(f.PCM, data[frameHeader:frameHeader+n])
	return nil
}

// FrameBuffer is a bounded FIFO of audio frames. It never drops audio: a
// full buffer rejects the frame and the caller drains first.
type FrameBuffer interface {
	Enqueue(frame Frame) error
	Dequeue() (Frame, bool)
	// Drain removes and returns every buffered frame in order.
	Drain() []Frame
	Frames() int
	Len() int
	Capacity() int
}
