package audioring

import (
	"encoding/binary"

	"github.com/smallnest/ringbuffer"
)

type rbBuffer struct {
	size   int
	frames int
	rb     *ringbuffer.RingBuffer
}

// New returns a FrameBuffer holding up to size encoded bytes.
func New(size int) FrameBuffer {
	return &rbBuffer{
		size: size,
		rb:   ringbuffer.New(size).SetBlocking(false),
	}
}

// SizeFor returns a capacity that fits n frames of pcmBytes each.
func SizeFor(n, pcmBytes int) int {
	return n * (Frame{PCM: make([]byte, 0)}.EncodedSize() + pcmBytes)
}

func (r *rbBuffer) Capacity() int { return r.size }

func (r *rbBuffer) Len() int { return r.rb.Length() }

func (r *rbBuffer) Frames() int { return r.frames }

func (r *rbBuffer) Enqueue(frame Frame) error {
	data, err := frame.MarshalBinary()
	if err != nil {
		return err
	}
	required := len(data) + 4
	if required > r.rb.Capacity() {
		return ErrFrameTooLarge
	}
	if r.rb.Free() < required {
		return ErrBufferFull
	}

	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := r.rb.Write(prefix[:]); err != nil {
		return err
	}
	if _, err := r.rb.Write(data); err != nil {
		return err
	}
	r.frames++
	return nil
}

func (r *rbBuffer) Dequeue() (Frame, bool) {
	if r.rb.IsEmpty() {
		return Frame{}, false
	}

	var prefix [4]byte
	if n, err := r.rb.Read(prefix[:]); err != nil || n != 4 {
		return Frame{}, false
	}
	size := int(binary.LittleEndian.Uint32(prefix[:]))

	data := make([]byte, size)
	if n, err := r.rb.Read(data); err != nil || n != size {
		return Frame{}, false
	}
	r.frames--

	var frame Frame
	if err := frame.UnmarshalBinary(data); err != nil {
		return Frame{}, false
	}
	return frame, true
}

func (r *rbBuffer) Drain() []Frame {
	out := make([]Frame, 0, r.frames)
	for {
		f, ok := r.Dequeue()
		if !ok {
			break
		}
		out = append(out, f)
	}
	r.rb.Reset()
	r.frames = 0
	return out
}
