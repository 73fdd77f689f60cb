package cobs

import "github.com/gopostcard/postcard/wire"

// Sink is the COBS serialization modifier flavor (spec §4.3/§4.8): it
// buffers each "block" (a run of non-zero bytes) until the next zero
// byte in the underlying payload or a 254-byte overflow, then emits the
// block's length byte followed by the block itself to the inner Sink.
// Finalize flushes the last (possibly empty) block and the terminating
// 0x00.
type Sink struct {
	inner wire.Sink
	block []byte // buffered payload bytes of the current run, not yet flushed
}

// NewSink wraps inner with COBS framing.
func NewSink(inner wire.Sink) *Sink {
	return &Sink{inner: inner, block: make([]byte, 0, maxBlock)}
}

// flush writes the current block's length byte and its bytes to inner,
// then starts a new block.
func (s *Sink) flush() error {
	code := byte(len(s.block) + 1)
	if err := s.inner.Push(code); err != nil {
		return err
	}
	if len(s.block) > 0 {
		if err := s.inner.TryExtend(s.block); err != nil {
			return err
		}
	}
	s.block = s.block[:0]
	return nil
}

func (s *Sink) Push(b byte) error {
	if b == 0x00 {
		return s.flush()
	}
	s.block = append(s.block, b)
	if len(s.block) == maxBlock {
		return s.flush()
	}
	return nil
}

func (s *Sink) TryExtend(bs []byte) error {
	for _, b := range bs {
		if err := s.Push(b); err != nil {
			return err
		}
	}
	return nil
}

// Finalize flushes the trailing block and the terminating delimiter,
// then finalizes the inner Sink.
func (s *Sink) Finalize() ([]byte, error) {
	if err := s.flush(); err != nil {
		return nil, err
	}
	if err := s.inner.Push(0x00); err != nil {
		return nil, err
	}
	return s.inner.Finalize()
}

// Source is the COBS deserialization modifier flavor: it decodes a
// complete COBS frame (up to and including the terminating 0x00) from
// the inner Source up front, then exposes the decoded payload as a
// bounded, contiguous Source — so postcard decoding on top of a COBS
// frame keeps its zero-copy behavior.
type Source struct {
	payload []byte
	offset  int
}

// NewSource decodes a COBS frame read byte-by-byte from inner (stopping
// at and consuming the terminating 0x00) and returns a Source over the
// decoded payload. Use this when postcard's caller hands over a single
// framed message read from some inner byte source.
func NewSource(inner wire.Source) (*Source, error) {
	var raw []byte
	for {
		b, err := inner.Pop()
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
		if b == 0x00 {
			break
		}
	}
	payload, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return &Source{payload: payload}, nil
}

// NewSourceFromFrame builds a Source directly from an already-collected
// COBS frame (including its terminating 0x00) — the shape the
// Accumulator hands back.
func NewSourceFromFrame(frame []byte) (*Source, error) {
	payload, err := Decode(frame)
	if err != nil {
		return nil, err
	}
	return &Source{payload: payload}, nil
}

func (s *Source) Pop() (byte, error) {
	if s.offset >= len(s.payload) {
		return 0, wire.ErrInputExhausted
	}
	b := s.payload[s.offset]
	s.offset++
	return b, nil
}

func (s *Source) TryTakeN(n int) ([]byte, error) {
	if n < 0 || s.offset+n > len(s.payload) {
		return nil, wire.ErrInputExhausted
	}
	b := s.payload[s.offset : s.offset+n]
	s.offset += n
	return b, nil
}

func (s *Source) CanBorrow() bool { return true }

// Finalize reports whether the decoded frame's payload was fully
// consumed; the delimiter itself was already consumed during decode.
func (s *Source) Finalize() error {
	if s.offset != len(s.payload) {
		return wire.ErrTrailingBytes
	}
	return nil
}

// Remaining returns the unconsumed tail of the frame's payload, for
// prefix-mode decoding.
func (s *Source) Remaining() []byte {
	return s.payload[s.offset:]
}
