// Package flavor implements the canonical serialization/deserialization
// flavors (storage kinds) the wire codec writes through or reads from:
// a fixed slice, a growing buffer, a byte-counting sink (used by the
// size estimator), and an io.Writer/io.Reader pair.
//
// These are the innermost flavors in a pipeline (spec §4.3/§4.4); COBS
// and CRC modifiers, in the cobs and crc packages, wrap any of them.
//
// The design follows the teacher's fast.Writer/fast.Reader: a thin
// cursor over a byte slice. Unlike that internal-only helper, these
// flavors are part of the public wire contract, so out-of-bounds access
// returns a wire.Error instead of panicking.
package flavor

import "github.com/gopostcard/postcard/wire"

// SliceSink writes into a caller-supplied fixed-capacity buffer. It
// never grows; once the buffer is full, Push/TryExtend fail with
// wire.ErrOutputFull. Finalize returns the written prefix.
type SliceSink struct {
	buf []byte
	n   int
}

// NewSliceSink wraps buf, a caller-owned fixed buffer, as a Sink.
func NewSliceSink(buf []byte) *SliceSink {
	return &SliceSink{buf: buf}
}

func (s *SliceSink) Push(b byte) error {
	if s.n >= len(s.buf) {
		return wire.ErrOutputFull
	}
	s.buf[s.n] = b
	s.n++
	return nil
}

func (s *SliceSink) TryExtend(bs []byte) error {
	if s.n+len(bs) > len(s.buf) {
		return wire.ErrOutputFull
	}
	copy(s.buf[s.n:], bs)
	s.n += len(bs)
	return nil
}

func (s *SliceSink) Finalize() ([]byte, error) {
	return s.buf[:s.n], nil
}

// Written returns the number of bytes written so far.
func (s *SliceSink) Written() int { return s.n }

// SliceSource borrows an input buffer and maintains a monotonic cursor.
// TryTakeN returns a zero-copy subslice whenever the requested run is
// contiguous — always true here, since the whole source is one
// contiguous slice.
type SliceSource struct {
	buf    []byte
	offset int
}

// NewSliceSource wraps data as a Source. The returned Source borrows
// data for as long as any view it hands out is in use.
func NewSliceSource(data []byte) *SliceSource {
	return &SliceSource{buf: data}
}

func (s *SliceSource) Pop() (byte, error) {
	if s.offset >= len(s.buf) {
		return 0, wire.ErrInputExhausted
	}
	b := s.buf[s.offset]
	s.offset++
	return b, nil
}

func (s *SliceSource) TryTakeN(n int) ([]byte, error) {
	if n < 0 || s.offset+n > len(s.buf) {
		return nil, wire.ErrInputExhausted
	}
	b := s.buf[s.offset : s.offset+n]
	s.offset += n
	return b, nil
}

func (s *SliceSource) CanBorrow() bool { return true }

// Remaining returns the unconsumed tail of the input without advancing
// the cursor — used by prefix-mode decode callers that want the
// leftover bytes rather than a strict trailing-bytes error.
func (s *SliceSource) Remaining() []byte {
	return s.buf[s.offset:]
}

// Position reports the cursor's current offset into the original
// input.
func (s *SliceSource) Position() int { return s.offset }

// Finalize is a no-op for a bare slice source; trailing-bytes policy is
// the caller's decision (spec §9's open question), enforced by the
// postcard package's Unmarshal/UnmarshalPrefix split, not here.
func (s *SliceSource) Finalize() error { return nil }
