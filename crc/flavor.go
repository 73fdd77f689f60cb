package crc

import "github.com/gopostcard/postcard/wire"

// Sink is the CRC serialization modifier flavor (spec §4.3/§4.9): every
// byte passed through updates a running checksum of algo over an inner
// Sink; Finalize appends the checksum's little-endian bytes after the
// payload and before handing off to the inner Sink's own Finalize.
type Sink struct {
	inner wire.Sink
	sum   Checksum
}

// NewSink wraps inner with a trailing CRC computed by algo.
func NewSink(inner wire.Sink, algo Algorithm) *Sink {
	return &Sink{inner: inner, sum: algo.New()}
}

func (s *Sink) Push(b byte) error {
	s.sum.Update([]byte{b})
	return s.inner.Push(b)
}

func (s *Sink) TryExtend(bs []byte) error {
	s.sum.Update(bs)
	return s.inner.TryExtend(bs)
}

// Finalize appends the trailing checksum bytes and finalizes inner.
func (s *Sink) Finalize() ([]byte, error) {
	if err := s.inner.TryExtend(s.sum.Sum()); err != nil {
		return nil, err
	}
	return s.inner.Finalize()
}

// Source is the CRC deserialization modifier flavor. Because verifying
// a trailing checksum requires knowing where the payload ends before
// any byte is released to the primitive decoder, Source is built from a
// complete buffer up front (the same eager-decode shape cobs.Source
// uses for its delimited frames) rather than wrapping an arbitrary
// streaming wire.Source.
type Source struct {
	payload []byte
	offset  int
}

// NewSource splits the trailing Width() checksum bytes off data,
// verifies them against algo's checksum over the remaining payload, and
// returns a Source over that payload. Returns wire.ErrCRCMismatch if the
// trailing checksum doesn't match.
func NewSource(data []byte, algo Algorithm) (*Source, error) {
	w := algo.Width()
	if len(data) < w {
		return nil, wire.ErrInputExhausted
	}
	payload := data[:len(data)-w]
	trailer := data[len(data)-w:]

	sum := algo.New()
	sum.Update(payload)
	want := sum.Sum()
	for i := range want {
		if want[i] != trailer[i] {
			return nil, wire.ErrCRCMismatch
		}
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

// Finalize reports whether the payload was fully consumed; the
// checksum itself was already verified during NewSource.
func (s *Source) Finalize() error {
	if s.offset != len(s.payload) {
		return wire.ErrTrailingBytes
	}
	return nil
}

// Remaining returns the unconsumed tail of the payload, for prefix-mode
// decoding.
func (s *Source) Remaining() []byte {
	return s.payload[s.offset:]
}
