package flavor

import (
	"io"

	"github.com/gopostcard/postcard/wire"
)

// IOSink writes into an abstract io.Writer, lifting any write error
// into the wire error taxonomy as a framework error (§7 — "Framework
// error: error propagated from the external (de)serialization
// framework" covers any lower-layer I/O failure the same way).
type IOSink struct {
	w io.Writer
	n int
}

// NewIOSink wraps w as a Sink.
func NewIOSink(w io.Writer) *IOSink {
	return &IOSink{w: w}
}

func (s *IOSink) Push(b byte) error {
	return s.TryExtend([]byte{b})
}

func (s *IOSink) TryExtend(bs []byte) error {
	n, err := s.w.Write(bs)
	s.n += n
	if err != nil {
		return wire.Wrap(wire.KindFrameworkError, "io sink write failed", err)
	}
	if n != len(bs) {
		return wire.ErrOutputFull
	}
	return nil
}

// Finalize returns no bytes (an IOSink's output already landed in the
// wrapped io.Writer); the total count written is available from Written.
func (s *IOSink) Finalize() ([]byte, error) {
	return nil, nil
}

// Written reports the total number of bytes written so far.
func (s *IOSink) Written() int { return s.n }

// IOSource pulls from an abstract io.Reader. Since an io.Reader offers
// no contiguous backing buffer, TryTakeN always copies into a scratch
// buffer; CanBorrow reports false, so callers wanting a zero-copy view
// must use a SliceSource instead (spec §4.4's "sources lacking this
// capability must copy... or fail").
type IOSource struct {
	r io.Reader
}

// NewIOSource wraps r as a Source.
func NewIOSource(r io.Reader) *IOSource {
	return &IOSource{r: r}
}

func (s *IOSource) Pop() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(s.r, b[:]); err != nil {
		return 0, wire.ErrInputExhausted
	}
	return b[0], nil
}

func (s *IOSource) TryTakeN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, wire.ErrInputExhausted
	}
	return buf, nil
}

func (s *IOSource) CanBorrow() bool { return false }

func (s *IOSource) Finalize() error { return nil }
