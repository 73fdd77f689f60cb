package flavor

// GrowingSink appends to a growable byte slice (like appending to a Go
// []byte directly); it never reports output-full. Finalize yields the
// accumulated slice, transferring ownership to the caller.
type GrowingSink struct {
	buf []byte
}

// NewGrowingSink builds a GrowingSink that appends to initial. Any bytes
// already in initial stay at the front of the output; pass nil to start
// empty, or a zero-length slice with spare capacity to pre-size it.
func NewGrowingSink(initial []byte) *GrowingSink {
	return &GrowingSink{buf: initial}
}

func (s *GrowingSink) Push(b byte) error {
	s.buf = append(s.buf, b)
	return nil
}

func (s *GrowingSink) TryExtend(bs []byte) error {
	s.buf = append(s.buf, bs...)
	return nil
}

func (s *GrowingSink) Finalize() ([]byte, error) {
	return s.buf, nil
}
