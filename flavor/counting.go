package flavor

// CountingSink discards every byte passed through it and only tracks
// how many there were. Running the Encoder's element dispatch against a
// CountingSink instead of a real storage flavor is exactly the size
// estimator (spec §4.7): one pass, no output, exact byte count.
type CountingSink struct {
	n int
}

// NewCountingSink builds a zeroed CountingSink.
func NewCountingSink() *CountingSink {
	return &CountingSink{}
}

func (s *CountingSink) Push(b byte) error {
	s.n++
	return nil
}

func (s *CountingSink) TryExtend(bs []byte) error {
	s.n += len(bs)
	return nil
}

// Finalize returns an empty slice; callers that want the count use Len,
// not the Finalize return value.
func (s *CountingSink) Finalize() ([]byte, error) {
	return nil, nil
}

// Len reports the number of bytes pushed so far.
func (s *CountingSink) Len() int { return s.n }
