package cobs

import "github.com/gopostcard/postcard/wire"

// State names the Accumulator's three states (spec §4.8).
type State int

const (
	// Idle: no partial frame buffered, awaiting the next byte.
	Idle State = iota
	// Collecting: appending incoming bytes to the internal buffer.
	Collecting
	// Overflow: the current frame exceeded the buffer; bytes are being
	// discarded until the next delimiter.
	Overflow
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Collecting:
		return "collecting"
	case Overflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Result is what Feed returns after consuming some prefix of a chunk.
type Result struct {
	// Frame holds the decoded payload of a just-completed frame, non-nil
	// only when Status is FrameReady.
	Frame []byte
	// Remaining is the unconsumed tail of the input chunk, to be fed
	// back to the Accumulator by the caller (spec §4.8: "the
	// accumulator never loses bytes after a returned frame").
	Remaining []byte
	// Status reports what happened.
	Status Status
}

// Status enumerates what Feed produced.
type Status int

const (
	// StatusNeedMore: the whole chunk was consumed; no frame completed.
	StatusNeedMore Status = iota
	// StatusFrameReady: Result.Frame holds a complete, decoded frame.
	StatusFrameReady
	// StatusBadFrame: a delimiter arrived but the buffered bytes did
	// not form a valid COBS frame.
	StatusBadFrame
	// StatusOverflow: a delimiter arrived after the buffer had already
	// overflowed; the frame between the last delimiter and this one is
	// lost.
	StatusOverflow
)

// Accumulator reassembles COBS-delimited frames from a byte-oriented
// transport, one arbitrarily-sized chunk at a time (spec §4.8). It owns
// a fixed-capacity internal buffer and is not safe for concurrent use;
// one Accumulator per logical stream.
type Accumulator struct {
	state State
	buf   []byte // raw COBS-encoded bytes collected so far (excludes the delimiter)
	cap   int
}

// NewAccumulator builds an Accumulator with an internal buffer of the
// given capacity — the largest COBS-encoded frame (including its
// overhead bytes, excluding the delimiter) it can reassemble before
// entering Overflow.
func NewAccumulator(capacity int) *Accumulator {
	return &Accumulator{state: Idle, buf: make([]byte, 0, capacity), cap: capacity}
}

// State reports the Accumulator's current state.
func (a *Accumulator) State() State { return a.state }

// Reset discards any partial frame and returns to Idle.
func (a *Accumulator) Reset() {
	a.state = Idle
	a.buf = a.buf[:0]
}

// Feed consumes chunk byte by byte until either the chunk is exhausted
// (StatusNeedMore) or a delimiter completes or invalidates a frame. The
// caller must re-feed Result.Remaining (e.g. in a loop) to process every
// frame in a chunk that happens to contain more than one.
func (a *Accumulator) Feed(chunk []byte) Result {
	for i, b := range chunk {
		if b == 0x00 {
			rest := chunk[i+1:]
			return a.onDelimiter(rest)
		}
		switch a.state {
		case Idle:
			if a.cap == 0 {
				a.state = Overflow
			} else {
				a.state = Collecting
				a.buf = append(a.buf[:0], b)
			}
		case Collecting:
			if len(a.buf) == a.cap {
				a.state = Overflow
			} else {
				a.buf = append(a.buf, b)
			}
		case Overflow:
			// discard
		}
	}
	return Result{Status: StatusNeedMore, Remaining: nil}
}

func (a *Accumulator) onDelimiter(rest []byte) Result {
	switch a.state {
	case Overflow:
		a.Reset()
		return Result{Status: StatusOverflow, Remaining: rest}
	default:
		frame := append(append([]byte{}, a.buf...), 0x00)
		a.Reset()
		payload, err := Decode(frame)
		if err != nil {
			return Result{Status: StatusBadFrame, Remaining: rest}
		}
		return Result{Status: StatusFrameReady, Frame: payload, Remaining: rest}
	}
}

// FeedAll drives Feed repeatedly over chunk, re-feeding the remaining
// tail, and invokes onFrame for every frame it completes (a bad frame
// or overflow calls onFrame with a nil frame and the corresponding
// wire.Error instead). It stops at the first callback error.
func (a *Accumulator) FeedAll(chunk []byte, onFrame func(frame []byte, err error) error) error {
	for {
		res := a.Feed(chunk)
		switch res.Status {
		case StatusNeedMore:
			return nil
		case StatusFrameReady:
			if err := onFrame(res.Frame, nil); err != nil {
				return err
			}
		case StatusBadFrame:
			if err := onFrame(nil, wire.ErrBadCOBSFrame); err != nil {
				return err
			}
		case StatusOverflow:
			if err := onFrame(nil, wire.ErrBadCOBSFrame); err != nil {
				return err
			}
		}
		chunk = res.Remaining
	}
}
