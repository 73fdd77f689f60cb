// Package cobs implements Consistent Overhead Byte Stuffing framing
// (spec §4.8): a block codec that removes interior 0x00 bytes from a
// payload so a single 0x00 can serve as a frame delimiter, the
// serialization/deserialization modifier flavors built on it, and the
// streaming Accumulator that reassembles frames from arbitrary byte
// chunks arriving off a transport.
package cobs

import "github.com/gopostcard/postcard/wire"

// maxBlock is the longest run COBS can describe with one length byte:
// 254 bytes of non-zero payload, signalled by the overhead byte 0xFF
// (meaning "254 bytes follow, no zero in this span").
const maxBlock = 254

// Encode returns the COBS encoding of src, including the single
// terminating 0x00 delimiter, with no interior zero bytes (spec §8
// invariant 6).
func Encode(src []byte) []byte {
	// Worst case: one overhead byte per maxBlock-byte run, plus the
	// payload itself, plus the terminator.
	out := make([]byte, 0, len(src)+len(src)/maxBlock+2)

	codeIdx := len(out)
	out = append(out, 0) // placeholder for the first overhead byte
	code := byte(1)

	flush := func() {
		out[codeIdx] = code
		codeIdx = len(out)
		out = append(out, 0) // placeholder for the next overhead byte
		code = 1
	}

	for _, b := range src {
		if b == 0 {
			flush()
			continue
		}
		out = append(out, b)
		code++
		if code == 0xFF {
			flush()
		}
	}
	out[codeIdx] = code
	return append(out, 0x00)
}

// Decode reverses Encode. frame must include the terminating 0x00 (and
// must not contain any other 0x00 byte); Decode returns the original
// payload. A malformed frame (premature zero, truncated block, or a
// block's run extending past the frame) yields wire.ErrBadCOBSFrame.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) == 0 || frame[len(frame)-1] != 0x00 {
		return nil, wire.ErrBadCOBSFrame
	}
	body := frame[:len(frame)-1]

	out := make([]byte, 0, len(body))
	i := 0
	for i < len(body) {
		code := body[i]
		if code == 0 {
			return nil, wire.ErrBadCOBSFrame
		}
		i++
		run := int(code) - 1
		if i+run > len(body) {
			return nil, wire.ErrBadCOBSFrame
		}
		for j := 0; j < run; j++ {
			if body[i+j] == 0 {
				return nil, wire.ErrBadCOBSFrame
			}
		}
		out = append(out, body[i:i+run]...)
		i += run
		if code != 0xFF && i < len(body) {
			out = append(out, 0x00)
		}
	}
	return out, nil
}

// MaxEncodedLen returns the largest number of bytes Encode could produce
// for a payload of n bytes, including the terminator — useful for
// sizing a fixed destination buffer (e.g. a SliceSink) ahead of time.
func MaxEncodedLen(n int) int {
	return n + n/maxBlock + 2
}
