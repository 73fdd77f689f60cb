// Package varint implements postcard's little-endian base-128 variable
// length integer encoding, plus the zigzag transform used for signed
// integers.
//
// Each byte carries 7 value bits in its low bits; the MSB is a
// continuation flag (set on every byte but the last). A width's byte
// budget is ceil(8*W/7) for a W-bit type; decoding enforces that budget
// and rejects any byte that would push the decoded value past the
// type's range, per the wire format (spec §4.1).
package varint

import "errors"

// Errors surfaced by the varint codec. Callers distinguish them with
// errors.Is; they compose into the wider wire.Error taxonomy one layer up.
var (
	// ErrOverflow is returned when a varint exceeds its type's byte
	// budget, or when in-budget bytes decode a value outside the
	// type's range.
	ErrOverflow = errors.New("varint: value overflows target width")

	// ErrUnexpectedEnd is returned when the input ends before the
	// continuation bit clears.
	ErrUnexpectedEnd = errors.New("varint: unexpected end of input")
)

// Byte budgets for each supported width, ceil(8*W/7) for W-bit types.
const (
	MaxLenU16  = 3
	MaxLenU32  = 5
	MaxLenU64  = 10
	MaxLenU128 = 19
)

// PutUvarint encodes v (treated as an arbitrary unsigned 64-bit value,
// with no width-specific budget enforced — the caller picks the right
// entry point for the schema width) into buf, which must have room for
// at least MaxLenU64 bytes, and returns the number of bytes written.
//
// This mirrors the standard append-while-continuation-bit-set loop used
// throughout the pack's own wire-format codecs.
func PutUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// AppendUvarint appends the varint encoding of v to buf and returns the
// extended slice.
func AppendUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// UvarintSize returns the number of bytes PutUvarint/AppendUvarint would
// write for v.
func UvarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// DecodeUvarint decodes an unsigned varint of at most bitWidth value
// bits from data, enforcing a byte budget of maxLen bytes. It returns
// the decoded value and the number of bytes consumed.
//
// bitWidth must be one of 16, 32, 64 (128 is handled by the dedicated
// 128-bit entry points below, since it does not fit in a uint64
// accumulator).
func DecodeUvarint(data []byte, maxLen int, bitWidth uint) (uint64, int, error) {
	var v uint64
	for i := 0; ; i++ {
		if i == len(data) {
			return 0, i, ErrUnexpectedEnd
		}
		b := data[i]
		cont := b&0x80 != 0
		chunk := uint64(b & 0x7F)
		shift := uint(i) * 7

		if i >= maxLen {
			return 0, 0, ErrOverflow
		}
		if i == maxLen-1 {
			// Last byte this width's budget allows: continuation must
			// be clear, and no bit beyond bitWidth may be set.
			if cont {
				return 0, 0, ErrOverflow
			}
			if shift < bitWidth {
				remaining := bitWidth - shift
				if remaining < 7 {
					mask := uint64(1)<<remaining - 1
					if chunk&^mask != 0 {
						return 0, 0, ErrOverflow
					}
				}
			} else if chunk != 0 {
				return 0, 0, ErrOverflow
			}
		}

		if shift < 64 {
			v |= chunk << shift
		} else if chunk != 0 {
			return 0, 0, ErrOverflow
		}

		if !cont {
			return v, i + 1, nil
		}
	}
}

// zigzag64 maps a signed value (sign-extended into int64, regardless of
// its original declared width) onto an unsigned value of the same
// effective width, so small-magnitude values stay small on the wire.
func zigzag64(n int64) uint64 {
	return uint64(n<<1) ^ uint64(n>>63)
}

// unzigzag64 reverses zigzag64.
func unzigzag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// EncodeSvarint appends the zigzag varint encoding of a signed value to
// buf. n must already be sign-extended to int64 (Go does this
// automatically converting from any narrower signed type).
func EncodeSvarint(buf []byte, n int64) []byte {
	return AppendUvarint(buf, zigzag64(n))
}

// DecodeSvarint decodes a zigzag varint of at most bitWidth value bits
// (the width of the *unsigned* zigzag form, equal to the signed type's
// own bit width) and returns the signed value.
func DecodeSvarint(data []byte, maxLen int, bitWidth uint) (int64, int, error) {
	u, n, err := DecodeUvarint(data, maxLen, bitWidth)
	if err != nil {
		return 0, n, err
	}
	return unzigzag64(u), n, nil
}
