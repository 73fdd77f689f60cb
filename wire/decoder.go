package wire

import (
	"math"
	"unicode/utf8"

	"github.com/gopostcard/postcard/varint"
)

// Decoder is the pull interface used by an external deserialization
// framework: "give me the next element of type T" (spec §4.6). Each
// call invokes the matching primitive decode against the Source,
// advancing its cursor; the Decoder holds no lookahead state of its
// own and performs no buffering beyond what the Source itself requires.
type Decoder struct {
	src      Source
	platform PlatformWidth
}

// NewDecoder builds a Decoder over src using the host's own pointer
// width.
func NewDecoder(src Source) *Decoder {
	return &Decoder{src: src, platform: DefaultPlatformWidth()}
}

// NewDecoderForPlatform builds a Decoder bounding usize-prefixed
// elements to a specific receiver pointer width.
func NewDecoderForPlatform(src Source, platform PlatformWidth) *Decoder {
	return &Decoder{src: src, platform: platform}
}

// Finalize reports unused tail status from the underlying Source (e.g.
// ErrTrailingBytes from a COBS or CRC source whose payload was not fully
// consumed).
func (d *Decoder) Finalize() error {
	return d.src.Finalize()
}

// DecodeBool reads the one-byte bool element.
func (d *Decoder) DecodeBool() (bool, error) {
	b, err := d.src.Pop()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// DecodeU8 reads the one-byte u8 element.
func (d *Decoder) DecodeU8() (uint8, error) {
	return d.src.Pop()
}

// DecodeI8 reads the one-byte i8 element.
func (d *Decoder) DecodeI8() (int8, error) {
	b, err := d.src.Pop()
	return int8(b), err
}

// decodeUvarint pulls a base-128 varint one byte at a time from the
// Source, enforcing a byte budget of maxLen and a value range of
// bitWidth bits — the same check varint.DecodeUvarint performs against
// a slice, reimplemented here against a pull Source since a streaming
// Source cannot be pre-sliced to a known length before the terminal
// byte is seen.
func (d *Decoder) decodeUvarint(maxLen int, bitWidth uint) (uint64, error) {
	var v uint64
	for i := 0; ; i++ {
		b, err := d.src.Pop()
		if err != nil {
			return 0, err
		}
		cont := b&0x80 != 0
		chunk := uint64(b & 0x7F)
		shift := uint(i) * 7

		if i >= maxLen {
			return 0, ErrVarintOverflow
		}
		if i == maxLen-1 {
			if cont {
				return 0, ErrVarintOverflow
			}
			if shift < bitWidth {
				remaining := bitWidth - shift
				if remaining < 7 {
					mask := uint64(1)<<remaining - 1
					if chunk&^mask != 0 {
						return 0, ErrVarintOverflow
					}
				}
			} else if chunk != 0 {
				return 0, ErrVarintOverflow
			}
		}

		if shift < 64 {
			v |= chunk << shift
		} else if chunk != 0 {
			return 0, ErrVarintOverflow
		}

		if !cont {
			return v, nil
		}
	}
}

func (d *Decoder) decodeSvarint(maxLen int, bitWidth uint) (int64, error) {
	u, err := d.decodeUvarint(maxLen, bitWidth)
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// DecodeU16 reads a varint u16.
func (d *Decoder) DecodeU16() (uint16, error) {
	v, err := d.decodeUvarint(varint.MaxLenU16, 16)
	return uint16(v), err
}

// DecodeU32 reads a varint u32.
func (d *Decoder) DecodeU32() (uint32, error) {
	v, err := d.decodeUvarint(varint.MaxLenU32, 32)
	return uint32(v), err
}

// DecodeU64 reads a varint u64.
func (d *Decoder) DecodeU64() (uint64, error) {
	return d.decodeUvarint(varint.MaxLenU64, 64)
}

// DecodeU128 reads a varint u128.
func (d *Decoder) DecodeU128() (varint.Uint128, error) {
	var v varint.Uint128
	for i := 0; ; i++ {
		b, err := d.src.Pop()
		if err != nil {
			return varint.Uint128{}, err
		}
		cont := b&0x80 != 0
		chunk := uint64(b & 0x7F)
		shift := uint(i) * 7

		if i >= varint.MaxLenU128 {
			return varint.Uint128{}, ErrVarintOverflow
		}
		if i == varint.MaxLenU128-1 {
			if cont {
				return varint.Uint128{}, ErrVarintOverflow
			}
			const remaining = 128 - 18*7
			mask := uint64(1)<<remaining - 1
			if chunk&^mask != 0 {
				return varint.Uint128{}, ErrVarintOverflow
			}
		}

		var word varint.Uint128
		if shift < 64 {
			word = varint.NewUint128(chunk>>(64-shift), chunk<<shift)
		} else {
			word = varint.NewUint128(chunk<<(shift-64), 0)
		}
		v = varint.NewUint128(v.Hi|word.Hi, v.Lo|word.Lo)

		if !cont {
			return v, nil
		}
	}
}

// DecodeI16 reads a zigzag varint i16.
func (d *Decoder) DecodeI16() (int16, error) {
	v, err := d.decodeSvarint(varint.MaxLenU16, 16)
	return int16(v), err
}

// DecodeI32 reads a zigzag varint i32.
func (d *Decoder) DecodeI32() (int32, error) {
	v, err := d.decodeSvarint(varint.MaxLenU32, 32)
	return int32(v), err
}

// DecodeI64 reads a zigzag varint i64.
func (d *Decoder) DecodeI64() (int64, error) {
	return d.decodeSvarint(varint.MaxLenU64, 64)
}

// DecodeI128 reads a zigzag varint i128.
func (d *Decoder) DecodeI128() (varint.Int128, error) {
	u, err := d.DecodeU128()
	if err != nil {
		return varint.Int128{}, err
	}
	return varint.UnZigZag128(u), nil
}

func (d *Decoder) takeFixed(n int) ([]byte, error) {
	return d.src.TryTakeN(n)
}

// DecodeU16Fixint reads a raw little-endian u16 (no varint).
func (d *Decoder) DecodeU16Fixint() (uint16, error) {
	b, err := d.takeFixed(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// DecodeU32Fixint reads a raw little-endian u32.
func (d *Decoder) DecodeU32Fixint() (uint32, error) {
	b, err := d.takeFixed(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// DecodeU64Fixint reads a raw little-endian u64.
func (d *Decoder) DecodeU64Fixint() (uint64, error) {
	b, err := d.takeFixed(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i, c := range b {
		v |= uint64(c) << (8 * i)
	}
	return v, nil
}

// DecodeI16Fixint reads a raw little-endian i16.
func (d *Decoder) DecodeI16Fixint() (int16, error) {
	v, err := d.DecodeU16Fixint()
	return int16(v), err
}

// DecodeI32Fixint reads a raw little-endian i32.
func (d *Decoder) DecodeI32Fixint() (int32, error) {
	v, err := d.DecodeU32Fixint()
	return int32(v), err
}

// DecodeI64Fixint reads a raw little-endian i64.
func (d *Decoder) DecodeI64Fixint() (int64, error) {
	v, err := d.DecodeU64Fixint()
	return int64(v), err
}

// DecodeF32 reads a float32 from its 4-byte little-endian bit pattern.
func (d *Decoder) DecodeF32() (float32, error) {
	v, err := d.DecodeU32Fixint()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// DecodeF64 reads a float64 from its 8-byte little-endian bit pattern.
func (d *Decoder) DecodeF64() (float64, error) {
	v, err := d.DecodeU64Fixint()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// DecodeUsize reads a platform-sized length/index varint, rejecting any
// value that exceeds the Decoder's configured platform width (spec §3:
// "a receiver rejects values exceeding its own pointer type").
func (d *Decoder) DecodeUsize() (uint64, error) {
	bits := d.platform.bits()
	return d.decodeUvarint(d.platform.maxLen(), bits)
}

// DecodeOptionTag reads the option discriminant byte. The framework is
// responsible for decoding the inner element afterwards when the
// result is true.
func (d *Decoder) DecodeOptionTag() (bool, error) {
	b, err := d.src.Pop()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, ErrInvalidOption
	}
}

// DecodeSeqLen reads a seq's usize length prefix; the framework then
// decodes that many elements itself.
func (d *Decoder) DecodeSeqLen() (int, error) {
	n, err := d.DecodeUsize()
	return int(n), err
}

// DecodeMapLen reads a map's usize length prefix (count of pairs).
func (d *Decoder) DecodeMapLen() (int, error) {
	n, err := d.DecodeUsize()
	return int(n), err
}

// DecodeVariantHeader reads a tagged-union discriminant, always a
// varint(u32) on the wire regardless of the receiving host type's
// width.
func (d *Decoder) DecodeVariantHeader() (uint32, error) {
	return d.DecodeU32()
}

// DecodeBytesLen reads a byte-array's usize length prefix without
// reading its payload — the length-peek entry point (spec §6) letting a
// framework pre-allocate a destination buffer before calling
// DecodeBytesBody.
func (d *Decoder) DecodeBytesLen() (int, error) {
	return d.DecodeSeqLen()
}

// DecodeBytesBody reads exactly len(dst) bytes into dst.
func (d *Decoder) DecodeBytesBody(dst []byte) error {
	b, err := d.takeFixed(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// DecodeBytes reads a full byte-array element. If the Source can
// borrow, the returned slice shares memory with the input (zero-copy);
// otherwise it is a fresh copy.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	n, err := d.DecodeBytesLen()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	b, err := d.takeFixed(n)
	if err != nil {
		return nil, err
	}
	if d.src.CanBorrow() {
		return b, nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

// DecodeBytesBorrowed reads a byte-array element and requires a
// zero-copy view; it fails with ErrCannotBorrow if the Source cannot
// provide one (spec §4.4: "borrowing semantics").
func (d *Decoder) DecodeBytesBorrowed() ([]byte, error) {
	n, err := d.DecodeBytesLen()
	if err != nil {
		return nil, err
	}
	if !d.src.CanBorrow() {
		// Still consume the payload so the cursor stays correct for a
		// caller that wants to recover and try something else, per
		// spec §3's "cursor is defined... points just past the last
		// consumed byte" even on error.
		if _, terr := d.takeFixed(n); terr != nil {
			return nil, terr
		}
		return nil, ErrCannotBorrow
	}
	return d.takeFixed(n)
}

// DecodeStringLen reads a string's usize length prefix without reading
// its payload.
func (d *Decoder) DecodeStringLen() (int, error) {
	return d.DecodeSeqLen()
}

// DecodeString reads a full string element, validating UTF-8 and
// rejecting any codepoint that is a surrogate or out of Unicode's scalar
// range.
func (d *Decoder) DecodeString() (string, error) {
	b, err := d.DecodeBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// DecodeChar reads a char element (a single Unicode scalar value
// encoded as a one-rune string) and validates it is exactly one valid
// scalar value, not a surrogate, and not a partial/extra sequence.
func (d *Decoder) DecodeChar() (rune, error) {
	s, err := d.DecodeString()
	if err != nil {
		return 0, err
	}
	r, size := utf8.DecodeRuneInString(s)
	if (r == utf8.RuneError && size <= 1) || size != len(s) {
		return 0, ErrInvalidChar
	}
	return r, nil
}
