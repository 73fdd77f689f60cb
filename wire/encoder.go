package wire

import (
	"math"
	"unicode/utf8"

	"github.com/gopostcard/postcard/varint"
)

// Encoder dispatches element directives from an external serialization
// framework to a Sink, per the wire format (spec §3, §4.2, §4.5). It is
// stateless beyond the Sink it owns and the platform width it was built
// with; on any error it propagates immediately and leaves no recovery
// path — the caller's partial output is considered invalid.
type Encoder struct {
	sink     Sink
	platform PlatformWidth
}

// NewEncoder builds an Encoder over sink using the host's own pointer
// width for usize-prefixed elements (strings, byte arrays, seqs, maps).
func NewEncoder(sink Sink) *Encoder {
	return &Encoder{sink: sink, platform: DefaultPlatformWidth()}
}

// NewEncoderForPlatform builds an Encoder targeting a specific
// receiver pointer width, for producing wire bytes a constrained
// receiver is guaranteed to accept.
func NewEncoderForPlatform(sink Sink, platform PlatformWidth) *Encoder {
	return &Encoder{sink: sink, platform: platform}
}

// Finalize completes the underlying Sink and returns the encoded bytes.
func (e *Encoder) Finalize() ([]byte, error) {
	return e.sink.Finalize()
}

// EncodeBool writes the one-byte bool element.
func (e *Encoder) EncodeBool(v bool) error {
	if v {
		return e.sink.Push(0x01)
	}
	return e.sink.Push(0x00)
}

// EncodeU8 writes the one-byte u8 element.
func (e *Encoder) EncodeU8(v uint8) error {
	return e.sink.Push(v)
}

// EncodeI8 writes the one-byte i8 element (raw two's complement byte,
// never varint — spec §3).
func (e *Encoder) EncodeI8(v int8) error {
	return e.sink.Push(byte(v))
}

func (e *Encoder) putVarintBuf(buf []byte) error {
	return e.sink.TryExtend(buf)
}

// EncodeU16 writes a u16 as a varint.
func (e *Encoder) EncodeU16(v uint16) error {
	return e.putVarintBuf(varint.AppendUvarint(nil, uint64(v)))
}

// EncodeU32 writes a u32 as a varint.
func (e *Encoder) EncodeU32(v uint32) error {
	return e.putVarintBuf(varint.AppendUvarint(nil, uint64(v)))
}

// EncodeU64 writes a u64 as a varint.
func (e *Encoder) EncodeU64(v uint64) error {
	return e.putVarintBuf(varint.AppendUvarint(nil, v))
}

// EncodeU128 writes a u128 as a varint.
func (e *Encoder) EncodeU128(v varint.Uint128) error {
	return e.putVarintBuf(varint.EncodeUvarint128(nil, v))
}

// EncodeI16 writes an i16 as a zigzag varint.
func (e *Encoder) EncodeI16(v int16) error {
	return e.putVarintBuf(varint.EncodeSvarint(nil, int64(v)))
}

// EncodeI32 writes an i32 as a zigzag varint.
func (e *Encoder) EncodeI32(v int32) error {
	return e.putVarintBuf(varint.EncodeSvarint(nil, int64(v)))
}

// EncodeI64 writes an i64 as a zigzag varint.
func (e *Encoder) EncodeI64(v int64) error {
	return e.putVarintBuf(varint.EncodeSvarint(nil, v))
}

// EncodeI128 writes an i128 as a zigzag varint.
func (e *Encoder) EncodeI128(v varint.Int128) error {
	return e.putVarintBuf(varint.EncodeSvarint128(nil, v))
}

// fixed-width little-endian integers: the "fixint" annotation (spec
// §4.2), a per-field opt-out of varint for predictable-size headers.

// EncodeU16Fixint writes a u16 as 2 raw little-endian bytes.
func (e *Encoder) EncodeU16Fixint(v uint16) error {
	return e.sink.TryExtend([]byte{byte(v), byte(v >> 8)})
}

// EncodeU32Fixint writes a u32 as 4 raw little-endian bytes.
func (e *Encoder) EncodeU32Fixint(v uint32) error {
	return e.sink.TryExtend([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// EncodeU64Fixint writes a u64 as 8 raw little-endian bytes.
func (e *Encoder) EncodeU64Fixint(v uint64) error {
	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	return e.sink.TryExtend(buf)
}

// EncodeI16Fixint writes an i16 as 2 raw little-endian bytes.
func (e *Encoder) EncodeI16Fixint(v int16) error { return e.EncodeU16Fixint(uint16(v)) }

// EncodeI32Fixint writes an i32 as 4 raw little-endian bytes.
func (e *Encoder) EncodeI32Fixint(v int32) error { return e.EncodeU32Fixint(uint32(v)) }

// EncodeI64Fixint writes an i64 as 8 raw little-endian bytes.
func (e *Encoder) EncodeI64Fixint(v int64) error { return e.EncodeU64Fixint(uint64(v)) }

// EncodeF32 writes a float32 as its bit pattern, 4 little-endian bytes.
func (e *Encoder) EncodeF32(v float32) error {
	return e.EncodeU32Fixint(math.Float32bits(v))
}

// EncodeF64 writes a float64 as its bit pattern, 8 little-endian bytes.
func (e *Encoder) EncodeF64(v float64) error {
	return e.EncodeU64Fixint(math.Float64bits(v))
}

// EncodeUsize writes a platform-sized unsigned length/index as a
// varint, rejecting any value a receiver of the Encoder's configured
// platform width could not decode back (spec §3: "a receiver rejects
// values exceeding its own pointer type") — the same bound DecodeUsize
// enforces, checked here too so NewEncoderForPlatform actually produces
// bytes a constrained receiver is guaranteed to accept.
func (e *Encoder) EncodeUsize(v uint64) error {
	if v > e.platform.maxValue() {
		return ErrVarintOverflow
	}
	return e.putVarintBuf(varint.AppendUvarint(nil, v))
}

// EncodeChar writes a char element: UTF-8 bytes of the rune, emitted as
// a length-prefixed string.
func (e *Encoder) EncodeChar(r rune) error {
	if !utf8.ValidRune(r) {
		return ErrInvalidChar
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return e.EncodeString(string(buf[:n]))
}

// EncodeString writes a string element: a usize length prefix, then the
// raw UTF-8 bytes.
func (e *Encoder) EncodeString(s string) error {
	if err := e.EncodeUsize(uint64(len(s))); err != nil {
		return err
	}
	return e.sink.TryExtend([]byte(s))
}

// EncodeBytes writes a byte-array element: a usize length prefix, then
// the raw bytes.
func (e *Encoder) EncodeBytes(b []byte) error {
	if err := e.EncodeUsize(uint64(len(b))); err != nil {
		return err
	}
	return e.sink.TryExtend(b)
}

// EncodeOptionTag writes the option discriminant byte. The framework is
// responsible for calling the inner element's encode method afterwards
// when present is true (spec §3: option is 0x00, or 0x01 then inner).
func (e *Encoder) EncodeOptionTag(present bool) error {
	return e.EncodeBool(present)
}

// EncodeSeqHeader writes a seq's usize length prefix; the framework then
// encodes each of the n elements itself.
func (e *Encoder) EncodeSeqHeader(n int) error {
	return e.EncodeUsize(uint64(n))
}

// EncodeMapHeader writes a map's usize length prefix (count of pairs);
// the framework then encodes each (key, value) pair itself.
func (e *Encoder) EncodeMapHeader(n int) error {
	return e.EncodeUsize(uint64(n))
}

// EncodeVariantHeader writes a tagged-union discriminant, always a
// varint(u32) regardless of the source host's discriminant width (spec
// §3, §4.2). The framework then encodes the variant's payload itself,
// if any.
func (e *Encoder) EncodeVariantHeader(discriminant uint32) error {
	return e.EncodeU32(discriminant)
}

// unit, unit_struct, and the unit-carrying newtype/tuple/struct wrappers
// contribute zero bytes of their own; there is deliberately no
// EncodeUnit call here; the framework simply encodes nothing for them.
