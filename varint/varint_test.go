package varint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUvarint_KnownEncodings pins the exact byte sequences named in the
// wire format's worked examples.
func TestUvarint_KnownEncodings(t *testing.T) {
	cases := []struct {
		name string
		v    uint64
		want []byte
	}{
		{"127", 127, []byte{0x7F}},
		{"128", 128, []byte{0x80, 0x01}},
		{"65535", 65535, []byte{0xFF, 0xFF, 0x03}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := AppendUvarint(nil, c.v)
			assert.Equal(t, c.want, got)
			assert.Equal(t, len(c.want), UvarintSize(c.v))
		})
	}
}

// TestSvarint_KnownEncodings checks the zigzag examples from the spec.
func TestSvarint_KnownEncodings(t *testing.T) {
	cases := []struct {
		name string
		v    int64
		want []byte
	}{
		{"-1", -1, []byte{0x01}},
		{"min16", math.MinInt16, []byte{0xFF, 0xFF, 0x03}},
		{"max16", math.MaxInt16, []byte{0xFE, 0xFF, 0x03}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := EncodeSvarint(nil, c.v)
			assert.Equal(t, c.want, got)
		})
	}
}

// TestUvarint_RoundTrip covers zero, one, and type-max/min boundaries for
// every integer width the varint codec serves.
func TestUvarint_RoundTrip(t *testing.T) {
	widths := []struct {
		bitWidth uint
		maxLen   int
		max      uint64
	}{
		{16, MaxLenU16, math.MaxUint16},
		{32, MaxLenU32, math.MaxUint32},
		{64, MaxLenU64, math.MaxUint64},
	}
	for _, w := range widths {
		for _, v := range []uint64{0, 1, w.max} {
			buf := AppendUvarint(nil, v)
			got, n, err := DecodeUvarint(buf, w.maxLen, w.bitWidth)
			require.NoError(t, err)
			assert.Equal(t, v, got)
			assert.Equal(t, len(buf), n)
		}
	}
}

// TestUvarint_OutOfRangeRejected checks that a value exceeding a
// narrower width's range decodes as an overflow even though it would be
// perfectly valid for a wider width.
func TestUvarint_OutOfRangeRejected(t *testing.T) {
	buf := AppendUvarint(nil, math.MaxUint16+1) // needs 17 bits
	_, _, err := DecodeUvarint(buf, MaxLenU16, 16)
	assert.ErrorIs(t, err, ErrOverflow)
}

// TestUvarint_NonCanonicalAccepted exercises the invariant that a
// non-minimal but in-budget encoding (extra 0x80 bytes of value zero)
// still decodes successfully.
func TestUvarint_NonCanonicalAccepted(t *testing.T) {
	// 127 encoded with a superfluous continuation byte: 0x7F becomes
	// 0xFF (continue) followed by 0x00 (terminal, zero extra bits).
	buf := []byte{0xFF, 0x00}
	v, n, err := DecodeUvarint(buf, MaxLenU16, 16)
	require.NoError(t, err)
	assert.Equal(t, uint64(127), v)
	assert.Equal(t, 2, n)
}

// TestUvarint_BudgetExceeded checks that continuing past the byte
// budget for a width is an overflow, not an unexpected-end.
func TestUvarint_BudgetExceeded(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF} // still continuing at byte 4
	_, _, err := DecodeUvarint(buf, MaxLenU16, 16)
	assert.ErrorIs(t, err, ErrOverflow)
}

// TestUvarint_UnexpectedEnd checks truncated input mid-varint.
func TestUvarint_UnexpectedEnd(t *testing.T) {
	buf := []byte{0xFF}
	_, _, err := DecodeUvarint(buf, MaxLenU64, 64)
	assert.ErrorIs(t, err, ErrUnexpectedEnd)
}

// TestUvarint_ByteCountBoundaries checks the boundary values where the
// number of bytes in the encoding changes.
func TestUvarint_ByteCountBoundaries(t *testing.T) {
	cases := []struct {
		v       uint64
		nbytes  int
		boundary string
	}{
		{0x7F, 1, "0x7F"},
		{0x80, 2, "0x80"},
		{0x3FFF, 2, "0x3FFF"},
		{0x4000, 3, "0x4000"},
	}
	for _, c := range cases {
		assert.Equal(t, c.nbytes, UvarintSize(c.v), c.boundary)
	}
}

func TestUint128_RoundTrip(t *testing.T) {
	cases := []Uint128{
		{},
		{Lo: 1},
		{Lo: math.MaxUint64},
		{Hi: 1},
		{Hi: math.MaxUint64, Lo: math.MaxUint64},
	}
	for _, v := range cases {
		buf := EncodeUvarint128(nil, v)
		assert.LessOrEqual(t, len(buf), MaxLenU128)
		assert.Equal(t, len(buf), Uvarint128Size(v))
		got, n, err := DecodeUvarint128(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}
}

func TestInt128_ZigZagRoundTrip(t *testing.T) {
	cases := []Int128{
		{},
		{Lo: 1},
		{Hi: ^uint64(0), Lo: ^uint64(0)}, // -1
		{Hi: 1 << 63},                    // min int128
	}
	for _, v := range cases {
		buf := EncodeSvarint128(nil, v)
		got, n, err := DecodeSvarint128(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}
}

func TestUint128_OverflowRejected(t *testing.T) {
	// 19 bytes, all continuation set except the last which sets a bit
	// beyond bit 127.
	buf := make([]byte, MaxLenU128)
	for i := range buf {
		buf[i] = 0xFF
	}
	buf[MaxLenU128-1] = 0x04 // bit 2 of the final chunk, out of range
	_, _, err := DecodeUvarint128(buf)
	assert.ErrorIs(t, err, ErrOverflow)
}
