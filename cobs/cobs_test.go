package cobs

import (
	"testing"

	"github.com/gopostcard/postcard/flavor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_KnownFrame(t *testing.T) {
	got := Encode([]byte{0x04, 0x01, 0x00, 0x20, 0x30})
	want := []byte{0x03, 0x04, 0x01, 0x03, 0x20, 0x30, 0x00}
	assert.Equal(t, want, got)
}

func TestDecode_ReversesEncode(t *testing.T) {
	payloads := [][]byte{
		nil,
		{0x01},
		{0x00},
		{0x00, 0x00, 0x00},
		{0x04, 0x01, 0x00, 0x20, 0x30},
		bytesRange(300), // spans the 254-byte stuffing boundary
	}
	for _, p := range payloads {
		enc := Encode(p)
		// exactly one interior-free terminal zero
		assert.Equal(t, byte(0x00), enc[len(enc)-1])
		for _, b := range enc[:len(enc)-1] {
			assert.NotEqual(t, byte(0x00), b)
		}
		got, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestEncode_NoInteriorZeros(t *testing.T) {
	p := []byte{0x00, 0x01, 0x00, 0x02, 0x00}
	enc := Encode(p)
	interior := enc[:len(enc)-1]
	for _, b := range interior {
		assert.NotEqual(t, byte(0x00), b)
	}
	assert.Equal(t, byte(0x00), enc[len(enc)-1])
}

func TestEncode_StuffingBoundary(t *testing.T) {
	// Exactly 254 non-zero bytes: one full block, code 0xFF, no implicit
	// zero inserted by the decoder.
	p := bytesRange(254)
	enc := Encode(p)
	assert.Equal(t, byte(0xFF), enc[0])
	got, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// 255 bytes: spills into a second block.
	p255 := bytesRange(255)
	enc255 := Encode(p255)
	got255, err := Decode(enc255)
	require.NoError(t, err)
	assert.Equal(t, p255, got255)
}

func TestDecode_RejectsMissingDelimiter(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestDecode_RejectsInteriorZeroInBlock(t *testing.T) {
	_, err := Decode([]byte{0x03, 0x01, 0x00, 0x00})
	assert.Error(t, err)
}

func TestSinkSource_RoundTrip(t *testing.T) {
	payload := []byte{0x04, 0x01, 0x00, 0x20, 0x30}
	inner := flavor.NewGrowingSink(nil)
	sink := NewSink(inner)
	for _, b := range payload {
		require.NoError(t, sink.Push(b))
	}
	framed, err := sink.Finalize()
	require.NoError(t, err)
	assert.Equal(t, Encode(payload), framed)

	src, err := NewSourceFromFrame(framed)
	require.NoError(t, err)
	for _, want := range payload {
		b, err := src.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, b)
	}
	require.NoError(t, src.Finalize())
}

func TestAccumulator_SingleChunk(t *testing.T) {
	acc := NewAccumulator(64)
	frame := Encode([]byte{0x04, 0x01, 0x00, 0x20, 0x30})
	res := acc.Feed(frame)
	require.Equal(t, StatusFrameReady, res.Status)
	assert.Equal(t, []byte{0x04, 0x01, 0x00, 0x20, 0x30}, res.Frame)
	assert.Empty(t, res.Remaining)
	assert.Equal(t, Idle, acc.State())
}

func TestAccumulator_PartitionedChunks(t *testing.T) {
	// spec §8 scenario 7: feeding the same frame split across
	// arbitrary chunk boundaries yields the identical decoded frame.
	full := []byte{0x03, 0x04, 0x01, 0x03, 0x20, 0x30, 0x00}
	chunks := [][]byte{{0x03, 0x04}, {0x01, 0x03, 0x20}, {0x30, 0x00}}

	acc := NewAccumulator(64)
	var got []byte
	var frames int
	for _, c := range chunks {
		err := acc.FeedAll(c, func(frame []byte, ferr error) error {
			require.NoError(t, ferr)
			got = frame
			frames++
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, frames)
	assert.Equal(t, []byte{0x04, 0x01, 0x00, 0x20, 0x30}, got)

	// Sanity: the same bytes fed in one shot produce the same result.
	acc2 := NewAccumulator(64)
	res := acc2.Feed(full)
	require.Equal(t, StatusFrameReady, res.Status)
	assert.Equal(t, got, res.Frame)
}

func TestAccumulator_MultipleFramesInOneChunk(t *testing.T) {
	chunk := append(append([]byte{}, Encode([]byte{1, 2})...), Encode([]byte{3, 4})...)
	acc := NewAccumulator(64)
	var frames [][]byte
	require.NoError(t, acc.FeedAll(chunk, func(frame []byte, err error) error {
		require.NoError(t, err)
		frames = append(frames, frame)
		return nil
	}))
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{1, 2}, frames[0])
	assert.Equal(t, []byte{3, 4}, frames[1])
}

func TestAccumulator_Overflow(t *testing.T) {
	acc := NewAccumulator(4)
	chunk := append(bytesRange(10), 0x00)
	res := acc.Feed(chunk)
	assert.Equal(t, StatusOverflow, res.Status)
	assert.Equal(t, Idle, acc.State())
}

func TestAccumulator_BadFrame(t *testing.T) {
	acc := NewAccumulator(64)
	// 0xFE claims 253 payload bytes follow but only one is present.
	res := acc.Feed([]byte{0xFE, 0x01, 0x00})
	assert.Equal(t, StatusBadFrame, res.Status)
}

func TestAccumulator_ResetDiscardsPartialFrame(t *testing.T) {
	acc := NewAccumulator(64)
	acc.Feed([]byte{0x05, 0x01, 0x02})
	assert.Equal(t, Collecting, acc.State())
	acc.Reset()
	assert.Equal(t, Idle, acc.State())
}

func bytesRange(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i%255) + 1 // never zero
	}
	return b
}
