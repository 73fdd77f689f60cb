// Package postcard is the public façade tying together varint, wire,
// flavor, cobs, and crc into the convenience API an application actually
// calls: Marshal/Unmarshal a value through a chosen flavor stack (plain,
// COBS, CRC, or COBS+CRC), or just measure the encoded size up front.
//
// A value participates by implementing Serializer and/or Deserializer —
// the same shape a hand-written or code-generated schema type in any
// serde-like framework would implement, visiting a *wire.Encoder or
// *wire.Decoder one element at a time (spec §6).
package postcard

import (
	"github.com/gopostcard/postcard/cobs"
	"github.com/gopostcard/postcard/crc"
	"github.com/gopostcard/postcard/flavor"
	"github.com/gopostcard/postcard/wire"
)

// Serializer is implemented by any value that knows how to write itself
// through a wire.Encoder, one element at a time.
type Serializer interface {
	MarshalPostcard(enc *wire.Encoder) error
}

// Deserializer is implemented by any value that knows how to read itself
// through a wire.Decoder, one element at a time.
type Deserializer interface {
	UnmarshalPostcard(dec *wire.Decoder) error
}

// config collects the flavor-stack choices an Option mutates.
type config struct {
	cobs     bool
	crc      crc.Algorithm
	platform *wire.PlatformWidth
}

// Option configures the flavor stack Marshal/Unmarshal/Size build
// around a value. Options compose: WithCOBS() and WithCRC(...) can both
// be given to frame a CRC-protected payload for a zero-delimited
// transport.
type Option func(*config)

// WithCOBS wraps the flavor stack in COBS framing (spec §4.8): the
// encoded output has no interior 0x00 bytes and ends with a single 0x00
// delimiter, suitable for a byte-stream transport with no other framing.
func WithCOBS() Option {
	return func(c *config) { c.cobs = true }
}

// WithCRC wraps the flavor stack with a trailing checksum computed by
// algo (crc.CRC32, crc.CRC16, or crc.CRC8), appended after the payload
// on encode and verified before the payload is handed to the decoder.
func WithCRC(algo crc.Algorithm) Option {
	return func(c *config) { c.crc = algo }
}

// WithPlatform targets usize-prefixed elements (strings, byte arrays,
// seqs, maps) at a specific receiver pointer width instead of the host
// process's own, for producing bytes a constrained receiver is
// guaranteed to accept.
func WithPlatform(w wire.PlatformWidth) Option {
	return func(c *config) { c.platform = &w }
}

func buildConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newEncoder(sink wire.Sink, c *config) *wire.Encoder {
	if c.platform != nil {
		return wire.NewEncoderForPlatform(sink, *c.platform)
	}
	return wire.NewEncoder(sink)
}

func newDecoder(src wire.Source, c *config) *wire.Decoder {
	if c.platform != nil {
		return wire.NewDecoderForPlatform(src, *c.platform)
	}
	return wire.NewDecoder(src)
}

// buildEncodeSink wraps base (the real storage flavor) in COBS and/or
// CRC per c, outermost-first in encode order: CRC sees raw primitive
// bytes and forwards them (plus its own trailing checksum) through
// COBS, so the checksum bytes themselves get stuffed too.
func buildEncodeSink(base wire.Sink, c *config) wire.Sink {
	sink := base
	if c.cobs {
		sink = cobs.NewSink(sink)
	}
	if c.crc != nil {
		sink = crc.NewSink(sink, c.crc)
	}
	return sink
}

// buildDecodeSource reverses buildEncodeSink: COBS is unwrapped first
// (it was the innermost modifier the bytes passed through on the way
// out), yielding the concatenation of the raw payload and any trailing
// checksum, which CRC then splits and verifies.
func buildDecodeSource(data []byte, c *config) (wire.Source, error) {
	payload := data
	if c.cobs {
		p, err := cobs.Decode(payload)
		if err != nil {
			return nil, err
		}
		payload = p
	}
	if c.crc != nil {
		return crc.NewSource(payload, c.crc)
	}
	return flavor.NewSliceSource(payload), nil
}

// Marshal encodes v into a freshly allocated byte slice.
func Marshal(v Serializer, opts ...Option) ([]byte, error) {
	c := buildConfig(opts)
	base := flavor.NewGrowingSink(nil)
	sink := buildEncodeSink(base, c)
	enc := newEncoder(sink, c)
	if err := v.MarshalPostcard(enc); err != nil {
		return nil, err
	}
	return enc.Finalize()
}

// MarshalTo encodes v into buf, a caller-supplied fixed-capacity
// destination, and returns the written prefix. Returns wire.ErrOutputFull
// if buf is too small.
func MarshalTo(v Serializer, buf []byte, opts ...Option) ([]byte, error) {
	c := buildConfig(opts)
	base := flavor.NewSliceSink(buf)
	sink := buildEncodeSink(base, c)
	enc := newEncoder(sink, c)
	if err := v.MarshalPostcard(enc); err != nil {
		return nil, err
	}
	return enc.Finalize()
}

// remainderer is implemented by every Source this package builds
// (flavor.SliceSource, cobs.Source, crc.Source); it is not part of the
// wire.Source interface itself since a true streaming source cannot
// report a backing remainder.
type remainderer interface {
	Remaining() []byte
}

// Unmarshal decodes v from data in strict mode: any bytes left over
// after v has fully decoded are reported as wire.ErrTrailingBytes.
func Unmarshal(data []byte, v Deserializer, opts ...Option) error {
	c := buildConfig(opts)
	src, err := buildDecodeSource(data, c)
	if err != nil {
		return err
	}
	dec := newDecoder(src, c)
	if err := v.UnmarshalPostcard(dec); err != nil {
		return err
	}
	if err := dec.Finalize(); err != nil {
		return err
	}
	if r, ok := src.(remainderer); ok && len(r.Remaining()) > 0 {
		return wire.ErrTrailingBytes
	}
	return nil
}

// UnmarshalPrefix decodes v from a leading prefix of data and returns
// the unconsumed remainder, resolving spec §9's "trailing input" open
// question in favor of the caller that wants to keep decoding a stream
// of concatenated values rather than treat leftover bytes as an error.
//
// UnmarshalPrefix is only meaningful without COBS or CRC framing (those
// modifiers each consume or verify an entire self-delimited unit). When
// either is requested it decodes data exactly as Unmarshal does, in
// strict mode, and returns a nil remainder; data holding several framed
// values is not split.
func UnmarshalPrefix(data []byte, v Deserializer, opts ...Option) ([]byte, error) {
	c := buildConfig(opts)
	if c.cobs || c.crc != nil {
		if err := Unmarshal(data, v, opts...); err != nil {
			return nil, err
		}
		return nil, nil
	}
	src := flavor.NewSliceSource(data)
	dec := newDecoder(src, c)
	if err := v.UnmarshalPostcard(dec); err != nil {
		return nil, err
	}
	return src.Remaining(), nil
}

// Size returns the exact number of bytes Marshal would produce for v
// under the same options, computed in one dispatch pass against a
// byte-counting sink rather than by first encoding and then measuring
// (spec §4.7).
func Size(v Serializer, opts ...Option) (int, error) {
	c := buildConfig(opts)
	counting := flavor.NewCountingSink()
	sink := buildEncodeSink(counting, c)
	enc := newEncoder(sink, c)
	if err := v.MarshalPostcard(enc); err != nil {
		return 0, err
	}
	if _, err := enc.Finalize(); err != nil {
		return 0, err
	}
	return counting.Len(), nil
}
