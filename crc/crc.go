// Package crc implements the CRC modifier flavor (spec §4.3/§4.4/§4.9):
// a wrapper that updates a running checksum over every byte passed
// through it and appends (on encode) or verifies (on decode) a trailing
// CRC of a configurable algorithm and width.
//
// CRC-32 is backed by the standard library's hash/crc32 (IEEE). CRC-16
// and CRC-8 have no standard-library or pack-example third-party
// implementation available — the pack's own goflac example hand-rolls
// both with a table-free bit loop, and that is the pattern followed
// here.
package crc

// Algorithm computes a running CRC of a fixed bit width over a stream
// of bytes fed one call at a time, then renders the final value as
// little-endian wire bytes (spec §4.3: "CRC bytes, little-endian, width
// per algorithm").
type Algorithm interface {
	// Width reports the checksum's width in bytes (4, 2, or 1).
	Width() int
	// New returns a fresh running-checksum accumulator.
	New() Checksum
}

// Checksum accumulates a CRC over bytes fed to it incrementally.
type Checksum interface {
	// Update folds bs into the running checksum.
	Update(bs []byte)
	// Sum returns the current checksum value's little-endian bytes
	// (Width() of them).
	Sum() []byte
}
