package wire

// Source is a deserialization flavor: an abstract byte source that the
// primitive decoder pulls from. Modifier flavors (COBS, CRC) wrap an
// inner Source symmetrically to Sink (spec §4.4).
type Source interface {
	// Pop returns the next byte, or ErrInputExhausted if none remain.
	Pop() (byte, error)

	// TryTakeN returns exactly n bytes. Implementations that can, return
	// a borrowed subslice of their own buffer (zero-copy); implementations
	// that cannot (e.g. a non-contiguous or streaming source) must copy
	// into an internal buffer or fail with ErrCannotBorrow — callers that
	// need a true zero-copy view should check CanBorrow first.
	TryTakeN(n int) ([]byte, error)

	// CanBorrow reports whether TryTakeN can return a view that shares
	// memory with the underlying input, rather than a copy. String/byte
	// array decoding that wants a zero-copy result must check this.
	CanBorrow() bool

	// Finalize reports on any unused tail and verifies modifier-owned
	// integrity (e.g. CRC). After Finalize, the Source must not be used
	// again.
	Finalize() error
}
