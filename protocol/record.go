// Package protocol defines the wire contract shared by both ends of the
// radio link: the Record unit, its fixed 8-byte frame encoding, and the
// error taxonomy separating fatal from recoverable conditions.
package protocol

// Generic radio & protocol constants (platform independent). All higher
// layers should depend on this file.
const (
	// FrameSize is the exact on-air payload length in bytes: two
	// little-endian signed 32-bit integers, index then metric. The radio's
	// fixed payload width must be programmed to this value on both ends.
	FrameSize = 8

	// AddressSize is the width of the radio's pipe address in bytes.
	AddressSize = 5

	// MaxChannel is the highest valid RF channel. Each channel is 1MHz wide
	// starting at 2400MHz, so channel 76 = 2476MHz.
	MaxChannel = 125

	// DefaultChannel is used when no channel is configured.
	DefaultChannel = 76
)

// Record is one indexed signal-quality reading. It is immutable once
// created and is the unit of both transfer and storage.
type Record struct {
	Index  int32
	Metric int32
}

// Address is the radio's logical pipe identifier. Sender and listener must
// agree on it out of band; a mismatch is a silent link failure.
type Address [AddressSize]byte

// DefaultAddress matches the nRF24L01+ power-on pipe-0 address.
var DefaultAddress = Address{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}
