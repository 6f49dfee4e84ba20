package transport

import "github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"

// Mode is the role a configured radio handle commits to for the process
// lifetime. A single handle is never both at once.
type Mode uint8

const (
	// Listening keeps the receive pipe open and continuously receiving.
	Listening Mode = iota + 1
	// Sending opens the transmit pipe; no continuous receive.
	Sending
)

func (m Mode) String() string {
	switch m {
	case Listening:
		return "listening"
	case Sending:
		return "sending"
	}
	return "unknown"
}

// RadioConfig is the static link negotiation: both endpoints must be
// programmed with identical values or no data arrives. It is agreed out of
// band and never exchanged on the wire.
type RadioConfig struct {
	Channel     uint8
	Address     protocol.Address
	PayloadSize int
}

// DefaultRadioConfig returns the config both ends use unless overridden.
func DefaultRadioConfig() RadioConfig {
	return RadioConfig{
		Channel:     protocol.DefaultChannel,
		Address:     protocol.DefaultAddress,
		PayloadSize: protocol.FrameSize,
	}
}

// RadioDriver is the interface that wraps the basic radio operations.
// Implementations: driver/nrf24 for the real transceiver, driver/stub for
// host-side testing.
type RadioDriver interface {
	// Configure programs channel, address, payload width and RX/TX role
	// into the transceiver. This is physical state until the next call.
	Configure(cfg RadioConfig, mode Mode) error
	// Tx sends one payload. Blocks until the radio has accepted it.
	Tx(frame []byte) error
	// Available reports, without blocking, whether a received payload is
	// pending.
	Available() bool
	// Rx pulls exactly one pending payload.
	Rx() ([]byte, error)
	Close() error
}
