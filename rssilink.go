// Package rssilink provides a façade to access the radio telemetry layer:
// the record/frame contract, the two endpoint roles, and an in-memory
// loopback for host-side development without the transceiver hardware.
package rssilink

import (
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/driver/stub"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/sampling"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/transport"
)

// Re-export the types that make up the public surface.
type (
	Record      = protocol.Record
	Batch       = sampling.Batch
	RadioConfig = transport.RadioConfig
	RadioDriver = transport.RadioDriver
	Endpoint    = transport.Endpoint
	Receiver    = transport.Receiver
	Transmitter = transport.Transmitter
	Mode        = transport.Mode
)

const (
	FrameSize = protocol.FrameSize
	Listening = transport.Listening
	Sending   = transport.Sending
)

var (
	ErrInvalidChannel = protocol.ErrInvalidChannel
	ErrPayloadSize    = protocol.ErrPayloadSize
	ErrWrongMode      = transport.ErrWrongMode
)

// DefaultRadioConfig is the out-of-band link contract both ends assume
// unless configured otherwise.
func DefaultRadioConfig() RadioConfig { return transport.DefaultRadioConfig() }

// Loopback returns a sending and a listening endpoint wired back to back
// through in-memory stub drivers, for tests and host-side development.
func Loopback(cfg RadioConfig) (tx *Endpoint, rx *Endpoint, err error) {
	txDrv, rxDrv := stub.Pair()
	tx, err = transport.Open(txDrv, cfg, Sending)
	if err != nil {
		return nil, nil, err
	}
	rx, err = transport.Open(rxDrv, cfg, Listening)
	if err != nil {
		return nil, nil, err
	}
	return tx, rx, nil
}
