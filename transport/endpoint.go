package transport

import (
	"github.com/juju/errors"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

var ErrWrongMode = errors.New("operation not valid in this endpoint mode")

// Endpoint is a radio handle configured for one mode. It is created once at
// startup, owned exclusively by its node role, and never reconfigured at
// runtime.
type Endpoint struct {
	drv  RadioDriver
	cfg  RadioConfig
	mode Mode
}

// Open validates cfg and programs the driver for the requested mode. Any
// driver error here is fatal to the caller: the system cannot operate
// without a correctly configured radio, so initialization failure
// propagates unwrapped to startup.
func Open(drv RadioDriver, cfg RadioConfig, mode Mode) (*Endpoint, error) {
	if cfg.Channel > protocol.MaxChannel {
		return nil, protocol.ErrInvalidChannel
	}
	if cfg.PayloadSize != protocol.FrameSize {
		return nil, protocol.ErrPayloadSize
	}
	if err := drv.Configure(cfg, mode); err != nil {
		return nil, errors.Annotatef(err, "configure radio (%s)", mode)
	}
	return &Endpoint{drv: drv, cfg: cfg, mode: mode}, nil
}

// Mode returns the role this endpoint was opened with.
func (e *Endpoint) Mode() Mode { return e.mode }

// Send transmits one frame. Only valid on a Sending endpoint.
func (e *Endpoint) Send(frame []byte) error {
	if e.mode != Sending {
		return ErrWrongMode
	}
	return e.drv.Tx(frame)
}

// Poll reports whether a payload is pending, without blocking. Only a
// Listening endpoint ever has one.
func (e *Endpoint) Poll() bool {
	if e.mode != Listening {
		return false
	}
	return e.drv.Available()
}

// Receive pulls exactly one pending payload. Only valid on a Listening
// endpoint.
func (e *Endpoint) Receive() ([]byte, error) {
	if e.mode != Listening {
		return nil, ErrWrongMode
	}
	return e.drv.Rx()
}

func (e *Endpoint) Close() error {
	return e.drv.Close()
}
