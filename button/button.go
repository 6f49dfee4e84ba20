// Package button exposes a debounced, edge-detected digital input used to
// trigger a sampling run.
package button

import (
	"time"

	"github.com/juju/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
)

// Button watches one GPIO pin for rising edges.
type Button struct {
	pin      gpio.PinIO
	debounce time.Duration
}

// Open configures the named pin as a pulled-down input with rising-edge
// detection. periph's host.Init must have run first.
func Open(name string, debounce time.Duration) (*Button, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, errors.Errorf("button: no gpio pin %q", name)
	}
	if err := pin.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return nil, errors.Annotatef(err, "button: configure pin %q", name)
	}
	return &Button{pin: pin, debounce: debounce}, nil
}

// Wait blocks until a debounced press or until stop closes. The edge is
// confirmed by re-reading the level after the debounce interval, so
// contact bounce does not fire twice.
func (b *Button) Wait(stop <-chan struct{}) bool {
	for {
		select {
		case <-stop:
			return false
		default:
		}
		if !b.pin.WaitForEdge(100 * time.Millisecond) {
			continue
		}
		time.Sleep(b.debounce)
		if b.pin.Read() == gpio.High {
			return true
		}
	}
}
