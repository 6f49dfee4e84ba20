// Package stub implements an in-memory radio driver for host-side testing
// and the loopback facade. Two stubs can be linked so that one side's
// transmissions become the other side's pending payloads.
package stub

import (
	"errors"
	"sync"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/transport"
)

var ErrNoPayload = errors.New("stub: no payload pending")

type Driver struct {
	mu    sync.Mutex
	cfg   transport.RadioConfig
	mode  transport.Mode
	peer  *Driver
	rxBuf ringBuffer
	txLog [][]byte
}

func New() *Driver { return &Driver{} }

// Pair returns two linked drivers: frames transmitted on one become
// pending payloads on the other, mimicking a matched channel/address pair.
func Pair() (*Driver, *Driver) {
	a, b := New(), New()
	a.peer, b.peer = b, a
	return a, b
}

func (d *Driver) Configure(cfg transport.RadioConfig, mode transport.Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
	d.mode = mode
	return nil
}

func (d *Driver) Tx(frame []byte) error {
	cp := make([]byte, len(frame))
	copy(cp, frame)

	d.mu.Lock()
	d.txLog = append(d.txLog, cp)
	peer := d.peer
	d.mu.Unlock()

	if peer != nil {
		peer.InjectRx(cp)
	}
	return nil
}

func (d *Driver) Available() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rxBuf.count > 0
}

func (d *Driver) Rx() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	frame, ok := d.rxBuf.pop()
	if !ok {
		return nil, ErrNoPayload
	}
	return frame, nil
}

func (d *Driver) Close() error { return nil }

// InjectRx queues a payload as if it had arrived over the air.
func (d *Driver) InjectRx(frame []byte) {
	cp := make([]byte, len(frame))
	copy(cp, frame)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rxBuf.push(cp)
}

// TxLog returns a copy of everything transmitted so far.
func (d *Driver) TxLog() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.txLog))
	for i, frame := range d.txLog {
		cp := make([]byte, len(frame))
		copy(cp, frame)
		out[i] = cp
	}
	return out
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity][]byte
	head, tail int // head = next pop, tail = next push
	count      int
}

func (rb *ringBuffer) push(frame []byte) {
	if rb.count == ringCapacity {
		// Overwrite the oldest when the buffer is full to keep memory bounded.
		rb.data[rb.head] = nil
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = frame
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) pop() ([]byte, bool) {
	if rb.count == 0 {
		return nil, false
	}
	frame := rb.data[rb.head]
	rb.data[rb.head] = nil
	rb.head = (rb.head + 1) % ringCapacity
	rb.count--
	return frame, true
}
