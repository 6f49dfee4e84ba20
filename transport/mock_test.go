package transport

import (
	"errors"
	"sync"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

var errRadioDown = errors.New("radio down")

// mockDriver implements RadioDriver for tests: it records transmitted
// frames and serves queued receive payloads, with injectable failures.
type mockDriver struct {
	mu      sync.Mutex
	cfg     RadioConfig
	mode    Mode
	cfgErr  error
	txLog   [][]byte
	txCalls int
	failTx  map[int]error // Tx call ordinal (0-based) -> error
	rxQueue [][]byte
	pullErr error // fail the next Rx pull
}

func newMockDriver() *mockDriver {
	return &mockDriver{failTx: make(map[int]error)}
}

func (d *mockDriver) Configure(cfg RadioConfig, mode Mode) error {
	if d.cfgErr != nil {
		return d.cfgErr
	}
	d.cfg = cfg
	d.mode = mode
	return nil
}

func (d *mockDriver) Tx(frame []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	call := d.txCalls
	d.txCalls++
	if err, ok := d.failTx[call]; ok {
		return err
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	d.txLog = append(d.txLog, cp)
	return nil
}

func (d *mockDriver) Available() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rxQueue) > 0 || d.pullErr != nil
}

func (d *mockDriver) Rx() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pullErr != nil {
		err := d.pullErr
		d.pullErr = nil
		return nil, err
	}
	if len(d.rxQueue) == 0 {
		return nil, errors.New("no payload pending")
	}
	frame := d.rxQueue[0]
	d.rxQueue = d.rxQueue[1:]
	return frame, nil
}

func (d *mockDriver) Close() error { return nil }

func (d *mockDriver) injectRx(frame []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := make([]byte, len(frame))
	copy(cp, frame)
	d.rxQueue = append(d.rxQueue, cp)
}

func (d *mockDriver) sentFrames() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.txLog))
	copy(out, d.txLog)
	return out
}

// collectSink gathers appended records in arrival order.
type collectSink struct {
	mu   sync.Mutex
	recs []protocol.Record
	err  error // returned by every Append when set
}

func (s *collectSink) Append(rec protocol.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.recs = append(s.recs, rec)
	return nil
}

func (s *collectSink) records() []protocol.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.Record, len(s.recs))
	copy(out, s.recs)
	return out
}
