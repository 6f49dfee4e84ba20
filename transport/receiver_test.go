package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"go.uber.org/zap/zaptest"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

func newTestReceiver(t *testing.T, drv *mockDriver, sink Sink) *Receiver {
	t.Helper()
	ep, err := Open(drv, DefaultRadioConfig(), Listening)
	require.NoError(t, err)
	return NewReceiver(ep, sink, time.Millisecond, zaptest.NewLogger(t))
}

// drain pumps the receiver until the driver has nothing pending.
func drain(r *Receiver, drv *mockDriver) {
	for drv.Available() {
		r.runOnce()
	}
}

func TestReceiverEmitsValidRecordsInOrder(t *testing.T) {
	drv := newMockDriver()
	sink := &collectSink{}
	r := newTestReceiver(t, drv, sink)

	want := []protocol.Record{{Index: 0, Metric: -40}, {Index: 1, Metric: -42}, {Index: 2, Metric: -41}}
	for _, rec := range want {
		drv.injectRx(protocol.Marshal(rec))
	}
	drain(r, drv)

	assert.Equal(t, want, sink.records())
}

func TestReceiverSkipsMalformedFrames(t *testing.T) {
	drv := newMockDriver()
	sink := &collectSink{}
	r := newTestReceiver(t, drv, sink)

	// Valid records interleaved with invalid lengths, including empty and
	// over-long payloads. Only the valid ones must come out, in arrival
	// order, and the loop must survive every bad one.
	drv.injectRx(protocol.Marshal(protocol.Record{Index: 0, Metric: -40}))
	drv.injectRx([]byte{})
	drv.injectRx([]byte{1, 2, 3})
	drv.injectRx(protocol.Marshal(protocol.Record{Index: 1, Metric: -42}))
	drv.injectRx(make([]byte, 2*protocol.FrameSize))
	drv.injectRx(protocol.Marshal(protocol.Record{Index: 2, Metric: -41}))
	drain(r, drv)

	assert.Equal(t, []protocol.Record{
		{Index: 0, Metric: -40},
		{Index: 1, Metric: -42},
		{Index: 2, Metric: -41},
	}, sink.records())
}

func TestReceiverSurvivesPullFailure(t *testing.T) {
	drv := newMockDriver()
	sink := &collectSink{}
	r := newTestReceiver(t, drv, sink)

	drv.pullErr = errRadioDown
	drv.injectRx(protocol.Marshal(protocol.Record{Index: 0, Metric: -40}))
	drain(r, drv)

	assert.Equal(t, []protocol.Record{{Index: 0, Metric: -40}}, sink.records())
}

func TestReceiverSurvivesSinkFailure(t *testing.T) {
	drv := newMockDriver()
	sink := &collectSink{err: errRadioDown}
	r := newTestReceiver(t, drv, sink)

	drv.injectRx(protocol.Marshal(protocol.Record{Index: 0, Metric: -40}))
	drv.injectRx(protocol.Marshal(protocol.Record{Index: 1, Metric: -42}))
	drain(r, drv)

	// Both records were attempted; the sink error never stopped the loop.
	assert.Empty(t, sink.records())
}

func TestReceiverRunStops(t *testing.T) {
	drv := newMockDriver()
	sink := &collectSink{}
	r := newTestReceiver(t, drv, sink)

	want := []protocol.Record{{Index: 0, Metric: -55}, {Index: 1, Metric: -56}}
	for _, rec := range want {
		drv.injectRx(protocol.Marshal(rec))
	}

	a := alive.NewAlive()
	a.Add(1)
	go r.Run(a)

	deadline := time.Now().Add(2 * time.Second)
	for len(sink.records()) < len(want) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	a.Stop()
	a.Wait()

	assert.Equal(t, want, sink.records())
}
