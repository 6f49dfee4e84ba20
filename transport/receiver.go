package transport

import (
	"time"

	"github.com/temoto/alive/v2"
	"go.uber.org/zap"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

// Sink consumes records decoded from the air. Implementations live in the
// sink package; a failing Append is logged and never stops the receive
// loop.
type Sink interface {
	Append(rec protocol.Record) error
}

// Receiver encapsulates the listening node's receive loop: poll the
// endpoint, decode one payload at a time, hand each valid record to the
// sink. Malformed frames are logged and skipped.
type Receiver struct {
	ep   *Endpoint
	sink Sink
	poll time.Duration
	log  *zap.Logger
}

func NewReceiver(ep *Endpoint, sink Sink, poll time.Duration, log *zap.Logger) *Receiver {
	return &Receiver{ep: ep, sink: sink, poll: poll, log: log}
}

// Run executes the receive loop until a.Stop is called. Each iteration
// either fully processes one pending payload or sleeps for the poll
// interval; no suspension point crosses a record boundary. The loop never
// terminates on its own: every per-iteration failure is recovered locally.
func (r *Receiver) Run(a *alive.Alive) {
	defer a.Done()
	r.log.Info("listening", zap.Duration("poll", r.poll))
	for a.IsRunning() {
		if !r.runOnce() {
			select {
			case <-a.StopChan():
				return
			case <-time.After(r.poll):
			}
		}
	}
}

// runOnce processes at most one pending payload and reports whether one
// was pending.
func (r *Receiver) runOnce() bool {
	if !r.ep.Poll() {
		return false
	}
	raw, err := r.ep.Receive()
	if err != nil {
		r.log.Warn("payload not available", zap.Error(err))
		return true
	}
	rec, err := protocol.Unmarshal(raw)
	if err != nil {
		r.log.Warn("malformed frame", zap.Binary("raw", raw), zap.Error(err))
		return true
	}
	r.log.Info("record received",
		zap.Int32("index", rec.Index),
		zap.Int32("metric", rec.Metric))
	if err := r.sink.Append(rec); err != nil {
		r.log.Error("sink append failed", zap.Int32("index", rec.Index), zap.Error(err))
	}
	return true
}
