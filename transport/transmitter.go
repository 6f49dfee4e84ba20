package transport

import (
	"time"

	"go.uber.org/zap"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

// Transmitter drains measurement batches over a Sending endpoint, one
// record per radio send, paced so the receiver's poll cycle keeps up.
type Transmitter struct {
	ep   *Endpoint
	pace time.Duration
	log  *zap.Logger
}

func NewTransmitter(ep *Endpoint, pace time.Duration, log *zap.Logger) *Transmitter {
	return &Transmitter{ep: ep, pace: pace, log: log}
}

// Drain sends every record in index order. A send-layer failure is logged
// and that record skipped; the batch continues. Delivery is best-effort at
// this layer (the radio's auto-ack, if enabled, is the only assurance).
// Returns the number of records actually sent.
func (t *Transmitter) Drain(records []protocol.Record) int {
	sent := 0
	for _, rec := range records {
		if err := t.ep.Send(protocol.Marshal(rec)); err != nil {
			t.log.Warn("send failed, skipping record",
				zap.Int32("index", rec.Index), zap.Error(err))
		} else {
			sent++
		}
		// Single pacing delay per record, also after the last one so two
		// back-to-back batches stay paced.
		time.Sleep(t.pace)
	}
	t.log.Info("batch drained", zap.Int("sent", sent), zap.Int("total", len(records)))
	return sent
}
