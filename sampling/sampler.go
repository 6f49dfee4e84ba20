// Package sampling produces measurement batches: N signal-quality readings
// drawn at a fixed cadence, indexed 0..N-1, with summary statistics for
// operator visibility.
package sampling

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

// Sentinel is substituted for every reading the source could not provide.
// It is the minimum representable metric, so real readings can never
// collide with it, but on the wire it is indistinguishable from data; the
// Degraded flag is the honest local signal.
const Sentinel int32 = math.MinInt32

// SignalSource provides the current signal quality as a signed integer, or
// an error when the reading is unavailable.
type SignalSource interface {
	Strength() (int32, error)
}

// Batch is one sampling run. It is owned exclusively by the node until the
// transmitter has drained it.
type Batch struct {
	Records []protocol.Record
	// Degraded is set when at least one record carries the sentinel
	// instead of a real reading.
	Degraded bool
}

// Stats are computed per batch for the operator log only; they are never
// transmitted.
type Stats struct {
	Mean   float64
	StdDev float64 // population standard deviation
}

// Stats computes the batch's summary statistics. An empty batch yields
// zeroes.
func (b Batch) Stats() Stats {
	if len(b.Records) == 0 {
		return Stats{}
	}
	var sum float64
	for _, rec := range b.Records {
		sum += float64(rec.Metric)
	}
	mean := sum / float64(len(b.Records))

	var sq float64
	for _, rec := range b.Records {
		d := float64(rec.Metric) - mean
		sq += d * d
	}
	return Stats{Mean: mean, StdDev: math.Sqrt(sq / float64(len(b.Records)))}
}

// Sampler draws batches from a SignalSource. A nil source is allowed and
// behaves like a source that always fails: sampling proceeds with the
// sentinel so the node keeps operating without its metric collaborator.
type Sampler struct {
	src      SignalSource
	count    int
	interval time.Duration
	log      *zap.Logger
}

func New(src SignalSource, count int, interval time.Duration, log *zap.Logger) *Sampler {
	return &Sampler{src: src, count: count, interval: interval, log: log}
}

// Sample draws one batch: count readings at the configured cadence. A
// failed individual draw is replaced by the sentinel rather than aborting;
// partial data is preferable to none.
func (s *Sampler) Sample() Batch {
	records := make([]protocol.Record, 0, s.count)
	degraded := false
	for i := 0; i < s.count; i++ {
		if i > 0 {
			time.Sleep(s.interval)
		}
		v, err := s.draw()
		if err != nil {
			s.log.Warn("sample failed, substituting sentinel",
				zap.Int("index", i), zap.Error(err))
			v = Sentinel
			degraded = true
		}
		records = append(records, protocol.Record{Index: int32(i), Metric: v})
	}

	b := Batch{Records: records, Degraded: degraded}
	st := b.Stats()
	s.log.Info("batch sampled",
		zap.Int("count", len(records)),
		zap.Bool("degraded", degraded),
		zap.Float64("mean", st.Mean),
		zap.Float64("stddev", st.StdDev))
	return b
}

func (s *Sampler) draw() (int32, error) {
	if s.src == nil {
		return 0, errSourceUnavailable
	}
	return s.src.Strength()
}
