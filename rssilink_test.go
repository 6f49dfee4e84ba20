package rssilink

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"go.uber.org/zap/zaptest"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/sampling"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/store"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/transport"
)

type memSink struct {
	mu   sync.Mutex
	recs []Record
}

func (s *memSink) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *memSink) records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.recs))
	copy(out, s.recs)
	return out
}

type scriptedSource struct {
	values []int32
	calls  int
}

func (s *scriptedSource) Strength() (int32, error) {
	v := s.values[s.calls%len(s.values)]
	s.calls++
	return v, nil
}

// TestEndToEnd walks the whole pipeline through the loopback: sampler →
// store → transmitter → receiver → sink, and expects identical records in
// identical order on the far side.
func TestEndToEnd(t *testing.T) {
	log := zaptest.NewLogger(t)

	tx, rx, err := Loopback(DefaultRadioConfig())
	require.NoError(t, err)

	smp := sampling.New(&scriptedSource{values: []int32{-40, -42, -41}}, 3, 0, log)
	batch := smp.Sample()
	require.False(t, batch.Degraded)

	st := store.NewFileStore(t.TempDir()+"/batch.txt", log)
	require.NoError(t, st.Save(batch))
	loaded, err := st.Load()
	require.NoError(t, err)
	require.Equal(t, batch.Records, loaded.Records)

	sink := &memSink{}
	rcv := transport.NewReceiver(rx, sink, time.Millisecond, log)
	a := alive.NewAlive()
	a.Add(1)
	go rcv.Run(a)

	sent := transport.NewTransmitter(tx, 0, log).Drain(loaded.Records)
	assert.Equal(t, 3, sent)

	deadline := time.Now().Add(2 * time.Second)
	for len(sink.records()) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	a.Stop()
	a.Wait()

	assert.Equal(t, []Record{
		{Index: 0, Metric: -40},
		{Index: 1, Metric: -42},
		{Index: 2, Metric: -41},
	}, sink.records())
}

func TestLoopbackRejectsBadConfig(t *testing.T) {
	cfg := DefaultRadioConfig()
	cfg.Channel = 126
	_, _, err := Loopback(cfg)
	assert.ErrorIs(t, err, ErrInvalidChannel)
}
