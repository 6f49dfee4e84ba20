package sink

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

func TestFileAppendsOneLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.log")
	s, err := OpenFile(path)
	require.NoError(t, err)
	defer s.Close()

	for _, rec := range []protocol.Record{{Index: 0, Metric: -40}, {Index: 1, Metric: -42}, {Index: 2, Metric: -41}} {
		require.NoError(t, s.Append(rec))
	}

	// Unbuffered writes: the lines are on disk before Close.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0,-40\n1,-42\n2,-41\n", string(data))
}

func TestFileAppendsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.log")

	s, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(protocol.Record{Index: 0, Metric: -40}))
	require.NoError(t, s.Close())

	s, err = OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(protocol.Record{Index: 1, Metric: -42}))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0,-40\n1,-42\n", string(data))
}

func TestOpenFileFailure(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing", "records.log"))
	assert.Error(t, err)
}

type fakeSink struct {
	recs []protocol.Record
	err  error
}

func (s *fakeSink) Append(rec protocol.Record) error {
	if s.err != nil {
		return s.err
	}
	s.recs = append(s.recs, rec)
	return nil
}

func TestMultiAttemptsAllSinks(t *testing.T) {
	bad := &fakeSink{err: errors.New("broken")}
	good := &fakeSink{}
	m := Multi{bad, good}

	err := m.Append(protocol.Record{Index: 0, Metric: -40})
	assert.Error(t, err)
	// The failing sink did not shadow the healthy one.
	assert.Len(t, good.recs, 1)
}
