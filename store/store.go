// Package store persists measurement batches between sampling and
// transmission. The on-disk form is the operator-inspectable text format,
// one "index,metric" line per record, overwritten whole per batch.
package store

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/sampling"
)

// BatchStore holds at most one batch at a time.
type BatchStore interface {
	Save(b sampling.Batch) error
	Load() (sampling.Batch, error)
}

// FileStore keeps the current batch in a single text file. Save writes to
// a temporary file and renames it into place, so a failed write never
// corrupts the previous batch.
type FileStore struct {
	path string
	log  *zap.Logger
}

func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Save overwrites the stored batch. On any failure the caller must treat
// the batch as discarded and skip transmission.
func (s *FileStore) Save(b sampling.Batch) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Annotate(err, "store: create batch file")
	}

	w := bufio.NewWriter(f)
	for _, rec := range b.Records {
		if _, err := fmt.Fprintf(w, "%d,%d\n", rec.Index, rec.Metric); err != nil {
			f.Close()
			os.Remove(tmp)
			return errors.Annotate(err, "store: write record")
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Annotate(err, "store: flush")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Annotate(err, "store: close")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.Annotate(err, "store: replace batch file")
	}
	s.log.Info("batch persisted", zap.String("path", s.path), zap.Int("records", len(b.Records)))
	return nil
}

// Load reads the stored batch back. Malformed lines are logged and
// skipped; the rest of the batch still loads. The textual form does not
// carry the degraded flag, so a loaded batch reports Degraded false.
func (s *FileStore) Load() (sampling.Batch, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return sampling.Batch{}, errors.Annotate(err, "store: open batch file")
	}
	defer f.Close()

	var b sampling.Batch
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		rec, err := parseLine(scanner.Text())
		if err != nil {
			s.log.Warn("malformed batch line, skipping",
				zap.Int("line", lineNo), zap.String("text", scanner.Text()), zap.Error(err))
			continue
		}
		b.Records = append(b.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return sampling.Batch{}, errors.Annotate(err, "store: read batch file")
	}
	return b, nil
}

func parseLine(line string) (protocol.Record, error) {
	idxStr, metStr, ok := strings.Cut(strings.TrimSpace(line), ",")
	if !ok {
		return protocol.Record{}, errors.New("missing comma")
	}
	idx, err := strconv.ParseInt(idxStr, 10, 32)
	if err != nil {
		return protocol.Record{}, errors.Annotate(err, "index")
	}
	met, err := strconv.ParseInt(metStr, 10, 32)
	if err != nil {
		return protocol.Record{}, errors.Annotate(err, "metric")
	}
	return protocol.Record{Index: int32(idx), Metric: int32(met)}, nil
}
