package sink

import (
	"fmt"
	"os"

	"github.com/juju/errors"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

// File is the append-only record log, one "index,metric" line per record.
// Writes go straight to the file descriptor so each line is flushed as it
// is appended; a crash loses at most the in-flight record.
type File struct {
	f *os.File
}

// OpenFile opens (or creates) the log for appending. Failure here is fatal
// to the listener's startup: the loop must not run without its sink.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Annotate(err, "sink: open record log")
	}
	return &File{f: f}, nil
}

func (s *File) Append(rec protocol.Record) error {
	if _, err := fmt.Fprintf(s.f, "%d,%d\n", rec.Index, rec.Metric); err != nil {
		return errors.Annotate(err, "sink: append record")
	}
	return nil
}

func (s *File) Close() error {
	return s.f.Close()
}
