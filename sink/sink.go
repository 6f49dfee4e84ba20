// Package sink implements the listener's record consumers: the
// append-only text log, plus optional MQTT forwarding and a SQLite
// archive for the gateway role.
package sink

import (
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/transport"
)

// Multi fans one record out to every sink. All sinks are attempted even
// when an earlier one fails; the first error is returned for the receive
// loop to log.
type Multi []transport.Sink

func (m Multi) Append(rec protocol.Record) error {
	var first error
	for _, s := range m {
		if err := s.Append(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
