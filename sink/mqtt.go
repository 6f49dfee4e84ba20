package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

const mqttTimeout = 10 * time.Second

// MQTT publishes every received record northbound as a small JSON
// document, so the listener can double as a gateway. The connection is
// persistent and re-establishes itself after a disconnect.
type MQTT struct {
	conn  mqtt.Client
	topic string
}

// DialMQTT connects to the broker. user and password may be empty.
func DialMQTT(broker, topic, user, password string) (*MQTT, error) {
	hostname, _ := os.Hostname()
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("rssilink-" + hostname).
		SetUsername(user).
		SetPassword(password).
		SetAutoReconnect(true)

	conn := mqtt.NewClient(opts)
	token := conn.Connect()
	if !token.WaitTimeout(mqttTimeout) {
		return nil, errors.Errorf("sink: mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, errors.Annotate(err, "sink: mqtt connect")
	}
	return &MQTT{conn: conn, topic: topic}, nil
}

type mqttRecord struct {
	Index  int32  `json:"index"`
	Metric int32  `json:"metric"`
	At     string `json:"at"`
}

func (s *MQTT) Append(rec protocol.Record) error {
	payload, err := json.Marshal(mqttRecord{
		Index:  rec.Index,
		Metric: rec.Metric,
		At:     time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return errors.Annotate(err, "sink: mqtt marshal")
	}
	token := s.conn.Publish(s.topic, 0, false, payload)
	if !token.WaitTimeout(mqttTimeout) {
		return fmt.Errorf("sink: mqtt publish timed out")
	}
	return errors.Annotate(token.Error(), "sink: mqtt publish")
}

func (s *MQTT) Close() error {
	s.conn.Disconnect(250)
	return nil
}
