// Package config loads node configuration from a YAML file, with defaults
// matching the link contract both node roles must share.
package config

import (
	"encoding/hex"
	"os"
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/transport"
)

// Config covers both node roles; each cmd reads the sections it needs.
// Intervals are plain milliseconds so the file stays trivially editable.
type Config struct {
	LogLevel string         `yaml:"logLevel"`
	Radio    RadioConfig    `yaml:"radio"`
	WiFi     WiFiConfig     `yaml:"wifi"`
	Sampling SamplingConfig `yaml:"sampling"`
	Button   ButtonConfig   `yaml:"button"`
	Listener ListenerConfig `yaml:"listener"`
}

type RadioConfig struct {
	Channel uint8  `yaml:"channel"`
	Address string `yaml:"address"` // 10 hex digits, 5 bytes
	SPIPort string `yaml:"spiPort"`
	CEPin   string `yaml:"cePin"`
	PaceMs  int    `yaml:"paceMs"` // transmit pacing interval
	PollMs  int    `yaml:"pollMs"` // receive poll interval
}

type WiFiConfig struct {
	Interface string `yaml:"interface"`
	SSID      string `yaml:"ssid"`
	Password  string `yaml:"password"`
	TimeoutMs int    `yaml:"timeoutMs"`
}

type SamplingConfig struct {
	Count      int    `yaml:"count"`
	IntervalMs int    `yaml:"intervalMs"`
	BatchFile  string `yaml:"batchFile"`
}

type ButtonConfig struct {
	Pin        string `yaml:"pin"`
	DebounceMs int    `yaml:"debounceMs"`
}

type ListenerConfig struct {
	RecordLog string     `yaml:"recordLog"`
	MQTT      MQTTConfig `yaml:"mqtt"`
	Archive   string     `yaml:"archive"` // SQLite path, empty disables
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"` // e.g. tcp://host:1883, empty disables
	Topic    string `yaml:"topic"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Default returns the configuration both ends assume when a field is not
// set. Radio values must stay identical across the two nodes.
func Default() Config {
	return Config{
		LogLevel: "info",
		Radio: RadioConfig{
			Channel: protocol.DefaultChannel,
			Address: "E7E7E7E7E7",
			SPIPort: "",
			CEPin:   "GPIO25",
			PaceMs:  50,
			PollMs:  10,
		},
		WiFi: WiFiConfig{
			TimeoutMs: 10000,
		},
		Sampling: SamplingConfig{
			Count:      10,
			IntervalMs: 200,
			BatchFile:  "batch.txt",
		},
		Button: ButtonConfig{
			Pin:        "GPIO17",
			DebounceMs: 50,
		},
		Listener: ListenerConfig{
			RecordLog: "records.log",
			MQTT:      MQTTConfig{Topic: "rssilink/records"},
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Annotate(err, "config: read")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Annotate(err, "config: parse")
	}
	return cfg, nil
}

// Link translates the radio section into the transport contract.
func (rc RadioConfig) Link() (transport.RadioConfig, error) {
	raw, err := hex.DecodeString(rc.Address)
	if err != nil {
		return transport.RadioConfig{}, errors.Annotate(err, "config: radio address")
	}
	if len(raw) != protocol.AddressSize {
		return transport.RadioConfig{}, errors.Errorf(
			"config: radio address must be %d bytes, got %d", protocol.AddressSize, len(raw))
	}
	var addr protocol.Address
	copy(addr[:], raw)
	return transport.RadioConfig{
		Channel:     rc.Channel,
		Address:     addr,
		PayloadSize: protocol.FrameSize,
	}, nil
}

func (rc RadioConfig) Pace() time.Duration { return time.Duration(rc.PaceMs) * time.Millisecond }
func (rc RadioConfig) Poll() time.Duration { return time.Duration(rc.PollMs) * time.Millisecond }

func (wc WiFiConfig) Timeout() time.Duration { return time.Duration(wc.TimeoutMs) * time.Millisecond }

func (sc SamplingConfig) Interval() time.Duration {
	return time.Duration(sc.IntervalMs) * time.Millisecond
}

func (bc ButtonConfig) Debounce() time.Duration {
	return time.Duration(bc.DebounceMs) * time.Millisecond
}
