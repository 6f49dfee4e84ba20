package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, uint8(protocol.DefaultChannel), cfg.Radio.Channel)
	assert.Equal(t, "E7E7E7E7E7", cfg.Radio.Address)
	assert.Equal(t, 10, cfg.Sampling.Count)

	link, err := cfg.Radio.Link()
	require.NoError(t, err)
	assert.Equal(t, protocol.DefaultAddress, link.Address)
	assert.Equal(t, protocol.FrameSize, link.PayloadSize)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	raw := `
logLevel: debug
radio:
  channel: 80
  address: "D7D7D7D7D7"
  paceMs: 25
sampling:
  count: 3
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint8(80), cfg.Radio.Channel)
	assert.Equal(t, 3, cfg.Sampling.Count)
	// Untouched fields keep their defaults.
	assert.Equal(t, 10, cfg.Radio.PollMs)
	assert.Equal(t, "records.log", cfg.Listener.RecordLog)

	link, err := cfg.Radio.Link()
	require.NoError(t, err)
	assert.Equal(t, protocol.Address{0xD7, 0xD7, 0xD7, 0xD7, 0xD7}, link.Address)
}

func TestBadAddress(t *testing.T) {
	for _, addr := range []string{"xyz", "E7E7", "E7E7E7E7E7E7"} {
		rc := Default().Radio
		rc.Address = addr
		_, err := rc.Link()
		assert.Error(t, err, addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
