// Package nrf24 drives a Nordic nRF24L01+ transceiver connected to an SPI
// bus, with the CE (chip enable) line on a GPIO pin.
//
// The driver covers exactly what the telemetry link needs: a static
// channel/address/payload-width configuration programmed once at startup,
// a blocking single-payload transmit with the chip's own auto-ack, and a
// non-blocking receive poll against the RX FIFO. It does not expose
// multiple pipes, dynamic payloads, or runtime reconfiguration.
//
// The methods are not concurrency safe above the register level; the
// transport layer owns the radio exclusively per process, so this never
// comes up in practice. Register access itself is serialized so that a
// diagnostics read cannot tear a transaction.
package nrf24

import (
	"fmt"
	"sync"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/transport"
)

// The chip needs 1.5ms from power down to standby and 130us from standby
// to active RX/TX.
const (
	powerUpDelay = 5 * time.Millisecond
	settleDelay  = 130 * time.Microsecond
	sendTimeout  = 100 * time.Millisecond
)

var ErrNoAck = errors.New("nrf24: transmit not acknowledged")

type Radio struct {
	mu      sync.Mutex
	conn    spi.Conn
	ce      gpio.PinIO
	payload int
	mode    transport.Mode
	log     *zap.Logger
}

// New opens the transceiver on the given SPI port with ce as the chip
// enable line. The SPI bus is run at 8MHz, mode 0, per the chip's limits.
// The radio is left powered down until Configure.
func New(port spi.Port, ce gpio.PinIO, log *zap.Logger) (*Radio, error) {
	conn, err := port.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, errors.Annotate(err, "nrf24: connect spi")
	}
	if err := ce.Out(gpio.Low); err != nil {
		return nil, errors.Annotate(err, "nrf24: init CE pin")
	}
	r := &Radio{conn: conn, ce: ce, log: log}

	// Sanity-check the bus: SETUP_AW must read back one of its three legal
	// values on a live chip, anything else means wiring or bus trouble.
	aw, err := r.readReg(regSetupAW)
	if err != nil {
		return nil, errors.Annotate(err, "nrf24: probe")
	}
	if aw == 0x00 || aw > 0x03 {
		return nil, errors.Errorf("nrf24: chip not responding (SETUP_AW=%#02x)", aw)
	}
	return r, nil
}

// Configure programs channel, address, payload width and role. This is
// physical transceiver state until the next Configure or power cycle.
func (r *Radio) Configure(cfg transport.RadioConfig, mode transport.Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ce.Out(gpio.Low); err != nil {
		return errors.Annotate(err, "nrf24: CE low")
	}

	config := byte(cfgEnCRC | cfgCRCO | cfgPwrUp)
	if mode == transport.Listening {
		config |= cfgPrimRX
	}

	steps := []struct {
		reg  byte
		data []byte
	}{
		{regConfig, []byte{config}},
		{regEnAA, []byte{0x01}},     // auto-ack on pipe 0
		{regEnRxAddr, []byte{0x01}}, // pipe 0 only
		{regSetupAW, []byte{setupAW5}},
		{regSetupRetr, []byte{setupRetrDefault}},
		{regRFChannel, []byte{cfg.Channel}},
		{regRFSetup, []byte{rfSetup1Mbps0dBm}},
		{regRxAddrP0, cfg.Address[:]},
		{regTxAddr, cfg.Address[:]},
		{regRxPwP0, []byte{byte(cfg.PayloadSize)}},
	}
	for _, s := range steps {
		if err := r.writeReg(s.reg, s.data...); err != nil {
			return errors.Annotatef(err, "nrf24: write reg %#02x", s.reg)
		}
	}
	if err := r.command(cmdFlushTx); err != nil {
		return errors.Annotate(err, "nrf24: flush tx")
	}
	if err := r.command(cmdFlushRx); err != nil {
		return errors.Annotate(err, "nrf24: flush rx")
	}
	// Clear any stale interrupt flags.
	if err := r.writeReg(regStatus, statusRxDR|statusTxDS|statusMaxRT); err != nil {
		return errors.Annotate(err, "nrf24: clear status")
	}

	time.Sleep(powerUpDelay)
	if mode == transport.Listening {
		if err := r.ce.Out(gpio.High); err != nil {
			return errors.Annotate(err, "nrf24: CE high")
		}
		time.Sleep(settleDelay)
	}

	r.payload = cfg.PayloadSize
	r.mode = mode
	r.log.Info("nrf24 configured",
		zap.Uint8("channel", cfg.Channel),
		zap.String("address", fmt.Sprintf("%X", cfg.Address[:])),
		zap.Int("payload", cfg.PayloadSize),
		zap.Stringer("mode", mode))
	return nil
}

// Tx writes one payload into the TX FIFO, pulses CE, and waits for the
// chip to report data-sent or retransmit-exhaustion.
func (r *Radio) Tx(frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(frame) != r.payload {
		return errors.Errorf("nrf24: payload length %d, radio programmed for %d", len(frame), r.payload)
	}

	w := make([]byte, 1+len(frame))
	rx := make([]byte, 1+len(frame))
	w[0] = cmdWriteTxPl
	copy(w[1:], frame)
	if err := r.conn.Tx(w, rx); err != nil {
		return errors.Annotate(err, "nrf24: load tx fifo")
	}

	// CE pulse of >=10us starts the transmission.
	if err := r.ce.Out(gpio.High); err != nil {
		return errors.Annotate(err, "nrf24: CE pulse")
	}
	time.Sleep(15 * time.Microsecond)
	if err := r.ce.Out(gpio.Low); err != nil {
		return errors.Annotate(err, "nrf24: CE pulse end")
	}

	deadline := time.Now().Add(sendTimeout)
	for {
		status, err := r.readReg(regStatus)
		if err != nil {
			return errors.Annotate(err, "nrf24: read status")
		}
		switch {
		case status&statusTxDS != 0:
			return r.writeReg(regStatus, statusTxDS)
		case status&statusMaxRT != 0:
			// Drop the unacknowledged payload or it blocks the FIFO.
			if err := r.command(cmdFlushTx); err != nil {
				return errors.Annotate(err, "nrf24: flush tx")
			}
			if err := r.writeReg(regStatus, statusMaxRT); err != nil {
				return errors.Annotate(err, "nrf24: clear max_rt")
			}
			return ErrNoAck
		}
		if time.Now().After(deadline) {
			return errors.New("nrf24: transmit timed out")
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// Available reports whether the RX FIFO holds at least one payload.
func (r *Radio) Available() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	fifo, err := r.readReg(regFIFOStatus)
	if err != nil {
		r.log.Warn("nrf24: read fifo status", zap.Error(err))
		return false
	}
	return fifo&fifoRxEmpty == 0
}

// Rx pulls exactly one payload out of the RX FIFO.
func (r *Radio) Rx() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := make([]byte, 1+r.payload)
	rx := make([]byte, 1+r.payload)
	w[0] = cmdReadRxPl
	for i := 1; i < len(w); i++ {
		w[i] = cmdNop
	}
	if err := r.conn.Tx(w, rx); err != nil {
		return nil, errors.Annotate(err, "nrf24: read rx fifo")
	}
	if err := r.writeReg(regStatus, statusRxDR); err != nil {
		return nil, errors.Annotate(err, "nrf24: clear rx_dr")
	}
	return rx[1:], nil
}

// Close powers the transceiver down. The SPI port itself is owned and
// closed by the caller.
func (r *Radio) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ce.Out(gpio.Low); err != nil {
		return errors.Annotate(err, "nrf24: CE low")
	}
	return r.writeReg(regConfig, cfgEnCRC|cfgCRCO) // PWR_UP cleared
}

func (r *Radio) writeReg(reg byte, data ...byte) error {
	w := make([]byte, 1+len(data))
	rx := make([]byte, 1+len(data))
	w[0] = cmdWriteReg | reg
	copy(w[1:], data)
	return r.conn.Tx(w, rx)
}

func (r *Radio) readReg(reg byte) (byte, error) {
	var buf [2]byte
	if err := r.conn.Tx([]byte{cmdReadReg | reg, cmdNop}, buf[:]); err != nil {
		return 0, err
	}
	return buf[1], nil
}

func (r *Radio) command(cmd byte) error {
	var buf [1]byte
	return r.conn.Tx([]byte{cmd}, buf[:])
}
