// Command sensor runs the sampling node: on every button press it draws a
// batch of WiFi RSSI readings, persists it, and drains it over the radio.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/temoto/alive/v2"
	"go.uber.org/zap"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/button"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/config"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/driver/nrf24"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/sampling"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/store"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/transport"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/wifi"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	if _, err := host.Init(); err != nil {
		log.Fatal("periph host init", zap.Error(err))
	}

	// The metric collaborator is optional: without it the node still runs
	// and produces degraded (all-sentinel) batches.
	var src sampling.SignalSource
	wc, err := wifi.Dial(cfg.WiFi.Interface)
	if err != nil {
		log.Warn("wifi unavailable, batches will be degraded", zap.Error(err))
	} else {
		defer wc.Close()
		if cfg.WiFi.SSID != "" {
			connected, err := wc.Connect(cfg.WiFi.SSID, cfg.WiFi.Password, cfg.WiFi.Timeout())
			switch {
			case err != nil:
				log.Warn("wifi connect failed", zap.String("ssid", cfg.WiFi.SSID), zap.Error(err))
			case !connected:
				log.Warn("wifi association timed out", zap.String("ssid", cfg.WiFi.SSID))
			default:
				log.Info("wifi associated", zap.String("ssid", cfg.WiFi.SSID))
			}
		}
		src = wc
	}

	// Radio setup is fatal on any fault: the node cannot operate without a
	// correctly configured transceiver.
	link, err := cfg.Radio.Link()
	if err != nil {
		log.Fatal("radio config", zap.Error(err))
	}
	port, err := spireg.Open(cfg.Radio.SPIPort)
	if err != nil {
		log.Fatal("open spi port", zap.String("port", cfg.Radio.SPIPort), zap.Error(err))
	}
	defer port.Close()
	ce := gpioreg.ByName(cfg.Radio.CEPin)
	if ce == nil {
		log.Fatal("ce pin not found", zap.String("pin", cfg.Radio.CEPin))
	}
	drv, err := nrf24.New(port, ce, log)
	if err != nil {
		log.Fatal("open radio", zap.Error(err))
	}
	ep, err := transport.Open(drv, link, transport.Sending)
	if err != nil {
		log.Fatal("configure radio", zap.Error(err))
	}
	defer ep.Close()

	btn, err := button.Open(cfg.Button.Pin, cfg.Button.Debounce())
	if err != nil {
		log.Fatal("open button", zap.Error(err))
	}

	smp := sampling.New(src, cfg.Sampling.Count, cfg.Sampling.Interval(), log)
	st := store.NewFileStore(cfg.Sampling.BatchFile, log)
	tx := transport.NewTransmitter(ep, cfg.Radio.Pace(), log)

	a := alive.NewAlive()
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc
		log.Info("shutting down")
		a.Stop()
	}()

	log.Info("sensor node ready", zap.String("button", cfg.Button.Pin))
	for a.IsRunning() {
		if !btn.Wait(a.StopChan()) {
			break
		}
		batch := smp.Sample()
		if err := st.Save(batch); err != nil {
			// Never transmit state that was not persisted first.
			log.Error("persist failed, batch discarded", zap.Error(err))
			continue
		}
		tx.Drain(batch.Records)
	}
	a.Wait()
}

func newLogger(level string) *zap.Logger {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
