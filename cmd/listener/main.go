// Command listener runs the receiving node: it opens the radio in
// listening mode and appends every record it hears to its sinks (console
// log, append-only text log, and optionally MQTT and a SQLite archive).
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

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/config"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/driver/nrf24"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/sink"
	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/transport"
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
	ep, err := transport.Open(drv, link, transport.Listening)
	if err != nil {
		log.Fatal("configure radio", zap.Error(err))
	}
	defer ep.Close()

	// Sink open failures are fatal: the loop must not start without its
	// outputs.
	fileSink, err := sink.OpenFile(cfg.Listener.RecordLog)
	if err != nil {
		log.Fatal("open record log", zap.Error(err))
	}
	defer fileSink.Close()
	sinks := sink.Multi{fileSink}

	if cfg.Listener.MQTT.Broker != "" {
		mq, err := sink.DialMQTT(
			cfg.Listener.MQTT.Broker, cfg.Listener.MQTT.Topic,
			cfg.Listener.MQTT.User, cfg.Listener.MQTT.Password)
		if err != nil {
			log.Fatal("mqtt connect", zap.Error(err))
		}
		defer mq.Close()
		sinks = append(sinks, mq)
		log.Info("forwarding to mqtt",
			zap.String("broker", cfg.Listener.MQTT.Broker),
			zap.String("topic", cfg.Listener.MQTT.Topic))
	}
	if cfg.Listener.Archive != "" {
		db, err := sink.OpenSQLite(cfg.Listener.Archive)
		if err != nil {
			log.Fatal("open archive", zap.Error(err))
		}
		defer db.Close()
		sinks = append(sinks, db)
		log.Info("archiving records", zap.String("path", cfg.Listener.Archive))
	}

	rcv := transport.NewReceiver(ep, sinks, cfg.Radio.Poll(), log)

	a := alive.NewAlive()
	a.Add(1)
	go rcv.Run(a)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Info("shutting down")
	a.Stop()
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
