package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bir-navigation/bir_nav"
)

func main() {
	var configPath string
	var driver string
	var liveAddr string
	var outputAddr string
	var serialPort string
	var recordPath string
	var initialState string
	flag.StringVar(&configPath, "config", "", "Path to JSON config. Defaults are used when empty.")
	flag.StringVar(&driver, "driver", "", "Override robot driver (udp or serial).")
	flag.StringVar(&liveAddr, "live-addr", "", "Override telemetry UDP listen addr (host:port).")
	flag.StringVar(&outputAddr, "output-addr", "", "Override command UDP addr (host:port).")
	flag.StringVar(&serialPort, "serial-port", "", "Override serial port path.")
	flag.StringVar(&recordPath, "record", "", "Record cycles to this sqlite file.")
	flag.StringVar(&initialState, "initial-state", "", "Force initial steering state (e.g., LEFT).")
	flag.Parse()

	cfg := bir_nav.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = bir_nav.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("load config %q: %v", configPath, err)
		}
	}

	if driver != "" {
		cfg.Driver = driver
	}
	if liveAddr != "" {
		cfg.Live.UDPAddr = liveAddr
	}
	if outputAddr != "" {
		cfg.Output.UDPAddr = outputAddr
	}
	if serialPort != "" {
		cfg.Serial.Port = serialPort
	}
	if recordPath != "" {
		cfg.Recorder.Path = recordPath
	}
	if initialState != "" {
		state, err := bir_nav.ParseState(initialState)
		if err != nil {
			log.Fatalf("invalid initial state %q: %v", initialState, err)
		}
		cfg.Controller.Steering.InitialState = state
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := bir_nav.RunLive(ctx, cfg); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
