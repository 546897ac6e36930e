package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	Md "github.com/maroda/battito/display"
	Mb "github.com/maroda/battito/engine"
	Mo "github.com/maroda/battito/obvy"
)

func loadConfig() *Mb.Config {
	path := Mb.FillEnvVar("BATTITO_CONFIG")
	if path == "ENOENT" {
		path = "battito.json"
	}

	cfg, err := Mb.LoadConfigFileName(path)
	if err != nil {
		slog.Info("No usable config file, running on defaults",
			slog.String("path", path))
		return Mb.DefaultConfig()
	}
	return cfg
}

func main() {
	User := Mb.FillEnvVar("USER")
	fmt.Printf("Battito initializing for ... %s\n", User)

	cfg := loadConfig()

	// Tracing is opt-in via the usual OTel env vars,
	// BATTITO_OTEL=grafana selects the Grafana wiring over Honeycomb
	if Mb.FillEnvVar("OTEL_EXPORTER_OTLP_ENDPOINT") != "ENOENT" {
		if Mb.FillEnvVar("BATTITO_OTEL") == "grafana" {
			tp, err := Mo.InitOTelGRF()
			if err != nil {
				slog.Error("Could not configure OpenTelemetry", slog.Any("Error", err))
			} else {
				defer func() {
					if err := tp.Shutdown(context.Background()); err != nil {
						slog.Error("OTel shutdown failed", slog.Any("Error", err))
					}
				}()
			}
		} else {
			shutdown, err := Mo.InitOTelHNY()
			if err != nil {
				slog.Error("Could not configure OpenTelemetry", slog.Any("Error", err))
			} else {
				defer shutdown()
			}
		}
	}

	var err error
	if Mb.FillEnvVar("BATTITO_NOTUI") != "ENOENT" {
		err = Md.StartWebNoTUI(cfg)
	} else {
		err = Md.StartPulseViewWithConfig(cfg)
	}
	if err != nil {
		slog.Error("Problem starting PulseView", slog.Any("Error", err))
		os.Exit(1)
	}
}
