package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/lebinh/edgeprobe/internal/config"
	"github.com/lebinh/edgeprobe/internal/httpapi"
	"github.com/lebinh/edgeprobe/internal/logging"
	"github.com/lebinh/edgeprobe/internal/modules"
	"github.com/lebinh/edgeprobe/internal/probe"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	table := modules.Default()
	if cfg.ModulesFile != "" {
		table, err = modules.Load(cfg.ModulesFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	prober := probe.NewProber(logger, cfg.ProbeTimeout)
	api := httpapi.NewServer(logger, table, prober, cfg.PopID)

	logger.Info("probe_listen",
		zap.String("addr", cfg.Addr),
		zap.Strings("modules", table.Names()),
	)
	if err := http.ListenAndServe(cfg.Addr, api.Router(cfg.RateRPM, cfg.RateBurst)); err != nil {
		log.Fatal(err)
	}
}
