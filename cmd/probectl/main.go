package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/lebinh/edgeprobe/internal/config"
	"github.com/lebinh/edgeprobe/internal/metrics"
	"github.com/lebinh/edgeprobe/internal/modules"
	"github.com/lebinh/edgeprobe/internal/probe"
)

// probectl runs a single probe from the command line and prints the same
// metrics text the /probe endpoint would return.
func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: probectl <module> <target>")
		os.Exit(2)
	}
	module, target := os.Args[1], os.Args[2]

	cfg := config.FromEnv()
	table := modules.Default()
	if cfg.ModulesFile != "" {
		var err error
		table, err = modules.Load(cfg.ModulesFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	}

	mcfg, err := table.Resolve(module)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	prober := probe.NewProber(zap.NewNop(), cfg.ProbeTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ProbeTimeout+time.Second)
	defer cancel()

	out, err := prober.Probe(ctx, mcfg, target)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	labels := map[string]string{}
	if cfg.PopID != "" {
		labels["pop"] = cfg.PopID
	}
	fmt.Print(metrics.Render(out, labels))
	if !out.Success {
		os.Exit(1)
	}
}
