// Command jellyfish builds a random Jellyfish topology, routes synthetic traffic over it,
// and writes the per-link load distribution of each routing policy to a yaml or json file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/iti/jellyfish"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// cliArgs carries the parsed command line into run
type cliArgs struct {
	configFile string
	outFile    string
	traceFile  string
	seed       int64
	workers    int
}

func main() {
	var args cliArgs
	flag.StringVar(&args.configFile, "config", "", "experiment description (.yaml or .json); the figure 9 parameters when empty")
	flag.StringVar(&args.outFile, "out", "figure9.yaml", "link-load report (.yaml or .json)")
	flag.StringVar(&args.traceFile, "trace", "", "write the builder trace to this file (.yaml or .json)")
	flag.Int64Var(&args.seed, "seed", 0, "random seed; 0 keeps the seed of the description")
	flag.IntVar(&args.workers, "workers", 0, "analysis goroutines; 0 keeps the description's value")
	verbose := flag.Bool("v", false, "development logging at debug level")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, logger, args)
	stop()
	if err != nil {
		logger.Error("jellyfish failed", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run executes one experiment and writes its report and, when asked for, its build trace
func run(ctx context.Context, logger *zap.Logger, args cliArgs) error {
	xd := jellyfish.DefaultExperimentDesc()
	if args.configFile != "" {
		ext := path.Ext(args.configFile)
		useYAML := ext == ".yaml" || ext == ".yml" || ext == ".YAML"
		var err error
		xd, err = jellyfish.ReadExperimentDesc(args.configFile, useYAML, nil)
		if err != nil {
			return fmt.Errorf("reading experiment description %s: %w", args.configFile, err)
		}
	}
	if args.seed != 0 {
		xd.Seed = args.seed
	}
	if args.workers > 0 {
		xd.Workers = args.workers
	}

	reg := prometheus.NewRegistry()
	metrics := jellyfish.NewMetrics(reg)
	trace := jellyfish.CreateBuildTrace(xd.Name, args.traceFile != "")

	report, err := jellyfish.RunExperiment(ctx, xd,
		jellyfish.WithLogger(logger),
		jellyfish.WithMetrics(metrics),
		jellyfish.WithTrace(trace))
	if err != nil {
		return fmt.Errorf("experiment %s: %w", xd.Name, err)
	}

	if err := report.WriteToFile(args.outFile); err != nil {
		return fmt.Errorf("writing report %s: %w", args.outFile, err)
	}
	if err := trace.WriteToFile(args.traceFile); err != nil {
		return fmt.Errorf("writing trace %s: %w", args.traceFile, err)
	}

	logger.Info("report written",
		zap.String("file", args.outFile),
		zap.Int("links", report.Topology.Links),
		zap.Int("diameter", report.Topology.Diameter),
		zap.Float64("meanHops", report.Topology.MeanHops),
		zap.Int("pairsAnalyzed", report.Analyzed))
	return nil
}
