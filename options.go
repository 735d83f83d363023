package jellyfish

// options.go gathers the knobs shared by Build, AnalyzeTraffic and RunExperiment.
// Every entry point takes a list of Option values and resolves them into a runConfig.

import (
	"fmt"
	"go.uber.org/zap"
	"runtime"
)

// default bounds, overridable through the options below
const (
	DefaultMaxBuildAttempts = 10
	DefaultStepBudget       = 1 << 22
	minRewireBound          = 100
)

// Option customizes one call of Build, AnalyzeTraffic or RunExperiment
type Option func(*runConfig)

type runConfig struct {
	rng         RandSource  // explicit stream, wins over seed
	seed        int64       // used when seeded is true
	seeded      bool
	maxAttempts int         // whole-build retries on stall
	maxRewires  int         // rewires per attempt, 0 means derive from the topology size
	stepBudget  int         // partial paths dequeued per enumeration
	workers     int         // analysis goroutines
	logger      *zap.Logger
	metrics     *Metrics
	trace       *BuildTrace
}

func resolveOptions(opts []Option) *runConfig {
	cfg := &runConfig{
		maxAttempts: DefaultMaxBuildAttempts,
		stepBudget:  DefaultStepBudget,
		workers:     runtime.GOMAXPROCS(0),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// randFor returns the stream a component should draw from. Distinct stream
// numbers keep the builder and the placement code independent of each other.
func (cfg *runConfig) randFor(name string, stream uint64) RandSource {
	if cfg.rng != nil {
		return cfg.rng
	}
	if cfg.seeded {
		return SeededSource(cfg.seed, stream)
	}
	return NewStream(name)
}

// rewireBound gives the number of rewires one build attempt may use
func (cfg *runConfig) rewireBound(numSwitches, ports int) int {
	if cfg.maxRewires > 0 {
		return cfg.maxRewires
	}
	return max(minRewireBound, 2*numSwitches*ports)
}

// WithSeed makes every random choice reproducible from seed
func WithSeed(seed int64) Option {
	return func(cfg *runConfig) {
		cfg.seed = seed
		cfg.seeded = true
	}
}

// WithRand supplies an explicit random stream. Panics on nil.
func WithRand(rng RandSource) Option {
	if rng == nil {
		panic("jellyfish: WithRand(nil)")
	}
	return func(cfg *runConfig) {
		cfg.rng = rng
	}
}

// WithMaxBuildAttempts bounds how many times Build restarts after a stall
func WithMaxBuildAttempts(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("jellyfish: WithMaxBuildAttempts(%d)", n))
	}
	return func(cfg *runConfig) {
		cfg.maxAttempts = n
	}
}

// WithMaxRewires bounds the rewires a single build attempt may perform
// before it is declared stalled
func WithMaxRewires(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("jellyfish: WithMaxRewires(%d)", n))
	}
	return func(cfg *runConfig) {
		cfg.maxRewires = n
	}
}

// WithStepBudget bounds the partial paths each enumeration may expand
func WithStepBudget(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("jellyfish: WithStepBudget(%d)", n))
	}
	return func(cfg *runConfig) {
		cfg.stepBudget = n
	}
}

// WithWorkers sets the number of analysis goroutines
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("jellyfish: WithWorkers(%d)", n))
	}
	return func(cfg *runConfig) {
		cfg.workers = n
	}
}

// WithLogger routes diagnostics to logger
func WithLogger(logger *zap.Logger) Option {
	if logger == nil {
		panic("jellyfish: WithLogger(nil)")
	}
	return func(cfg *runConfig) {
		cfg.logger = logger
	}
}

// WithMetrics counts builds and analysis work on m
func WithMetrics(m *Metrics) Option {
	return func(cfg *runConfig) {
		cfg.metrics = m
	}
}

// WithTrace records every builder mutation on bt
func WithTrace(bt *BuildTrace) Option {
	return func(cfg *runConfig) {
		cfg.trace = bt
	}
}
