package weave

// Config holds the resolved configuration for a Runtime: which
// ExplorationStrategy to drive iterations with, how many iterations to
// run, and the knobs that bound a single iteration or change how a bug is
// reported. Built via New with zero or more Option values, mirroring the
// functional-options pattern this package's teacher uses for its own
// construction-time configuration.
type Config struct {
	strategy              ExplorationStrategy
	iterations            int
	maxStepsPerIteration  int
	fairRandomStreakBound int
	randomSeed            uint64
	stopOnFirstBug        bool
	replayTrace           string
	logger                Logger
	hooks                 *Hooks
}

// resolveConfig applies opts over the package defaults: a RandomStrategy
// seeded from randomSeed (0 unless WithRandomSeed is given), a single
// iteration, an unbounded per-iteration step budget, a fair-random streak
// bound of 100, stopOnFirstBug true, and a no-op Logger.
func resolveConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		iterations:            1,
		maxStepsPerIteration:  0,
		fairRandomStreakBound: 100,
		stopOnFirstBug:        true,
		logger:                NewNoOpLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.replayTrace != "" {
		trace, err := LoadScheduleTrace(cfg.replayTrace)
		if err != nil {
			return nil, err
		}
		cfg.strategy = NewReplayStrategy(trace)
		cfg.iterations = 1
	}
	if cfg.strategy == nil {
		cfg.strategy = NewRandomStrategy(cfg.randomSeed)
	}
	if cfg.hooks == nil {
		cfg.hooks = NewLoggingHooks(cfg.logger)
	}
	return cfg, nil
}
