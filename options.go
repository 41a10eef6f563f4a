package weave

// Option configures a Config instance, following the same
// interface-wrapping-a-closure pattern as the teacher's own LoopOption.
type Option interface {
	apply(*Config) error
}

type optionFunc struct {
	fn func(*Config) error
}

func (o *optionFunc) apply(cfg *Config) error {
	return o.fn(cfg)
}

// WithStrategy selects the ExplorationStrategy an iteration loop is
// driven by. Overridden by WithReplayTrace, which always wins (a replay
// run must use ReplayStrategy).
func WithStrategy(strategy ExplorationStrategy) Option {
	return &optionFunc{func(cfg *Config) error {
		cfg.strategy = strategy
		return nil
	}}
}

// WithIterations sets how many iterations Runtime.Run executes before
// reporting AllIterationsClean, unless a bug is found first and
// stopOnFirstBug is set (the default).
func WithIterations(n int) Option {
	return &optionFunc{func(cfg *Config) error {
		if n < 1 {
			n = 1
		}
		cfg.iterations = n
		return nil
	}}
}

// WithMaxStepsPerIteration bounds how many scheduling points a single
// iteration may take before it is reported as a KindStrategyError (a
// guard against a program that never reaches quiescence). n <= 0 means
// unbounded.
func WithMaxStepsPerIteration(n int) Option {
	return &optionFunc{func(cfg *Config) error {
		cfg.maxStepsPerIteration = n
		return nil
	}}
}

// WithFairRandomStreakBound sets the maximum number of consecutive
// identical FairRandom results before the oracle forces a flip.
func WithFairRandomStreakBound(n int) Option {
	return &optionFunc{func(cfg *Config) error {
		if n < 1 {
			n = 1
		}
		cfg.fairRandomStreakBound = n
		return nil
	}}
}

// WithRandomSeed sets the seed a default (no WithStrategy) RandomStrategy
// is built from.
func WithRandomSeed(seed uint64) Option {
	return &optionFunc{func(cfg *Config) error {
		cfg.randomSeed = seed
		return nil
	}}
}

// WithStopOnFirstBug controls whether Runtime.Run halts at the first
// iteration that reports a bug (the default, true) or continues running
// every configured iteration regardless, collecting every bug found.
func WithStopOnFirstBug(stop bool) Option {
	return &optionFunc{func(cfg *Config) error {
		cfg.stopOnFirstBug = stop
		return nil
	}}
}

// WithReplayTrace loads a ScheduleTrace from path and forces the run to a
// single iteration driven by ReplayStrategy over it, overriding any
// WithStrategy/WithIterations the caller also supplied.
func WithReplayTrace(path string) Option {
	return &optionFunc{func(cfg *Config) error {
		cfg.replayTrace = path
		return nil
	}}
}

// WithLogger installs the structured Logger the default hook set
// (NewLoggingHooks) reports through. Ignored if WithHooks is also given.
func WithLogger(logger Logger) Option {
	return &optionFunc{func(cfg *Config) error {
		cfg.logger = logger
		return nil
	}}
}

// WithHooks installs a caller-built Hooks value wholesale, overriding the
// WithLogger-derived default. Use this to observe specific events without
// the overhead of logging every one of them.
func WithHooks(hooks *Hooks) Option {
	return &optionFunc{func(cfg *Config) error {
		cfg.hooks = hooks
		return nil
	}}
}
