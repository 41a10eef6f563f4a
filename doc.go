// Copyright 2026 The weave authors.
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this
// copyright notice appears in all copies.

// Package weave is a deterministic concurrency-testing runtime for
// message-passing state machines.
//
// A program under test is expressed as a set of cooperating Actors —
// long-lived entities with private state and a FIFO inbox — plus Monitors,
// global liveness/safety observers. Runtime drives the program: it
// deterministically explores interleavings of concurrent actor steps and
// nondeterministic choices, detects assertion failures, deadlocks and
// liveness violations, and on discovery of a bug can replay the exact same
// execution from a recorded ScheduleTrace.
//
// This package covers the deterministic scheduler and actor-execution
// core: the per-actor EventQueue, the hierarchical state-machine dispatch
// model, the OperationScheduler that serializes concurrent actor steps into
// a single chosen interleaving, the NondeterministicOracle, and the
// pluggable ExplorationStrategy implementations that pick the next
// runnable operation. The human-facing test driver, wall-clock timer
// wiring, and a structured log/XML emitter are external collaborators;
// this package only specifies the hook surface they consume (see Hooks).
package weave
