// Package main - simulate
// Headless scenario runner: boots the default mission, lets the economy run
// for a fixed duration, then verifies the core invariants and prints a
// summary. Exits nonzero if any check fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/astrocrew/starship-sim/internal/engine"
	"github.com/astrocrew/starship-sim/internal/events"
	"github.com/astrocrew/starship-sim/internal/platform/config"
	"github.com/astrocrew/starship-sim/internal/platform/logger"
)

// countingSink tallies drained events per status code.
type countingSink struct {
	empty        int64
	insufficient int64
	capacity     int64
}

func (s *countingSink) HandleEvent(event events.Event) {
	switch event.Status {
	case events.StatusEmpty:
		atomic.AddInt64(&s.empty, 1)
	case events.StatusInsufficient:
		atomic.AddInt64(&s.insufficient, 1)
	case events.StatusCapacity:
		atomic.AddInt64(&s.capacity, 1)
	}
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "how long to run the simulation")
	stress := flag.Bool("stress", false, "use stress-test tuning")
	flag.Parse()

	fmt.Println("STARSHIP SIMULATION - HEADLESS RUN")
	fmt.Println("==================================")
	fmt.Printf("Duration: %v\n", *duration)

	appLogger := logger.NewLogger()
	cfg := config.DefaultConfig()
	if *stress {
		cfg = config.StressConfig()
	}

	queue := events.NewQueue()
	eng := engine.NewEngine(queue, appLogger, cfg)
	engine.LoadDefaultScenario(eng)

	counts := &countingSink{}
	eng.AddSink(counts)

	ctx, cancel := context.WithCancel(context.Background())
	eng.Start(ctx)

	time.Sleep(*duration)
	eng.Stop()
	cancel()
	queue.Clean()

	fmt.Println("\nFinal resource levels:")
	failed := 0
	for _, snap := range eng.ResourceSnapshots() {
		ok := snap.Amount >= 0 && snap.Amount <= snap.MaxCapacity
		mark := "PASS"
		if !ok {
			mark = "FAIL"
			failed++
		}
		fmt.Printf("  [%s] %-10s %5d / %d\n", mark, snap.Name, snap.Amount, snap.MaxCapacity)
	}

	fmt.Println("\nFailure reports drained:")
	fmt.Printf("  EMPTY:        %d\n", atomic.LoadInt64(&counts.empty))
	fmt.Printf("  INSUFFICIENT: %d\n", atomic.LoadInt64(&counts.insufficient))
	fmt.Printf("  CAPACITY:     %d\n", atomic.LoadInt64(&counts.capacity))

	if failed > 0 {
		fmt.Printf("\n%d resource(s) violated the capacity invariant\n", failed)
		os.Exit(1)
	}
	fmt.Println("\nAll invariants held.")
}
