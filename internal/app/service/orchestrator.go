package service

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
)

// ProviderRunner executes every request of one provider for a single address.
type ProviderRunner interface {
	Name() string
	Execute(ctx context.Context, address string) error
}

// Orchestrator runs all providers concurrently over the same address list.
type Orchestrator struct {
	aggregator *Aggregator
	logger     port.Logger
	clock      clock.Clock
}

// NewOrchestrator creates an Orchestrator writing into aggregator.
func NewOrchestrator(aggregator *Aggregator, logger port.Logger, c clock.Clock) *Orchestrator {
	if c == nil {
		c = clock.New()
	}
	return &Orchestrator{aggregator: aggregator, logger: logger, clock: c}
}

// Run registers every runner, then walks the addresses with one goroutine per provider.
// A provider stops at its first propagated error; the others keep going.
func (o *Orchestrator) Run(ctx context.Context, runners []ProviderRunner, addresses []string) entity.Report {
	report := entity.Report{
		RunID:     uuid.NewString(),
		StartedAt: o.clock.Now(),
		Addresses: len(addresses),
	}
	for _, r := range runners {
		o.aggregator.RegisterProvider(r.Name())
	}

	o.logger.Info("Starting benchmark run",
		"run_id", report.RunID, "providers", len(runners), "addresses", len(addresses))

	var (
		mu       sync.Mutex
		failures = make(map[string]string)
		g        errgroup.Group
	)
	for _, runner := range runners {
		g.Go(func() error {
			if err := o.runProvider(ctx, runner, addresses); err != nil {
				o.logger.Error("Provider aborted", "run_id", report.RunID, "provider", runner.Name(), "error", err)
				mu.Lock()
				failures[runner.Name()] = err.Error()
				mu.Unlock()
			}
			return nil
		})
	}
	// Provider errors are collected in failures; the group itself never fails.
	_ = g.Wait()

	report.FinishedAt = o.clock.Now()
	report.Statistics = o.aggregator.ComputeStatistics()
	if len(failures) > 0 {
		report.Failures = failures
	}

	o.logger.Info("Benchmark run finished",
		"run_id", report.RunID, "duration", report.Duration(), "failed_providers", len(failures))
	return report
}

func (o *Orchestrator) runProvider(ctx context.Context, runner ProviderRunner, addresses []string) error {
	for i, address := range addresses {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runner.Execute(ctx, address); err != nil {
			return err
		}
		o.logger.Debug("Address processed", "provider", runner.Name(), "index", i+1, "total", len(addresses))
	}
	return nil
}
