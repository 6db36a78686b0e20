package experiments

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gamer/metrics"
	"gamer/propnet"
	"gamer/rollout"
	"gamer/searcher"
	"gamer/statemachine"
)

// ThroughputConfig describes one throughput experiment.
type ThroughputConfig struct {
	Game     string
	Workers  []int
	Duration time.Duration
	// Samples bounds the depth charges per rollout request in the search
	// phase.
	MinSamples, MaxSamples int
}

// RunThroughput measures, for every worker count, the raw depth-charge
// rate of that many state machine instances and the rollout rate of a
// pooled search from the initial state.
func RunThroughput(ctx context.Context, net *propnet.Network, cfg ThroughputConfig) ([]metrics.ThroughputRecord, error) {
	var records []metrics.ThroughputRecord
	log.Info().Msgf("starting throughput experiment on %s...", cfg.Game)

	for _, workers := range cfg.Workers {
		if workers < 1 {
			return nil, fmt.Errorf("worker count must be positive, got %d", workers)
		}
		log.Info().Msgf("measuring %d workers for %v...", workers, cfg.Duration)

		charges, err := depthCharges(ctx, net, workers, cfg.Duration)
		if err != nil {
			return nil, err
		}
		metric, err := searchThroughput(ctx, net, workers, cfg)
		if err != nil {
			return nil, err
		}

		seconds := cfg.Duration.Seconds()
		record := metrics.ThroughputRecord{
			Game:              cfg.Game,
			Workers:           workers,
			Duration:          cfg.Duration,
			DepthCharges:      charges,
			DepthChargeRate:   float64(charges) / seconds,
			Iterations:        metric.Iterations,
			Rollouts:          metric.Rollouts,
			RolloutRate:       float64(metric.Rollouts) / metric.Duration.Seconds(),
			AverageSampleSize: float64(metric.SampleSize),
		}
		records = append(records, record)
		log.Info().Msgf("completed %d workers: %.0f depth charges/s, %.0f rollouts/s", workers, record.DepthChargeRate, record.RolloutRate)
	}

	log.Info().Msg("completed throughput experiment")
	return records, nil
}

func depthCharges(ctx context.Context, net *propnet.Network, workers int, d time.Duration) (int, error) {
	sm, err := statemachine.New(net, statemachine.WithMaxInstances(workers))
	if err != nil {
		return 0, err
	}
	machines := []*statemachine.Machine{sm}
	for len(machines) < workers {
		m, err := sm.CreateInstance()
		if err != nil {
			return 0, err
		}
		machines = append(machines, m)
	}

	var total atomic.Int64
	cctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	g, gctx := errgroup.WithContext(cctx)
	for _, m := range machines {
		g.Go(func() error {
			initial := m.InitialState()
			for gctx.Err() == nil {
				m.DepthCharge(initial, nil, nil)
				total.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return int(total.Load()), nil
}

func searchThroughput(ctx context.Context, net *propnet.Network, workers int, cfg ThroughputConfig) (metrics.SearchMetric, error) {
	sm, err := statemachine.New(net, statemachine.WithMaxInstances(workers+1))
	if err != nil {
		return metrics.SearchMetric{}, err
	}
	machines := make([]*statemachine.Machine, workers)
	for i := range machines {
		if machines[i], err = sm.CreateInstance(); err != nil {
			return metrics.SearchMetric{}, err
		}
	}

	pool := rollout.NewPool(machines, 0, 4*workers)
	pool.Start(ctx)
	defer pool.Stop()

	options := []searcher.Option{searcher.WithPool(pool), searcher.WithMetrics()}
	if cfg.MinSamples > 0 && cfg.MaxSamples >= cfg.MinSamples {
		options = append(options, searcher.WithSamples(cfg.MinSamples, cfg.MaxSamples))
	}
	m := searcher.NewMCTS(sm, 0, options...)
	if err := m.SetRoot(sm.InitialState()); err != nil {
		return metrics.SearchMetric{}, err
	}
	return m.Search(ctx, time.Now().Add(cfg.Duration))
}
