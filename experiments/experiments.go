package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"gamer/engine"
	"gamer/metrics"
	"gamer/propnet"
)

// AgentFactory builds a fresh agent for every game.
type AgentFactory func(game, role int) engine.Agent

// MatchConfig describes a series of local matches.
type MatchConfig struct {
	Game       string
	Games      int
	StartClock time.Duration
	PlayClock  time.Duration
}

// Records holds everything a series produced.
type Records struct {
	Games []metrics.GameMetric
	Moves []metrics.MoveRecord
}

// RunMatches plays cfg.Games matches between the agents built by factory
// and returns their game and move records.
func RunMatches(ctx context.Context, net *propnet.Network, cfg MatchConfig, factory AgentFactory) (Records, error) {
	var records Records
	log.Info().Msgf("starting %d games of %s...", cfg.Games, cfg.Game)

	for i := 0; i < cfg.Games; i++ {
		agents := make([]engine.Agent, len(net.Roles))
		for role := range agents {
			agents[role] = factory(i, role)
		}
		e, err := engine.NewLocal(net, agents,
			engine.WithStartClock(cfg.StartClock), engine.WithPlayClock(cfg.PlayClock))
		if err != nil {
			return records, err
		}

		log.Info().Msgf("starting game %d of %d...", i+1, cfg.Games)
		result, err := e.Run(ctx)
		if err != nil {
			return records, fmt.Errorf("game %d: %w", i+1, err)
		}
		records.Games = append(records.Games, result.Game)
		for _, mm := range result.Moves {
			records.Moves = append(records.Moves, metrics.MoveRecord{Game: result.Game.ID, MoveMetric: mm})
		}
		log.Info().Msgf("completed game %d with goals: %v", i+1, result.Goals)
	}

	log.Info().Msg("completed matches")
	return records, nil
}

// Store writes the records under dir.
func (r Records) Store(dir string) (string, error) {
	writer, err := metrics.NewWriter(dir)
	if err != nil {
		return "", err
	}
	if err := writer.WriteGameRecords(r.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(r.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
