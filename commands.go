package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gamer/config"
	"gamer/engine"
	"gamer/experiments"
	"gamer/games"
	"gamer/metrics"
	"gamer/player"
	"gamer/statemachine"
)

var (
	configPath  string
	gameName    string
	agentNames  []string
	startClock  time.Duration
	playClock   time.Duration
	numGames    int
	recordsDir  string
	metricsAddr string
	temperature float64
	workerList  []int
	benchTime   time.Duration

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:           "gamer",
		Short:         "A propositional network game player",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.Log.SetupLogger(os.Stderr)
			return nil
		},
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play local matches between agents",
		RunE:  runPlay,
	}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Measure depth charge and search throughput across worker counts",
		RunE:  runBench,
	}

	describeCmd = &cobra.Command{
		Use:   "describe",
		Short: "Print the structure and characteristics of a game",
		RunE:  runDescribe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&gameName, "game", "tictactoe",
		fmt.Sprintf("game to use: one of %v, nim-N or a circuit file", games.Names()))

	playCmd.Flags().StringSliceVar(&agentNames, "agents", []string{"mcts", "random"}, "agent per role: mcts or random")
	playCmd.Flags().DurationVar(&startClock, "start", 2*time.Second, "metagame time")
	playCmd.Flags().DurationVar(&playClock, "movetime", time.Second, "time per move")
	playCmd.Flags().IntVar(&numGames, "games", 1, "number of matches")
	playCmd.Flags().StringVar(&recordsDir, "records", "", "directory for CSV records")
	playCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	playCmd.Flags().Float64Var(&temperature, "temperature", 0, "sample moves by visit count at this temperature")

	benchCmd.Flags().IntSliceVar(&workerList, "workers", []int{1, 2, 4, 8}, "worker counts to measure")
	benchCmd.Flags().DurationVar(&benchTime, "duration", time.Second, "measurement time per worker count")
	benchCmd.Flags().StringVar(&recordsDir, "records", "", "directory for CSV records")

	rootCmd.AddCommand(playCmd, benchCmd, describeCmd)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runPlay(cmd *cobra.Command, args []string) error {
	net, err := games.ByName(gameName)
	if err != nil {
		return err
	}
	if len(agentNames) != len(net.Roles) {
		return fmt.Errorf("%s has %d roles, got %d agents", gameName, len(net.Roles), len(agentNames))
	}
	ctx, cancel := signalContext()
	defer cancel()

	reg := prometheus.NewRegistry()
	exporter := metrics.NewExporter(reg)
	if metricsAddr != "" {
		server := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer server.Close()
		log.Info().Msgf("serving metrics on %s", metricsAddr)
	}

	factory := func(game, role int) engine.Agent {
		seed := uint64(time.Now().UnixNano()) + uint64(role)
		if strings.EqualFold(agentNames[role], "random") {
			return engine.NewRandomAgent(seed)
		}
		options := []player.Option{player.WithExporter(exporter), player.WithSeed(seed)}
		if temperature > 0 {
			options = append(options, player.WithTemperature(temperature))
		}
		return &engine.MCTSAdapter{Player: player.New(cfg, options...)}
	}
	for _, name := range agentNames {
		if n := strings.ToLower(name); n != "mcts" && n != "random" {
			return fmt.Errorf("unknown agent %q", name)
		}
	}

	records, err := experiments.RunMatches(ctx, net, experiments.MatchConfig{
		Game:       gameName,
		Games:      numGames,
		StartClock: startClock,
		PlayClock:  playClock,
	}, factory)
	if err != nil {
		return err
	}
	printSummary(net.Roles, agentNames, records.Games)

	if recordsDir != "" {
		dir, err := records.Store(recordsDir)
		if err != nil {
			return err
		}
		log.Info().Msgf("records written to %s", dir)
	}
	return nil
}

func printSummary(roles, agents []string, results []metrics.GameMetric) {
	out := termenv.NewOutput(os.Stdout)
	totals := make([]int, len(roles))
	for _, g := range results {
		for i, goal := range g.Goals {
			totals[i] += goal
		}
	}
	fmt.Fprintln(out, out.String(fmt.Sprintf("%d games of %s", len(results), gameName)).Bold())
	for i, role := range roles {
		avg := 0.0
		if len(results) > 0 {
			avg = float64(totals[i]) / float64(len(results))
		}
		color := out.Color("1")
		if avg >= 50 {
			color = out.Color("2")
		}
		fmt.Fprintf(out, "  %-12s %-8s %s\n", role, agents[i], out.String(fmt.Sprintf("%6.1f", avg)).Foreground(color))
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	net, err := games.ByName(gameName)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	records, err := experiments.RunThroughput(ctx, net, experiments.ThroughputConfig{
		Game:       gameName,
		Workers:    workerList,
		Duration:   benchTime,
		MinSamples: cfg.Search.MinSamples,
		MaxSamples: cfg.Search.MaxSamples,
	})
	if err != nil {
		return err
	}

	out := termenv.NewOutput(os.Stdout)
	fmt.Fprintln(out, out.String(fmt.Sprintf("%-8s %16s %14s %12s", "workers", "depth charges/s", "rollouts/s", "iterations")).Bold())
	for _, r := range records {
		fmt.Fprintf(out, "%-8d %16.0f %14.0f %12d\n", r.Workers, r.DepthChargeRate, r.RolloutRate, r.Iterations)
	}

	if recordsDir != "" {
		writer, err := metrics.NewWriter(recordsDir)
		if err != nil {
			return err
		}
		if err := writer.WriteThroughputRecords(records); err != nil {
			return err
		}
		log.Info().Msgf("records written to %s", writer.Dir())
	}
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	net, err := games.ByName(gameName)
	if err != nil {
		return err
	}
	sm, err := statemachine.New(net)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(float64(time.Second)*cfg.Metagame.Share*2))
	defer cancel()
	c, err := sm.Characterize(ctx, 0, cfg.Metagame.Samples)
	if err != nil {
		return err
	}

	out := termenv.NewOutput(os.Stdout)
	row := func(name string, value any) {
		fmt.Fprintf(out, "  %-18s %v\n", out.String(name).Faint(), value)
	}
	fmt.Fprintln(out, out.String(gameName).Bold())
	row("roles", net.Roles)
	row("components", net.Size())
	row("bases", len(net.Bases))
	row("moves", len(net.Moves))
	control := "none"
	if c.Control >= 0 {
		control = net.BaseLabels()[c.Control]
	}
	row("control base", control)
	row("factors", c.Factors)
	row("samples", c.Samples)
	row("raw score range", fmt.Sprintf("[%d, %d]", c.MinRaw, c.MaxRaw))
	row("average depth", fmt.Sprintf("%.1f", c.AverageDepth))
	row("average branching", fmt.Sprintf("%.2f", c.AverageBranching))
	row("simultaneous", c.Simultaneous)
	row("puzzle", c.Puzzle)
	return nil
}
