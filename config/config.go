package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"gamer/searcher"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Search   SearchConfig   `yaml:"search"`
	Metagame MetagameConfig `yaml:"metagame"`
	Log      LogConfig      `yaml:"log"`
}

// SearchConfig tunes the tree search and its rollout pool.
type SearchConfig struct {
	ExplorationBias float64 `yaml:"exploration_bias"`
	TableSize       int     `yaml:"table_size"`
	Headroom        int     `yaml:"headroom"`
	MaxOutstanding  int     `yaml:"max_outstanding"`
	MinSamples      int     `yaml:"min_samples"`
	MaxSamples      int     `yaml:"max_samples"`
	Workers         int     `yaml:"workers"`
	QueueSize       int     `yaml:"queue_size"`
	Greedy          bool    `yaml:"greedy_rollouts"`
	LearnWeights    bool    `yaml:"learn_weights"`
	RetainCompleted bool    `yaml:"retain_completed"`
	Strategy        string  `yaml:"strategy"`
	// Margin is kept back from every deadline for move transmission.
	Margin time.Duration `yaml:"margin"`
}

type MetagameConfig struct {
	Samples int `yaml:"samples"`
	// Share is the fraction of the metagame time spent characterising.
	Share float64 `yaml:"share"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func Default() Config {
	return Config{
		Search: SearchConfig{
			ExplorationBias: searcher.DefaultExplorationBias,
			TableSize:       searcher.DefaultTableSize,
			Headroom:        searcher.DefaultHeadroom,
			MaxOutstanding:  searcher.DefaultMaxOutstanding,
			MinSamples:      searcher.DefaultMinSamples,
			MaxSamples:      searcher.DefaultMaxSamples,
			Workers:         4,
			QueueSize:       128,
			Strategy:        "confidence-uct",
			Margin:          100 * time.Millisecond,
		},
		Metagame: MetagameConfig{
			Samples: 1000,
			Share:   0.5,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	s := c.Search
	switch {
	case s.ExplorationBias < 0:
		return fmt.Errorf("%w: negative exploration bias", ErrInvalid)
	case s.TableSize < 2:
		return fmt.Errorf("%w: table size %d", ErrInvalid, s.TableSize)
	case s.Headroom < 0 || s.Headroom >= s.TableSize:
		return fmt.Errorf("%w: headroom %d must be below the table size", ErrInvalid, s.Headroom)
	case s.MinSamples < 1 || s.MaxSamples < s.MinSamples:
		return fmt.Errorf("%w: samples per rollout [%d, %d]", ErrInvalid, s.MinSamples, s.MaxSamples)
	case s.Workers < 0:
		return fmt.Errorf("%w: negative worker count", ErrInvalid)
	case s.Workers > 0 && (s.QueueSize < 1 || s.MaxOutstanding < 1):
		return fmt.Errorf("%w: pooled search needs a queue and outstanding requests", ErrInvalid)
	case s.Margin < 0:
		return fmt.Errorf("%w: negative deadline margin", ErrInvalid)
	case c.Metagame.Share < 0 || c.Metagame.Share > 1:
		return fmt.Errorf("%w: metagame share %v", ErrInvalid, c.Metagame.Share)
	}
	if _, ok := searcher.StrategyByName(s.Strategy); !ok {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalid, s.Strategy)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// SetupLogger applies the log section to the global logger.
func (c LogConfig) SetupLogger(w io.Writer) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly})
	} else {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}
}
