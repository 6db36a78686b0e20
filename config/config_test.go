package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, Default().Validate())
	})

	t.Run("empty document keeps defaults", func(t *testing.T) {
		cfg, err := Decode(strings.NewReader(""))

		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := Decode(strings.NewReader(`
search:
  workers: 8
  strategy: ucb1
  margin: 250ms
log:
  level: debug
`))

		require.NoError(t, err)
		require.Equal(t, 8, cfg.Search.Workers)
		require.Equal(t, "ucb1", cfg.Search.Strategy)
		require.Equal(t, 250*time.Millisecond, cfg.Search.Margin)
		require.Equal(t, Default().Search.TableSize, cfg.Search.TableSize, "Unset fields keep their defaults")
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := Decode(strings.NewReader("search:\n  depth: 3\n"))
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		for _, doc := range []string{
			"search:\n  table_size: 1\n",
			"search:\n  headroom: 300000\n",
			"search:\n  min_samples: 4\n  max_samples: 2\n",
			"search:\n  strategy: minimax\n",
			"metagame:\n  share: 2\n",
			"log:\n  level: loud\n",
		} {
			_, err := Decode(strings.NewReader(doc))
			require.ErrorIs(t, err, ErrInvalid, "Document %q should be rejected", doc)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("does-not-exist.yaml")
		require.Error(t, err)
	})
}
