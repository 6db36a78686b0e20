package games

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gamer/propnet"
)

const defaultNimHeap = 7

var builtins = map[string]func() (*propnet.Network, error){
	"tictactoe": TicTacToe,
	"puzzle":    Puzzle,
	"nim":       func() (*propnet.Network, error) { return Nim(defaultNimHeap) },
}

// Names lists the built-in games.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName resolves a built-in game, "nim-N" for a heap of N, or a path to a
// YAML circuit file.
func ByName(name string) (*propnet.Network, error) {
	if build, ok := builtins[name]; ok {
		return build()
	}
	if heap, ok := strings.CutPrefix(name, "nim-"); ok {
		n, err := strconv.Atoi(heap)
		if err != nil {
			return nil, fmt.Errorf("invalid nim heap %q: %w", heap, err)
		}
		return Nim(n)
	}
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return propnet.LoadYAML(f)
	}
	return nil, fmt.Errorf("unknown game %q, expected one of %v or a circuit file", name, Names())
}
