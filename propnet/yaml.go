package propnet

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Circuit is the declarative file form of a network. Every name must be
// defined before it is referenced.
type Circuit struct {
	Roles    []string      `yaml:"roles"`
	Bases    []string      `yaml:"bases"`
	Init     []string      `yaml:"init"`
	Inputs   []CircuitMove `yaml:"inputs"`
	Gates    []CircuitGate `yaml:"gates"`
	Next     []CircuitNext `yaml:"next"`
	Legal    []CircuitMove `yaml:"legal"`
	Goals    []CircuitGoal `yaml:"goals"`
	Terminal string        `yaml:"terminal"`
}

type CircuitMove struct {
	Name   string `yaml:"name"`
	Role   string `yaml:"role"`
	Move   string `yaml:"move"`
	When   string `yaml:"when"`
	Factor *int   `yaml:"factor"`
	NoOp   bool   `yaml:"noop"`
}

type CircuitGate struct {
	Name string   `yaml:"name"`
	Op   string   `yaml:"op"`
	In   []string `yaml:"in"`
}

type CircuitNext struct {
	Base string `yaml:"base"`
	When string `yaml:"when"`
}

type CircuitGoal struct {
	Role  string `yaml:"role"`
	Value int    `yaml:"value"`
	When  string `yaml:"when"`
}

// LoadYAML decodes a circuit file and builds its network.
func LoadYAML(r io.Reader) (*Network, error) {
	var c Circuit
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding circuit: %w", err)
	}
	return c.Build()
}

// Build translates the circuit through a Builder.
func (c *Circuit) Build() (*Network, error) {
	b := NewBuilder()
	names := make(map[string]Ref)
	roles := make(map[string]int)

	define := func(name string, ref Ref) error {
		if name == "" {
			return nil
		}
		if _, ok := names[name]; ok {
			return fmt.Errorf("%q defined twice", name)
		}
		names[name] = ref
		return nil
	}
	resolve := func(name string) (Ref, error) {
		ref, ok := names[name]
		if !ok {
			return -1, fmt.Errorf("%w: %q", ErrBadReference, name)
		}
		return ref, nil
	}
	role := func(name string) (int, error) {
		index, ok := roles[name]
		if !ok {
			return -1, fmt.Errorf("%w: %q", ErrUnknownRole, name)
		}
		return index, nil
	}

	for _, name := range c.Roles {
		roles[name] = b.Role(name)
	}
	for _, name := range c.Bases {
		if err := define(name, b.Base(name)); err != nil {
			return nil, err
		}
	}
	for _, name := range c.Init {
		ref, err := resolve(name)
		if err != nil {
			return nil, err
		}
		b.Init(ref)
	}
	for _, in := range c.Inputs {
		index, err := role(in.Role)
		if err != nil {
			return nil, err
		}
		name := in.Name
		if name == "" {
			name = in.Role + ":" + in.Move
		}
		if err := define(name, b.Input(index, in.Move)); err != nil {
			return nil, err
		}
	}

	for _, g := range c.Gates {
		ins := make([]Ref, 0, len(g.In))
		for _, name := range g.In {
			ref, err := resolve(name)
			if err != nil {
				return nil, fmt.Errorf("gate %q: %w", g.Name, err)
			}
			ins = append(ins, ref)
		}

		var ref Ref
		switch g.Op {
		case "and":
			ref = b.And(ins...)
		case "or":
			ref = b.Or(ins...)
		case "not":
			if len(ins) != 1 {
				return nil, fmt.Errorf("gate %q: not takes one input, got %d", g.Name, len(ins))
			}
			ref = b.Not(ins[0])
		case "view":
			if len(ins) != 1 {
				return nil, fmt.Errorf("gate %q: view takes one input, got %d", g.Name, len(ins))
			}
			ref = b.View(g.Name, ins[0])
		case "true":
			ref = b.True()
		case "false":
			ref = b.False()
		default:
			return nil, fmt.Errorf("gate %q: %w: %q", g.Name, ErrUnknownComponent, g.Op)
		}
		if err := define(g.Name, ref); err != nil {
			return nil, err
		}
	}

	for _, n := range c.Next {
		base, err := resolve(n.Base)
		if err != nil {
			return nil, err
		}
		when, err := resolve(n.When)
		if err != nil {
			return nil, err
		}
		b.Next(base, when)
	}
	for _, l := range c.Legal {
		index, err := role(l.Role)
		if err != nil {
			return nil, err
		}
		when, err := resolve(l.When)
		if err != nil {
			return nil, err
		}
		var options []LegalOption
		if l.Factor != nil {
			options = append(options, InFactor(*l.Factor))
		}
		if l.NoOp {
			options = append(options, AsPseudoNoOp())
		}
		b.Legal(index, l.Move, when, options...)
	}
	for _, g := range c.Goals {
		index, err := role(g.Role)
		if err != nil {
			return nil, err
		}
		when, err := resolve(g.When)
		if err != nil {
			return nil, err
		}
		b.Goal(index, g.Value, when)
	}
	if c.Terminal != "" {
		when, err := resolve(c.Terminal)
		if err != nil {
			return nil, err
		}
		b.Terminal(when)
	}
	return b.Build()
}
