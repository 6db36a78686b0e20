package state

import (
	"fmt"
	"sort"
)

// Layout translates between fact sets (base proposition labels) and
// machine states.
type Layout struct {
	labels  []string
	index   map[string]int
	control int
}

// NewLayout indexes labels in order. control is the base index carried by
// the X flag, or -1.
func NewLayout(labels []string, control int) *Layout {
	l := &Layout{
		labels:  append([]string(nil), labels...),
		index:   make(map[string]int, len(labels)),
		control: control,
	}
	for i, label := range labels {
		l.index[label] = i
	}
	return l
}

func (l *Layout) Size() int {
	return len(l.labels)
}

func (l *Layout) Label(index int) string {
	return l.labels[index]
}

// State builds the machine state holding exactly the given facts.
func (l *Layout) State(facts []string) (*MachineState, error) {
	s := New(len(l.labels))
	for _, fact := range facts {
		i, ok := l.index[fact]
		if !ok {
			return nil, fmt.Errorf("unknown base proposition %q", fact)
		}
		s.Add(i)
	}
	if l.control >= 0 {
		s.X = s.Contains(l.control)
	}
	return s, nil
}

// Facts lists the labels of the true bases, sorted.
func (l *Layout) Facts(s *MachineState) []string {
	facts := make([]string, 0, s.Size())
	s.Each(func(index int) {
		facts = append(facts, l.labels[index])
	})
	sort.Strings(facts)
	return facts
}
