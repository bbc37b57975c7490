package batch

import (
	"fmt"

	"github.com/san-kum/corotrap/internal/config"
)

// Sweep expands base over the cartesian product of the given parameter
// values. Parameters vary in config.Params order, the last one fastest.
type Sweep struct {
	paramNames []string
	ranges     [][]float64
}

func NewSweep(values map[string][]float64) (*Sweep, error) {
	ref := config.DefaultConfig()
	for name := range values {
		if _, err := ref.Get(name); err != nil {
			return nil, err
		}
	}

	s := &Sweep{}
	for _, name := range config.Params {
		vals, ok := values[name]
		if !ok {
			continue
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("%w: sweep over %s has no values", config.ErrInvalidConfig, name)
		}
		s.paramNames = append(s.paramNames, name)
		s.ranges = append(s.ranges, vals)
	}
	return s, nil
}

// Size returns the number of configurations Expand produces.
func (s *Sweep) Size() int {
	if len(s.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range s.ranges {
		n *= len(r)
	}
	return n
}

func (s *Sweep) Expand(base *config.Config) ([]*config.Config, error) {
	if len(s.paramNames) == 0 {
		return nil, nil
	}
	out := make([]*config.Config, 0, s.Size())
	if err := s.expandRecursive(0, base.Clone(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Sweep) expandRecursive(depth int, current *config.Config, out *[]*config.Config) error {
	if depth == len(s.paramNames) {
		if err := current.Validate(); err != nil {
			return err
		}
		*out = append(*out, current)
		return nil
	}

	name := s.paramNames[depth]
	for _, val := range s.ranges[depth] {
		next := current.Clone()
		if err := next.Set(name, val); err != nil {
			return err
		}
		if err := s.expandRecursive(depth+1, next, out); err != nil {
			return err
		}
	}
	return nil
}
