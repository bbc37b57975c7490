package storage

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/corotrap/internal/config"
)

const (
	dumpPrefix = "qp"
	DumpExt    = ".txt"
)

// DumpName encodes the run parameters of cfg as
// qp_(m=4)_(th=20)_(t=2)_(CR=8)_(eps=0.3)_(x0=..)_(y0=..)_(vx0=..)_(vy0=..).
// Durations are in Gyr and angles in degrees.
func DumpName(cfg *config.Config) string {
	parts := []string{dumpPrefix}
	for _, name := range config.Params {
		v, _ := cfg.Get(name)
		parts = append(parts, fmt.Sprintf("(%s=%s)", name, strconv.FormatFloat(v, 'g', -1, 64)))
	}
	return strings.Join(parts, "_")
}

// ParseDumpName decodes a dump file name, with or without directory and
// .txt extension, into a configuration built over the defaults.
func ParseDumpName(name string) (*config.Config, error) {
	base := strings.TrimSuffix(filepath.Base(name), DumpExt)
	if !strings.HasPrefix(base, dumpPrefix+"_(") {
		return nil, fmt.Errorf("%w: %q is not a dump name", ErrMalformedDump, name)
	}

	cfg := config.DefaultConfig()
	seen := make(map[string]bool, len(config.Params))
	for _, field := range strings.Split(strings.TrimPrefix(base, dumpPrefix+"_"), "_") {
		if !strings.HasPrefix(field, "(") || !strings.HasSuffix(field, ")") {
			return nil, fmt.Errorf("%w: bad field %q in %q", ErrMalformedDump, field, name)
		}
		key, val, ok := strings.Cut(field[1:len(field)-1], "=")
		if !ok {
			return nil, fmt.Errorf("%w: bad field %q in %q", ErrMalformedDump, field, name)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s in %q: %v", ErrMalformedDump, key, name, err)
		}
		if err := cfg.Set(key, v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDump, err)
		}
		seen[key] = true
	}
	for _, p := range config.Params {
		if !seen[p] {
			return nil, fmt.Errorf("%w: %q lacks %s", ErrMalformedDump, name, p)
		}
	}
	return cfg, nil
}
