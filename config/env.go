package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables consulted by FromEnv. Only the standard OpenMP
// names are read; there are no package-specific aliases. Blank values are
// ignored.
const (
	EnvNumThreads  = "OMP_NUM_THREADS"
	EnvNested      = "OMP_NESTED"
	EnvThreadLimit = "OMP_THREAD_LIMIT"
)

// FromEnv returns Default() overridden by whatever is set in the process
// environment.
func FromEnv() (*Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if v, ok := nonBlank(lookup, EnvNumThreads); ok {
		nums, err := ParseNumThreads(v)
		if err != nil {
			return nil, err
		}
		cfg.NumThreads = nums
	}

	if v, ok := nonBlank(lookup, EnvNested); ok {
		nested, err := parseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid nested value %q: %w", v, err)
		}
		cfg.Nested = nested
	}

	if v, ok := nonBlank(lookup, EnvThreadLimit); ok {
		limit, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid thread limit %q: %w", v, err)
		}
		cfg.ThreadLimit = limit
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseNumThreads parses a comma-separated list of positive team sizes,
// one per nesting level, e.g. "4,2".
func ParseNumThreads(v string) ([]int, error) {
	parts := strings.Split(v, ",")
	ret := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid num threads %q: %w", v, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("invalid num threads %q: values must be > 0", v)
		}
		ret = append(ret, n)
	}
	return ret, nil
}

func nonBlank(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("expected one of true/false/yes/no/on/off/1/0")
}
