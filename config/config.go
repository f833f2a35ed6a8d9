// Package config holds the configuration surface of a parallel-region
// runtime: the per-level team sizes, whether nested regions are allowed and
// the optional global worker limit.
//
// A Config can be built from [Default], from the environment via [FromEnv],
// from YAML bytes via [Parse] or from any location supported by
// github.com/viant/afs via [Load].
package config

import (
	"errors"
	"fmt"
)

// Config is a serialisable representation of the runtime configuration.
type Config struct {
	// NumThreads is the team size per nesting level. A single entry applies
	// to every level.
	NumThreads []int `json:"numThreads" yaml:"numThreads"`

	// Nested allows regions to be entered from inside another region.
	Nested bool `json:"nested" yaml:"nested"`

	// ThreadLimit caps the number of live team members across all regions,
	// the coordinating member included. Zero means no limit.
	ThreadLimit int `json:"threadLimit" yaml:"threadLimit"`
}

// Default returns a Config with one team member per CPU available to the
// process, nesting disabled and no thread limit.
func Default() *Config {
	return &Config{
		NumThreads: []int{AvailableCPUs()},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	ret := *c
	ret.NumThreads = append([]int(nil), c.NumThreads...)
	return &ret
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if len(c.NumThreads) == 0 {
		errs = append(errs, errors.New("numThreads must not be empty"))
	}
	for i, n := range c.NumThreads {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("numThreads[%d] must be > 0, got %d", i, n))
		}
	}
	if c.ThreadLimit < 0 {
		errs = append(errs, fmt.Errorf("threadLimit must be >= 0, got %d", c.ThreadLimit))
	}
	return errors.Join(errs...)
}

// WorkersFor returns the configured team size for a region entered at the
// given nesting level. ok is false when NumThreads is neither a single value
// nor long enough to have an entry for level.
func (c *Config) WorkersFor(level int) (n int, ok bool) {
	switch {
	case len(c.NumThreads) == 1:
		return c.NumThreads[0], true
	case len(c.NumThreads) > level:
		return c.NumThreads[level], true
	default:
		return 0, false
	}
}
