// Package profiles provides the fixed set of named scan profiles for adbsweep.
// A profile bundles a worker count and a per-probe timeout; the CLI uses the
// extra hints to fill in sweep defaults.
package profiles

import (
	"sort"
	"strings"

	"github.com/adbsweep/adbsweep/internal/errors"
)

// Profile is a named preset of sweep tuning parameters.
type Profile struct {
	Name       string
	Threads    int
	TimeoutSec float64

	// RetryHint is exported for collaborators that re-run failed targets
	// across sweeps. Probes within a single sweep are never retried.
	RetryHint int

	// PortCap is the upper bound of the default port range the CLI offers
	// when this profile is selected.
	PortCap uint16
}

// The closed profile table. Threads and timeouts sit inside the Validator's
// documented bounds (1-200 threads, 0.1-10.0s timeout).
var table = map[string]Profile{
	"lightning": {Name: "lightning", Threads: 200, TimeoutSec: 0.5, RetryHint: 1, PortCap: 5555},
	"quick":     {Name: "quick", Threads: 100, TimeoutSec: 1.0, RetryHint: 1, PortCap: 5555},
	"balanced":  {Name: "balanced", Threads: 50, TimeoutSec: 2.0, RetryHint: 2, PortCap: 5555},
	"deep":      {Name: "deep", Threads: 30, TimeoutSec: 3.0, RetryHint: 2, PortCap: 65535},
	"paranoid":  {Name: "paranoid", Threads: 10, TimeoutSec: 5.0, RetryHint: 3, PortCap: 65535},
}

// Resolve maps a profile name to its configuration. Lookup is
// case-insensitive. Unknown names return an UnknownProfile validation error.
func Resolve(name string) (Profile, error) {
	p, ok := table[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, errors.NewValidationError(
			errors.KindUnknownProfile, "unknown scan profile", "profile", name)
	}
	return p, nil
}

// Names returns all profile names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every profile, ordered by descending thread count
// (fastest first).
func All() []Profile {
	all := make([]Profile, 0, len(table))
	for _, p := range table {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Threads > all[j].Threads
	})
	return all
}
