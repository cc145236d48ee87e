package check

import (
	"fmt"

	"campaignqa-srv/internal/model"
)

// Registry is the fixed, ordered catalogue of checks built at startup.
type Registry struct {
	checks []Check
}

// NewRegistry builds a registry in declaration order. Two checks sharing an id is a fatal
// configuration error.
func NewRegistry(checks ...Check) (*Registry, error) {
	r := &Registry{checks: make([]Check, 0, len(checks))}
	seen := make(map[string]bool, len(checks))
	for _, c := range checks {
		def := c.Definition()
		if def.ID == "" || len(def.Platforms) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCheck, def.ID)
		}
		if def.Tier != TierSync && def.Tier != TierAsync {
			return nil, fmt.Errorf("%w: %q has tier %d", ErrInvalidCheck, def.ID, def.Tier)
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCheck, def.ID)
		}
		seen[def.ID] = true
		r.checks = append(r.checks, c)
	}
	return r, nil
}

// ChecksFor returns the checks of a tier that apply to platform, in declaration order.
func (r *Registry) ChecksFor(platform model.Platform, tier Tier) []Check {
	out := make([]Check, 0, len(r.checks))
	for _, c := range r.checks {
		def := c.Definition()
		if def.Tier == tier && def.AppliesTo(platform) {
			out = append(out, c)
		}
	}
	return out
}

// Definitions lists every registered check.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.checks))
	for i, c := range r.checks {
		out[i] = c.Definition()
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.checks)
}
