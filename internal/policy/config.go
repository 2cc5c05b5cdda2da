package policy

import (
	"fmt"

	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/utils"
)

// Config holds the hard eligibility rules. It is read once at startup and
// shared read-only by every evaluation.
type Config struct {
	// ExcludedFamilies blocks equipment whose processor text mentions any
	// of these families. Matching is case- and accent-insensitive substring
	// match against the declared processor model.
	ExcludedFamilies []string

	// MinGeneration is the generation floor applied when no per-family
	// entry exists in GenerationFloors.
	MinGeneration int

	// GenerationFloors overrides MinGeneration for specific canonical
	// families, e.g. {"core i3": 10}.
	GenerationFloors map[string]int
}

// DefaultConfig mirrors the shop's standing policy: no Pentium, Celeron or
// Atom equipment, and nothing older than 10th generation.
func DefaultConfig() Config {
	return Config{
		ExcludedFamilies: []string{"pentium", "celeron", "atom"},
		MinGeneration:    10,
		GenerationFloors: map[string]int{device.FamilyCoreI3: 10},
	}
}

// Validate rejects configurations that would make the rules vacuous.
func (c Config) Validate() error {
	if c.MinGeneration < 1 {
		return fmt.Errorf("min generation must be >= 1, got %d", c.MinGeneration)
	}
	for fam, floor := range c.GenerationFloors {
		if floor < 1 {
			return fmt.Errorf("generation floor for %q must be >= 1, got %d", fam, floor)
		}
	}
	for _, fam := range c.ExcludedFamilies {
		if utils.NormalizeToken(fam) == "" {
			return fmt.Errorf("excluded family entries must be non-empty")
		}
	}
	return nil
}

// floorFor returns the minimum accepted generation for a canonical family.
func (c Config) floorFor(family string) int {
	if floor, ok := c.GenerationFloors[family]; ok {
		return floor
	}
	return c.MinGeneration
}
