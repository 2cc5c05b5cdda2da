package vision

import (
	"fmt"
	"strings"
	"time"
)

// Config controls the Gemini-backed provider.
type Config struct {
	// APIKey authenticates against the Gemini API. Empty disables the
	// provider; the application falls back to keyword heuristics.
	APIKey string
	// Model is the Gemini model identifier.
	Model string
	// MaxImages caps how many photos a single analysis sends upstream.
	// Extra images are dropped with a warning.
	MaxImages int
	// Timeout bounds one analysis round trip, retries included.
	Timeout time.Duration
}

// DefaultConfig returns the production analysis settings.
func DefaultConfig() Config {
	return Config{
		Model:     "gemini-1.5-flash",
		MaxImages: 4,
		Timeout:   45 * time.Second,
	}
}

// Validate reports the first problem with the configuration. The API key is
// checked by NewGemini, not here, because an empty key is a valid way to run
// on heuristics only.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model name is empty")
	}
	if c.MaxImages <= 0 {
		return fmt.Errorf("max images must be positive, got %d", c.MaxImages)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
