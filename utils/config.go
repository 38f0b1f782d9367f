package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Patterns accepted by Config.Pattern
const (
	PatternRandom = "random"
	PatternFill   = "fill"
	PatternClear  = "clear"
	PatternBlock  = "block"
	PatternGlider = "glider"
)

var knownPatterns = map[string]bool{
	PatternRandom: true,
	PatternFill:   true,
	PatternClear:  true,
	PatternBlock:  true,
	PatternGlider: true,
}

// Config holds the configuration for the game
type Config struct {
	Rows                int           `json:"rows"`
	Columns             int           `json:"columns"`
	RandomMutation      bool          `json:"random_mutation"`
	Seed                int64         `json:"seed"` // 0 seeds from the runtime
	Pattern             string        `json:"pattern"`
	FrameRate           time.Duration `json:"frame_rate"`
	MaxGenerations      int           `json:"max_generations"`
	ShowTransient       bool          `json:"show_transient"`
	Running             bool          `json:"running"`
	AutoRestart         bool          `json:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold"`
	UseParallel         bool          `json:"use_parallel"`
	UseMemoryPool       bool          `json:"use_memory_pool"`
	Debug               bool          `json:"debug"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:                100,
		Columns:             100,
		RandomMutation:      false,
		Pattern:             PatternRandom,
		FrameRate:           150 * time.Millisecond,
		MaxGenerations:      0,
		ShowTransient:       false,
		Running:             true,
		AutoRestart:         false,
		StagnationThreshold: 5,
		UseParallel:         true,
		UseMemoryPool:       true,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid configuration in file: %+v", filename)
	}

	return config, nil
}

// Validate rejects values the runner cannot work with.
// Zero rows or columns are allowed and give an empty board.
func (c Config) Validate() error {
	if c.Rows < 0 || c.Columns < 0 {
		return errors.Errorf("[Validate] negative board size %dx%d", c.Rows, c.Columns)
	}
	if c.FrameRate < 0 {
		return errors.Errorf("[Validate] negative frame rate %s", c.FrameRate)
	}
	if c.MaxGenerations < 0 {
		return errors.Errorf("[Validate] negative max generations %d", c.MaxGenerations)
	}
	if !knownPatterns[c.Pattern] {
		return errors.Errorf("[Validate] unknown pattern %q", c.Pattern)
	}
	return nil
}
