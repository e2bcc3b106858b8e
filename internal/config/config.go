// Package config holds runtime settings: environment lookups for the servers
// and the YAML tuning file shared by every front end.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the tuning file. Zero fields take their defaults.
type Config struct {
	// Seed for the game's random source; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
	// FPS is the frame rate of the terminal loop.
	FPS int `yaml:"fps"`

	Rules      Rules      `yaml:"rules"`
	Audio      Audio      `yaml:"audio"`
	HighScores HighScores `yaml:"high_scores"`
}

// Rules are gameplay policies.
type Rules struct {
	StartingLives int `yaml:"starting_lives"`
	// WaveClearBonus is multiplied by the wave number.
	WaveClearBonus int `yaml:"wave_clear_bonus"`
	// BonusLife grants a life for a damage-free wave, up to MaxLives.
	BonusLife bool `yaml:"bonus_life"`
	MaxLives  int  `yaml:"max_lives"`
	// WingCombat lets bullets knock wings off instead of passing through them.
	WingCombat bool `yaml:"wing_combat"`
	// WaveDelay is the pause in seconds between a cleared wave and the next one.
	WaveDelay float64 `yaml:"wave_delay"`
}

// Audio settings.
type Audio struct {
	Enabled bool    `yaml:"enabled"`
	Master  float64 `yaml:"master_volume"`
}

// HighScores settings.
type HighScores struct {
	// Path of the table; empty uses the per-user default.
	Path string `yaml:"path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FPS: 60,
		Rules: Rules{
			StartingLives:  3,
			WaveClearBonus: 100,
			BonusLife:      false,
			MaxLives:       3,
			WingCombat:     true,
			WaveDelay:      2,
		},
		Audio: Audio{
			Enabled: true,
			Master:  0.5,
		},
	}
}

// Load reads the tuning file at path over the defaults. A missing file is
// not an error; a malformed or invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	switch {
	case c.FPS < 1 || c.FPS > 240:
		return fmt.Errorf("%w: fps %d outside 1..240", ErrInvalid, c.FPS)
	case c.Rules.StartingLives < 1:
		return fmt.Errorf("%w: starting_lives must be at least 1", ErrInvalid)
	case c.Rules.MaxLives < c.Rules.StartingLives:
		return fmt.Errorf("%w: max_lives below starting_lives", ErrInvalid)
	case c.Rules.WaveClearBonus < 0:
		return fmt.Errorf("%w: negative wave_clear_bonus", ErrInvalid)
	case c.Rules.WaveDelay < 0:
		return fmt.Errorf("%w: negative wave_delay", ErrInvalid)
	case c.Audio.Master < 0 || c.Audio.Master > 1:
		return fmt.Errorf("%w: master_volume outside 0..1", ErrInvalid)
	}
	return nil
}
