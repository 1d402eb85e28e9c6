package roundbot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ControlMode string

const (
	// ControlDiscrete moves the robot at walking speed along its strafe direction.
	ControlDiscrete ControlMode = "discrete"
	// ControlVelocity integrates a speed set directly by the controller.
	ControlVelocity ControlMode = "velocity"
	// ControlAcceleration integrates an acceleration into the speed, then the speed into the position.
	ControlAcceleration ControlMode = "acceleration"
)

// Config carries every construction parameter of a Model.
type Config struct {
	ControlMode    ControlMode `yaml:"control_mode"`
	WalkingSpeed   float64     `yaml:"walking_speed"`
	MaxSpeed       float64     `yaml:"max_speed"`
	RandomStartPos bool        `yaml:"random_start_pos"`
	RandomStartRot bool        `yaml:"random_start_rot"`
	Seed           uint64      `yaml:"seed"`

	SandBoxFriction                    float64 `yaml:"sandbox_friction"`
	DistractorSpeed                    float64 `yaml:"distractor_speed"`
	DistractorChangeDirectionFrequency float64 `yaml:"distractor_change_direction_frequency"`

	GridCellSize float64 `yaml:"grid_cell_size"`
	TicksPerSec  float64 `yaml:"ticks_per_sec"`
	Substeps     int     `yaml:"substeps"`
	Debug        bool    `yaml:"debug"`

	Logger Logger `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		ControlMode:                        ControlDiscrete,
		WalkingSpeed:                       10,
		SandBoxFriction:                    0.5,
		DistractorSpeed:                    0.4,
		DistractorChangeDirectionFrequency: 0.05,
		GridCellSize:                       4,
		TicksPerSec:                        60,
		Substeps:                           1,
		Seed:                               1,
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func (c Config) Validate() error {
	switch c.ControlMode {
	case ControlDiscrete, ControlVelocity, ControlAcceleration:
	default:
		return fmt.Errorf("%w: control_mode %q", ErrInvalidConfig, c.ControlMode)
	}
	if c.WalkingSpeed < 0 {
		return fmt.Errorf("%w: walking_speed %g < 0", ErrInvalidConfig, c.WalkingSpeed)
	}
	if c.MaxSpeed < 0 {
		return fmt.Errorf("%w: max_speed %g < 0", ErrInvalidConfig, c.MaxSpeed)
	}
	if c.SandBoxFriction <= 0 || c.SandBoxFriction > 1 {
		return fmt.Errorf("%w: sandbox_friction: %w", ErrInvalidConfig, &InvalidFrictionError{Friction: c.SandBoxFriction})
	}
	if c.DistractorSpeed < 0 {
		return fmt.Errorf("%w: distractor_speed %g < 0", ErrInvalidConfig, c.DistractorSpeed)
	}
	if c.DistractorChangeDirectionFrequency < 0 || c.DistractorChangeDirectionFrequency > 1 {
		return fmt.Errorf("%w: distractor_change_direction_frequency %g not in [0,1]", ErrInvalidConfig, c.DistractorChangeDirectionFrequency)
	}
	if c.GridCellSize <= 0 {
		return fmt.Errorf("%w: grid_cell_size %g <= 0", ErrInvalidConfig, c.GridCellSize)
	}
	if c.TicksPerSec <= 0 {
		return fmt.Errorf("%w: ticks_per_sec %g <= 0", ErrInvalidConfig, c.TicksPerSec)
	}
	if c.Substeps < 1 {
		return fmt.Errorf("%w: substeps %d < 1", ErrInvalidConfig, c.Substeps)
	}
	return nil
}
