package roundbot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestParseConfig_OverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
control_mode: acceleration
max_speed: 3.5
random_start_pos: true
seed: 99
sandbox_friction: 0.25
`))
	require.NoError(t, err)
	assert.Equal(t, ControlAcceleration, cfg.ControlMode)
	assert.Equal(t, 3.5, cfg.MaxSpeed)
	assert.True(t, cfg.RandomStartPos)
	assert.False(t, cfg.RandomStartRot)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 0.25, cfg.SandBoxFriction)

	// untouched keys keep their defaults
	def := DefaultConfig()
	assert.Equal(t, def.WalkingSpeed, cfg.WalkingSpeed)
	assert.Equal(t, def.DistractorSpeed, cfg.DistractorSpeed)
	assert.Equal(t, def.GridCellSize, cfg.GridCellSize)
}

func TestParseConfig_Rejects(t *testing.T) {
	cases := map[string]string{
		"mode":          "control_mode: hover",
		"walking speed": "walking_speed: -1",
		"max speed":     "max_speed: -2",
		"friction zero": "sandbox_friction: 0",
		"friction high": "sandbox_friction: 1.5",
		"frequency":     "distractor_change_direction_frequency: 2",
		"cell size":     "grid_cell_size: 0",
		"speed":         "distractor_speed: -0.1",
		"tick rate":     "ticks_per_sec: 0",
		"substeps":      "substeps: 0",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := ParseConfig([]byte("sandbox_friction: 0"))
	assert.ErrorIs(t, err, ErrInvalidFriction)

	_, err = ParseConfig([]byte("seed: [1, 2"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte("walking_speed: 4\ndebug: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.WalkingSpeed)
	assert.True(t, cfg.Debug)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
