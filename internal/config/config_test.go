package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/shape"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "none", cfg.Controller)
	assert.Positive(t, cfg.Dt)
	assert.Positive(t, cfg.Duration)
	assert.Equal(t, physics.SeawaterDensity, cfg.Medium.Density)
	require.NoError(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dive")
	require.NotNil(t, cfg)
	assert.Equal(t, "depth-hold", cfg.Controller)
	assert.Equal(t, 180.0, cfg.ControllerParams.Target)
	require.NoError(t, cfg.Validate())

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestGetPresetReturnsCopy(t *testing.T) {
	cfg := GetPreset("sprint")
	require.NotNil(t, cfg)
	cfg.Dt = 1
	cfg.Submarine.Tanks[0].AirFraction = 0.7
	cfg.Submarine.Surfaces[0].ID = "bow"

	again := GetPreset("sprint")
	assert.Equal(t, 0.02, again.Dt)
	assert.Zero(t, again.Submarine.Tanks[0].AirFraction)
	assert.Equal(t, "stern", again.Submarine.Surfaces[0].ID)
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"cruise", "dive", "drift", "sprint", "surface"}, names)

	for _, name := range names {
		require.NoError(t, GetPreset(name).Validate(), name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_dt", func(c *Config) { c.Dt = 0 }},
		{"negative_duration", func(c *Config) { c.Duration = -1 }},
		{"unknown_integrator", func(c *Config) { c.Integrator = "magic" }},
		{"flat_hull", func(c *Config) { c.Submarine.HullDiameter = 0 }},
		{"negative_density", func(c *Config) { c.Medium.Density = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := DefaultConfig()
	cfg.Submarine.HullLength = -5
	assert.ErrorIs(t, cfg.Validate(), shape.ErrInvalidGeometry)
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	cfg := GetPreset("sprint")
	cfg.Deflections = map[string]float64{"stern": 0.1}

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	cfg := GetPreset("sprint")

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Name, loaded.Name)
	assert.Equal(t, cfg.ControllerParams, loaded.ControllerParams)
	assert.Equal(t, cfg.Submarine.Tanks, loaded.Submarine.Tanks)
	assert.Equal(t, cfg.Medium, loaded.Medium)
}

func TestLoadPartialOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "name: shallow\ndt: 0.05\ninit_state:\n  z: 110\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shallow", cfg.Name)
	assert.Equal(t, 0.05, cfg.Dt)
	assert.Equal(t, 110.0, cfg.InitState.Z)
	assert.Equal(t, DefaultDuration, cfg.Duration)
	assert.Equal(t, 100.0, cfg.Submarine.HullLength)
}

func TestLoadTOMLKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boat.toml")
	data := `
name = "heavy"
controller = "constant"
throttle = 1500.0

[submarine]
hull_length = 80.0
hull_diameter = 6.0
hull_density = 2.0

[[submarine.tanks]]
id = "fore"
length = 3.0
diameter = 2.0
air_fraction = 0.25
offset = { x = 20.0, z = 0.0 }
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "heavy", cfg.Name)
	assert.Equal(t, 1500.0, cfg.Throttle)
	assert.Equal(t, 80.0, cfg.Submarine.HullLength)
	require.Len(t, cfg.Submarine.Tanks, 1)
	assert.Equal(t, "fore", cfg.Submarine.Tanks[0].ID)
	assert.Equal(t, 20.0, cfg.Submarine.Tanks[0].Offset.X)
	assert.Equal(t, 0.25, cfg.Submarine.Tanks[0].AirFraction)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "scenario.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("dt: [1, 2"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	assert.ErrorIs(t, Save(filepath.Join(dir, "out.ini"), DefaultConfig()), ErrUnknownFormat)
}

func TestPoseFromInitState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitState = InitStateConfig{X: 3, Z: 140, Angle: 0.2, VX: 1, VZ: -0.5}

	p := cfg.Pose()
	assert.Equal(t, 3.0, p.Position.X)
	assert.Equal(t, 140.0, p.Position.Z)
	assert.Equal(t, 0.2, p.Orientation.Y)
	assert.Equal(t, -0.5, cfg.Velocity().Z)
}
