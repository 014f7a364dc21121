// Package automation runs scripted scenario sequences and Monte Carlo
// trials over perturbed scenarios.
package automation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/dynamo"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/optim"
)

var ErrEmptyScript = errors.New("automation: script has no steps")

// Script is a sequence of scenario runs.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step names a starting scenario and the overrides to apply to it. Preset
// and Config are exclusive; with neither the defaults are used.
type Step struct {
	Preset string `yaml:"preset"`
	// Config is a scenario file, relative to the script.
	Config string             `yaml:"config"`
	Set    map[string]float64 `yaml:"set"`
	SaveAs string             `yaml:"save_as"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, step := range script.Steps {
		if step.Config != "" && !filepath.IsAbs(step.Config) {
			script.Steps[i].Config = filepath.Join(dir, step.Config)
		}
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &script, nil
}

func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScript
	}
	for i, step := range s.Steps {
		if step.Preset != "" && step.Config != "" {
			return fmt.Errorf("step %d: preset and config are exclusive", i+1)
		}
		if step.Preset != "" && config.GetPreset(step.Preset) == nil {
			return fmt.Errorf("step %d: unknown preset %q", i+1, step.Preset)
		}
	}
	return nil
}

// Name is the label a step's run is reported and saved under.
func (s Step) Name(i int) string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Preset != "":
		return s.Preset
	default:
		return fmt.Sprintf("step-%d", i+1)
	}
}

// Resolve builds the step's scenario.
func (s Step) Resolve() (*config.Config, error) {
	base := config.DefaultConfig()
	switch {
	case s.Preset != "":
		base = config.GetPreset(s.Preset)
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		base = loaded
	}
	return optim.Apply(base, s.Set)
}

type StepResult struct {
	Name   string
	Config *config.Config
	Result *dynamo.Result
}

// RunScript executes the steps in order and stops at the first failure,
// returning the steps completed before it.
func RunScript(ctx context.Context, script *Script, reg *experiment.Registry, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		name := step.Name(i)
		log.Info("script step", zap.Int("step", i+1), zap.Int("of", len(script.Steps)), zap.String("name", name))

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp := experiment.New(cfg, experiment.WithLogger(log))
		if err := exp.Setup(reg); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: exp.Config(), Result: result})
	}

	return results, nil
}

// MonteCarloConfig perturbs scenario parameters uniformly by up to Spread
// either side of their base values.
type MonteCarloConfig struct {
	Trials int
	Spread map[string]float64
	// Seed zero draws from the clock.
	Seed int64
}

type Trial struct {
	ID      int
	Params  map[string]float64
	Final   body.Snapshot
	Metrics map[string]float64
	// Err is set when the trial diverged or failed to build.
	Err error
}

func (t Trial) Stable() bool { return t.Err == nil }

// RunMonteCarlo runs trials one after another. A trial that fails is
// recorded and the rest still run; only cancellation stops early.
func RunMonteCarlo(ctx context.Context, base *config.Config, reg *experiment.Registry, mc MonteCarloConfig) ([]Trial, error) {
	names := slices.Sorted(maps.Keys(mc.Spread))
	centre := make(map[string]float64, len(names))
	for _, name := range names {
		v, err := optim.Get(base, name)
		if err != nil {
			return nil, err
		}
		centre[name] = v
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	trials := make([]Trial, 0, mc.Trials)
	for id := 0; id < mc.Trials; id++ {
		params := make(map[string]float64, len(names))
		for _, name := range names {
			params[name] = centre[name] + (rng.Float64()-0.5)*2*mc.Spread[name]
		}

		trial := Trial{ID: id, Params: params}
		exp, err := optim.Scenario(base, reg)(params)
		if err == nil {
			var res *dynamo.Result
			res, err = exp.Run(ctx)
			if ctx.Err() != nil {
				return trials, ctx.Err()
			}
			if res != nil {
				trial.Final = res.Final()
				trial.Metrics = res.Metrics
			}
		}
		trial.Err = err
		trials = append(trials, trial)
	}
	return trials, nil
}

// Summary aggregates a set of trials. Means cover stable trials only.
type Summary struct {
	Trials   int
	Unstable int
	Mean     map[string]float64
	Worst    map[string]float64
}

func Summarize(trials []Trial) Summary {
	s := Summary{Trials: len(trials), Mean: map[string]float64{}, Worst: map[string]float64{}}
	counts := map[string]int{}
	for _, t := range trials {
		if !t.Stable() {
			s.Unstable++
			continue
		}
		for name, v := range t.Metrics {
			if math.IsNaN(v) {
				continue
			}
			s.Mean[name] += v
			counts[name]++
			if w, ok := s.Worst[name]; !ok || v > w {
				s.Worst[name] = v
			}
		}
	}
	for name, n := range counts {
		s.Mean[name] /= float64(n)
	}
	return s
}
