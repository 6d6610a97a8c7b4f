// Package config loads run settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	vesn "github.com/drexrichards/virtual-es-niche"
	"github.com/drexrichards/virtual-es-niche/experiment"
	"github.com/drexrichards/virtual-es-niche/niche"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

var (
	ErrFormat  = errors.New("unsupported configuration format")
	ErrInvalid = errors.New("invalid configuration")
)

type Config struct {
	Grid         Grid        `toml:"grid" yaml:"grid"`
	Generator    Generator   `toml:"generator" yaml:"generator"`
	Services     []Service   `toml:"service" yaml:"services"`
	Interactions [][]float64 `toml:"interactions" yaml:"interactions"`
	Experiment   Experiment  `toml:"experiment" yaml:"experiment"`
	Map          Map         `toml:"map" yaml:"map"`
}

type Grid struct {
	Min     []float64 `toml:"min" yaml:"min"`
	Max     []float64 `toml:"max" yaml:"max"`
	NCoords int       `toml:"ncoords" yaml:"ncoords"`
}

type Generator struct {
	LSize   int    `toml:"lsize" yaml:"lsize"`
	GenSize int    `toml:"gensize" yaml:"gensize"`
	Seed    int64  `toml:"seed" yaml:"seed"` // 0 draws a seed from the clock
	Workers int    `toml:"workers" yaml:"workers"`
	Modes   int    `toml:"modes" yaml:"modes"` // 0 draws 1 to 4 per surface
	Output  string `toml:"output" yaml:"output"`
}

// Service is a niche: peak, optimum (e1, e2), variances along each axis and
// their covariance.
type Service struct {
	Peak       float64   `toml:"peak" yaml:"peak"`
	Optimum    []float64 `toml:"optimum" yaml:"optimum"`
	Variance   []float64 `toml:"variance" yaml:"variance"`
	Covariance float64   `toml:"covariance" yaml:"covariance"`
}

type Scenario struct {
	Name         string      `toml:"name" yaml:"name"`
	Services     []Service   `toml:"service" yaml:"services"`
	Interactions [][]float64 `toml:"interactions" yaml:"interactions"`
}

type Experiment struct {
	Replicates int        `toml:"replicates" yaml:"replicates"`
	LSize      int        `toml:"lsize" yaml:"lsize"`
	OutDir     string     `toml:"outdir" yaml:"outdir"`
	Archive    string     `toml:"archive" yaml:"archive"` // leveldb directory, optional
	Scenarios  []Scenario `toml:"scenario" yaml:"scenarios"`
}

type Map struct {
	E1        string `toml:"e1" yaml:"e1"`
	E2        string `toml:"e2" yaml:"e2"`
	GDEF      string `toml:"gdef" yaml:"gdef"` // optional grid both rasters must match
	OutPrefix string `toml:"outprefix" yaml:"outprefix"`
	Rescale   bool   `toml:"rescale" yaml:"rescale"`
}

// Default returns the settings of the reference run: an 11x11 unit grid, 50
// patches per landscape and two overlapping services.
func Default() *Config {
	return &Config{
		Grid: Grid{
			Min:     []float64{0., 0.},
			Max:     []float64{1., 1.},
			NCoords: vesn.DefaultNCoords,
		},
		Generator: Generator{
			LSize:   50,
			GenSize: 1,
			Output:  "landscapes.csv",
		},
		Services: []Service{
			{Peak: 1., Optimum: []float64{.4, .5}, Variance: []float64{.02, .02}},
			{Peak: 1., Optimum: []float64{.6, .5}, Variance: []float64{.02, .02}},
		},
		Interactions: [][]float64{{0., -.2}, {-.2, 0.}},
		Experiment: Experiment{
			Replicates: 100,
			LSize:      50,
			OutDir:     "out",
		},
		Map: Map{
			OutPrefix: "service",
			Rescale:   true,
		},
	}
}

// Load reads fp over the defaults; the format follows the file extension.
func Load(fp string) (*Config, error) {
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %v", err)
	}
	c := Default()
	switch strings.ToLower(filepath.Ext(fp)) {
	case ".toml":
		err = toml.Unmarshal(b, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, fp)
	}
	if err != nil {
		return nil, fmt.Errorf("config.Load %s: %v", fp, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, a...))
}

// Validate checks the settings that do not depend on the grid itself.
func (c *Config) Validate() error {
	if len(c.Grid.Min) != 2 || len(c.Grid.Max) != 2 {
		return invalid("grid bounds need two values each")
	}
	g := c.Generator
	if g.LSize <= 0 || g.GenSize <= 0 {
		return invalid("lsize and gensize must be positive")
	}
	if g.Seed < 0 || g.Workers < 0 {
		return invalid("seed and workers must not be negative")
	}
	if g.Modes < 0 || g.Modes > 4 {
		return invalid("modes must be 0 to 4")
	}
	if _, err := specs(c.Services); err != nil {
		return err
	}
	if _, err := interactionMatrix(c.Interactions); err != nil {
		return err
	}
	x := c.Experiment
	if x.Replicates <= 0 || x.LSize <= 0 {
		return invalid("experiment replicates and lsize must be positive")
	}
	for i, sc := range x.Scenarios {
		if sc.Name == "" {
			return invalid("scenario %d has no name", i+1)
		}
		if _, err := specs(sc.Services); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		if _, err := interactionMatrix(sc.Interactions); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	return nil
}

// Spec converts s to a niche specification.
func (s Service) Spec() (niche.Spec, error) {
	if len(s.Optimum) != 2 || len(s.Variance) != 2 {
		return niche.Spec{}, invalid("service optimum and variance need two values each")
	}
	sp := niche.NewSpec(s.Peak, mgl64.Vec2{s.Optimum[0], s.Optimum[1]}, s.Variance[0], s.Variance[1], s.Covariance)
	if err := sp.Validate(); err != nil {
		return niche.Spec{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return sp, nil
}

func specs(ss []Service) ([2]niche.Spec, error) {
	var o [2]niche.Spec
	if len(ss) != 2 {
		return o, invalid("exactly two services required, found %d", len(ss))
	}
	for i, s := range ss {
		sp, err := s.Spec()
		if err != nil {
			return o, fmt.Errorf("service %d: %w", i+1, err)
		}
		o[i] = sp
	}
	return o, nil
}

func interactionMatrix(a [][]float64) (mat.Matrix, error) {
	if len(a) == 0 {
		return nil, nil
	}
	if len(a) != 2 || len(a[0]) != 2 || len(a[1]) != 2 {
		return nil, invalid("interactions must be a 2x2 matrix")
	}
	return mat.NewDense(2, 2, []float64{a[0][0], a[0][1], a[1][0], a[1][1]}), nil
}

// Specs returns the two service niches.
func (c *Config) Specs() ([2]niche.Spec, error) { return specs(c.Services) }

// InteractionMatrix returns the service interactions, nil when none are set.
func (c *Config) InteractionMatrix() (mat.Matrix, error) { return interactionMatrix(c.Interactions) }

// NewGenerator builds a landscape generator from the grid and generator
// sections; seed overrides the configured seed.
func (c *Config) NewGenerator(seed uint64) *vesn.Generator {
	g := vesn.NewGenerator(seed)
	g.Min = mgl64.Vec2{c.Grid.Min[0], c.Grid.Min[1]}
	g.Max = mgl64.Vec2{c.Grid.Max[0], c.Grid.Max[1]}
	g.NCoords = c.Grid.NCoords
	g.Workers = c.Generator.Workers
	g.Surface = vesn.SurfaceOptions{Modes: c.Generator.Modes}
	return g
}

// Scenarios returns the configured scenarios, or the default overlap
// gradient when none are set.
func (c *Config) Scenarios() ([]experiment.Scenario, error) {
	if len(c.Experiment.Scenarios) == 0 {
		return experiment.DefaultScenarios(), nil
	}
	o := make([]experiment.Scenario, len(c.Experiment.Scenarios))
	for i, sc := range c.Experiment.Scenarios {
		sp, err := specs(sc.Services)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		a, err := interactionMatrix(sc.Interactions)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		o[i] = experiment.Scenario{Name: sc.Name, Services: sp, Interactions: a}
	}
	return o, nil
}
