package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drexrichards/virtual-es-niche/niche"
)

const tomlConfig = `
[grid]
ncoords = 49

[generator]
lsize = 20
gensize = 3
seed = 77
workers = 2
modes = 2

[[service]]
peak = 2.0
optimum = [0.3, 0.3]
variance = [0.05, 0.02]
covariance = 0.01

[[service]]
peak = 1.0
optimum = [0.7, 0.7]
variance = [0.03, 0.03]

[experiment]
replicates = 5

[[experiment.scenario]]
name = "near"
interactions = [[0.0, 0.1], [0.0, 0.0]]

  [[experiment.scenario.service]]
  peak = 1.0
  optimum = [0.5, 0.5]
  variance = [0.02, 0.02]

  [[experiment.scenario.service]]
  peak = 1.0
  optimum = [0.55, 0.5]
  variance = [0.02, 0.02]
`

const yamlConfig = `
grid:
  ncoords: 81
generator:
  lsize: 10
  gensize: 4
services:
  - peak: 1.5
    optimum: [0.2, 0.8]
    variance: [0.04, 0.04]
  - peak: 1.0
    optimum: [0.8, 0.2]
    variance: [0.04, 0.04]
interactions: []
map:
  e1: dem.bil
  e2: slope.bil
  gdef: layers.gdef
  rescale: false
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fp, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fp
}

func TestDefaultValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	sc, err := c.Scenarios()
	if err != nil {
		t.Fatal(err)
	}
	if len(sc) != 3 {
		t.Fatalf("got %d default scenarios, want 3", len(sc))
	}
	g := c.NewGenerator(4)
	if g.NCoords != 121 || g.Seed != 4 || g.Max[0] != 1. {
		t.Fatalf("generator %+v", g)
	}
}

func TestLoadTOML(t *testing.T) {
	c, err := Load(write(t, "run.toml", tomlConfig))
	if err != nil {
		t.Fatal(err)
	}
	if c.Grid.NCoords != 49 || len(c.Grid.Min) != 2 {
		t.Fatalf("grid %+v", c.Grid)
	}
	if g := c.Generator; g.LSize != 20 || g.GenSize != 3 || g.Seed != 77 || g.Workers != 2 || g.Modes != 2 {
		t.Fatalf("generator %+v", g)
	}
	// unset keys keep their defaults
	if c.Experiment.LSize != 50 || c.Experiment.Replicates != 5 || c.Map.OutPrefix != "service" {
		t.Fatalf("experiment %+v, map %+v", c.Experiment, c.Map)
	}

	sp, err := c.Specs()
	if err != nil {
		t.Fatal(err)
	}
	if sp[0].Peak != 2. || sp[0].Cov[0] != .05 || sp[0].Cov[3] != .02 || sp[0].Cov[1] != .01 {
		t.Fatalf("service 1 %+v", sp[0])
	}

	sc, err := c.Scenarios()
	if err != nil {
		t.Fatal(err)
	}
	if len(sc) != 1 || sc[0].Name != "near" || sc[0].Services[1].Optimum[0] != .55 {
		t.Fatalf("scenarios %+v", sc)
	}
	if v := sc[0].Interactions.At(0, 1); v != .1 {
		t.Fatalf("scenario interaction %v, want 0.1", v)
	}

	g := c.NewGenerator(uint64(c.Generator.Seed))
	if g.NCoords != 49 || g.Workers != 2 || g.Surface.Modes != 2 {
		t.Fatalf("generator %+v", g)
	}
	if _, err := g.GenerateLandscapes(c.Generator.LSize, c.Generator.GenSize, sp, nil); err != nil {
		t.Fatal(err)
	}
}

func TestLoadYAML(t *testing.T) {
	c, err := Load(write(t, "run.yml", yamlConfig))
	if err != nil {
		t.Fatal(err)
	}
	if c.Grid.NCoords != 81 || c.Generator.LSize != 10 || c.Generator.GenSize != 4 {
		t.Fatalf("config %+v", c)
	}
	if c.Map.E1 != "dem.bil" || c.Map.GDEF != "layers.gdef" || c.Map.Rescale {
		t.Fatalf("map %+v", c.Map)
	}
	a, err := c.InteractionMatrix()
	if err != nil {
		t.Fatal(err)
	}
	if a != nil {
		t.Fatalf("empty interactions gave %v", a)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(write(t, "run.json", "{}")); !errors.Is(err, ErrFormat) {
		t.Fatalf("got %v, want ErrFormat", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(write(t, "bad.toml", "[generator\nlsize = ")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"grid bounds", func(c *Config) { c.Grid.Min = []float64{0} }},
		{"lsize", func(c *Config) { c.Generator.LSize = 0 }},
		{"gensize", func(c *Config) { c.Generator.GenSize = -2 }},
		{"seed", func(c *Config) { c.Generator.Seed = -1 }},
		{"modes", func(c *Config) { c.Generator.Modes = 5 }},
		{"one service", func(c *Config) { c.Services = c.Services[:1] }},
		{"optimum", func(c *Config) { c.Services[0].Optimum = []float64{.5} }},
		{"variance", func(c *Config) { c.Services[1].Variance = []float64{.1, 0.} }},
		{"interactions", func(c *Config) { c.Interactions = [][]float64{{0, 1, 2}} }},
		{"replicates", func(c *Config) { c.Experiment.Replicates = 0 }},
		{"unnamed scenario", func(c *Config) { c.Experiment.Scenarios = []Scenario{{Services: c.Services}} }},
	}
	for _, tt := range tests {
		c := Default()
		tt.mod(c)
		if err := c.Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: got %v, want ErrInvalid", tt.name, err)
		}
	}

	c := Default()
	c.Services[0].Peak = 0.
	if err := c.Validate(); !errors.Is(err, niche.ErrInvalidSpec) {
		t.Fatalf("got %v, want wrapped ErrInvalidSpec", err)
	}
}
