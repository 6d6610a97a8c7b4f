// Package experiment runs Monte Carlo comparisons of virtual landscapes
// generated under different service niche scenarios.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	vesn "github.com/drexrichards/virtual-es-niche"
	"github.com/drexrichards/virtual-es-niche/niche"
	"github.com/drexrichards/virtual-es-niche/store"
	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"gonum.org/v1/gonum/stat"
)

var ErrNoScenarios = errors.New("no scenarios to run")

// Record holds the service totals of one landscape.
type Record struct {
	Scenario     string
	Replicate    int // from 1
	SumS1, SumS2 float64
	Total        float64
	Distinct     int // unique grid cells sampled
}

// Summary aggregates the records of one scenario.
type Summary struct {
	Scenario           string
	Overlap            float64 // Schoener's D between the realized niches
	Correlation        float64 // Pearson r between the realized niches
	N                  int
	MeanS1, SdS1       float64
	MeanS2, SdS2       float64
	MeanTotal, SdTotal float64
}

type Result struct {
	Batch     string
	Records   []Record
	Summaries []Summary
}

// Experiment generates Replicates landscapes of LSize patches for every
// scenario. All scenarios share the generator seed, so replicate h is drawn
// from the same probability surface in every scenario and differences
// between scenarios come from the niches alone.
type Experiment struct {
	Gen        *vesn.Generator
	Scenarios  []Scenario
	LSize      int
	Replicates int

	Progress bool           // show a progress bar
	Archive  *store.Archive // optional, receives every landscape set
	Logger   *slog.Logger
}

// Run executes the experiment; ctx is checked between scenarios.
func (x *Experiment) Run(ctx context.Context) (*Result, error) {
	if len(x.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}
	seen := make(map[string]bool, len(x.Scenarios))
	for _, sc := range x.Scenarios {
		if sc.Name == "" || seen[sc.Name] {
			return nil, fmt.Errorf("scenario names must be unique and non-empty: %q", sc.Name)
		}
		seen[sc.Name] = true
	}

	res := &Result{Batch: uuid.NewString()}

	var bar *uiprogress.Bar
	if x.Progress {
		p := uiprogress.New()
		p.Start()
		defer p.Stop()
		bar = p.AddBar(len(x.Scenarios)).AppendCompleted().PrependElapsed()
	}

	for _, sc := range x.Scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := x.Gen.Domain(sc.Services, sc.Interactions)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		set, err := x.Gen.Generate(d, x.LSize, x.Replicates)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		if x.Archive != nil {
			if err := x.Archive.PutSet(res.Batch, sc.Name, set); err != nil {
				return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
		}

		recs := records(sc.Name, set)
		sum := summarize(sc.Name, recs)
		sum.Overlap, sum.Correlation = niche.Overlap(d.S1, d.S2), niche.Correlation(d.S1, d.S2)
		res.Records = append(res.Records, recs...)
		res.Summaries = append(res.Summaries, sum)

		if x.Logger != nil {
			x.Logger.Info("scenario complete", "batch", res.Batch, "scenario", sc.Name, "overlap", sum.Overlap, "mean_total", sum.MeanTotal)
		}
		if bar != nil {
			bar.Incr()
		}
	}
	return res, nil
}

// Summary returns the summary of the named scenario.
func (r *Result) Summary(name string) (Summary, bool) {
	for _, s := range r.Summaries {
		if s.Scenario == name {
			return s, true
		}
	}
	return Summary{}, false
}

func records(name string, set vesn.LandscapeSet) []Record {
	o := make([]Record, len(set))
	for h, l := range set {
		s1, s2 := l.Sums()
		o[h] = Record{
			Scenario:  name,
			Replicate: h + 1,
			SumS1:     s1,
			SumS2:     s2,
			Total:     s1 + s2,
			Distinct:  l.Distinct(),
		}
	}
	return o
}

func summarize(name string, recs []Record) Summary {
	s1, s2, tot := make([]float64, len(recs)), make([]float64, len(recs)), make([]float64, len(recs))
	for i, r := range recs {
		s1[i], s2[i], tot[i] = r.SumS1, r.SumS2, r.Total
	}
	ms := func(x []float64) (float64, float64) {
		m, sd := stat.MeanStdDev(x, nil)
		if len(x) < 2 || math.IsNaN(sd) {
			sd = 0.
		}
		return m, sd
	}
	o := Summary{Scenario: name, N: len(recs)}
	o.MeanS1, o.SdS1 = ms(s1)
	o.MeanS2, o.SdS2 = ms(s2)
	o.MeanTotal, o.SdTotal = ms(tot)
	return o
}
