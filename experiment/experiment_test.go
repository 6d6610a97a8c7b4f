package experiment

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	vesn "github.com/drexrichards/virtual-es-niche"
	"github.com/drexrichards/virtual-es-niche/store"
)

func newExperiment(seed uint64) *Experiment {
	return &Experiment{
		Gen:        vesn.NewGenerator(seed),
		Scenarios:  DefaultScenarios(),
		LSize:      30,
		Replicates: 8,
	}
}

func TestRunCounts(t *testing.T) {
	x := newExperiment(17)
	res, err := x.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Batch == "" {
		t.Fatalf("missing batch id")
	}
	if len(res.Records) != 3*8 || len(res.Summaries) != 3 {
		t.Fatalf("got %d records, %d summaries; want 24, 3", len(res.Records), len(res.Summaries))
	}
	for i, s := range res.Summaries {
		if s.Scenario != x.Scenarios[i].Name || s.N != 8 {
			t.Fatalf("summary %d: %+v", i, s)
		}
		if s.MeanS1 < 0 || s.MeanS2 < 0 || s.SdTotal < 0 {
			t.Fatalf("summary %d: negative moments %+v", i, s)
		}
	}
	for _, r := range res.Records {
		if r.Distinct < 1 || r.Distinct > 30 {
			t.Fatalf("record %+v: distinct cells out of range", r)
		}
		if r.Total != r.SumS1+r.SumS2 {
			t.Fatalf("record %+v: total mismatch", r)
		}
	}
}

func TestOverlapOrdering(t *testing.T) {
	res, err := newExperiment(3).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	high, _ := res.Summary("high")
	medium, _ := res.Summary("medium")
	low, ok := res.Summary("low")
	if !ok {
		t.Fatalf("missing low scenario")
	}
	if !(high.Overlap > medium.Overlap && medium.Overlap > low.Overlap) {
		t.Fatalf("overlaps not decreasing: %v, %v, %v", high.Overlap, medium.Overlap, low.Overlap)
	}
	if !(high.Correlation > low.Correlation) || high.Correlation > 1. || low.Correlation < -1. {
		t.Fatalf("correlations not decreasing: %v, %v", high.Correlation, low.Correlation)
	}
	if _, ok := res.Summary("none"); ok {
		t.Fatalf("found summary for unknown scenario")
	}
}

func TestRunSharesSurfacesAcrossScenarios(t *testing.T) {
	res, err := newExperiment(5).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// replicate h samples the same cells in every scenario
	for h := 0; h < 8; h++ {
		if a, b := res.Records[h].Distinct, res.Records[8+h].Distinct; a != b {
			t.Fatalf("replicate %d: %d vs %d distinct cells across scenarios", h+1, a, b)
		}
	}
}

func TestRunErrors(t *testing.T) {
	x := newExperiment(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := x.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}

	x.Scenarios = nil
	if _, err := x.Run(context.Background()); !errors.Is(err, ErrNoScenarios) {
		t.Fatalf("got %v, want ErrNoScenarios", err)
	}

	x.Scenarios = append(DefaultScenarios(), DefaultScenarios()[0])
	if _, err := x.Run(context.Background()); err == nil {
		t.Fatalf("expected duplicate scenario error")
	}

	x.Scenarios = DefaultScenarios()
	x.Replicates = 0
	if _, err := x.Run(context.Background()); !errors.Is(err, vesn.ErrInvalidSampleSize) {
		t.Fatalf("got %v, want ErrInvalidSampleSize", err)
	}
}

func TestRunArchiveAndCSV(t *testing.T) {
	dir := t.TempDir()
	a, err := store.Open(filepath.Join(dir, "archive"))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	x := newExperiment(9)
	x.Archive = a
	res, err := x.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	set, err := a.Landscapes(res.Batch, "medium")
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 8 || len(set[0]) != 30 {
		t.Fatalf("archived %d landscapes", len(set))
	}

	rfp, sfp, err := res.WriteCSV(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	for fp, want := range map[string]int{rfp: 1 + 24, sfp: 1 + 3} {
		f, err := os.Open(fp)
		if err != nil {
			t.Fatal(err)
		}
		rows, err := csv.NewReader(f).ReadAll()
		f.Close()
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != want {
			t.Fatalf("%s: %d rows, want %d", fp, len(rows), want)
		}
		if fp == sfp && rows[0][2] != "correlation" {
			t.Fatalf("summary header %v", rows[0])
		}
	}
}
