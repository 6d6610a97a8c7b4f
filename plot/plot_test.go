package plot

import (
	"bytes"
	"errors"
	"testing"

	vesn "github.com/drexrichards/virtual-es-niche"
	"github.com/drexrichards/virtual-es-niche/experiment"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestLandscapePNG(t *testing.T) {
	l := vesn.Landscape{
		{Probability: 1., S1: .4, S2: .1, E1: .5, E2: .5},
		{Probability: .2, S1: .1, S2: .3, E1: .1, E2: .9},
		{Probability: 0., S1: 0., S2: 0., E1: 1., E2: 1.},
	}
	s := Scatter(l)
	if len(s.XValues) != 3 || s.XValues[1] != .1 || s.YValues[1] != .9 {
		t.Fatalf("scatter values %v %v", s.XValues, s.YValues)
	}

	var buf bytes.Buffer
	if err := Landscape(&buf, l, "replicate 1"); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Fatalf("output is not a PNG")
	}
	if err := Landscape(&buf, nil, ""); !errors.Is(err, ErrEmpty) {
		t.Fatalf("got %v, want ErrEmpty", err)
	}
}

func TestExperimentPNG(t *testing.T) {
	sums := []experiment.Summary{
		{Scenario: "high", MeanTotal: 12.5},
		{Scenario: "low", MeanTotal: 9.},
	}
	b := Bars(sums)
	if len(b) != 2 || b[0].Label != "high" || b[1].Value != 9. {
		t.Fatalf("bars %+v", b)
	}

	var buf bytes.Buffer
	if err := Experiment(&buf, sums); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Fatalf("output is not a PNG")
	}

	// all-zero totals still render
	buf.Reset()
	if err := Experiment(&buf, []experiment.Summary{{Scenario: "none"}}); err != nil {
		t.Fatal(err)
	}
	if err := Experiment(&buf, nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("got %v, want ErrEmpty", err)
	}
}
