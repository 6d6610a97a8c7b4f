package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	vesn "github.com/drexrichards/virtual-es-niche"
	"github.com/drexrichards/virtual-es-niche/config"
	"github.com/drexrichards/virtual-es-niche/experiment"
	"github.com/drexrichards/virtual-es-niche/grid"
	"github.com/drexrichards/virtual-es-niche/plot"
	"github.com/drexrichards/virtual-es-niche/realmap"
	"github.com/drexrichards/virtual-es-niche/store"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var commands = map[string]func(args []string) error{
	"generate":   generate,
	"surface":    surface,
	"experiment": runExperiment,
	"map":        overlay,
}

var p = message.NewPrinter(language.English)

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: vesn <%s> [flags]\n", strings.Join(commandNames(), "|"))
}

// suggest returns the name closest to s within an edit distance of 3, ties
// going to the name sorting first; "" when none is that close.
func suggest(s string, names []string) string {
	best, bd := "", 4
	for _, n := range names {
		d := levenshtein.ComputeDistance(s, n)
		if d < bd || (d == bd && best != "" && n < best) {
			best, bd = n, d
		}
	}
	return best
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		if s := suggest(os.Args[1], commandNames()); s != "" {
			fmt.Fprintf(os.Stderr, "unknown command %q, did you mean %q?\n", os.Args[1], s)
		} else {
			fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		}
		usage()
		os.Exit(2)
	}

	fmt.Println("")
	tt := newTimer()
	if err := cmd(os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
	tt.Print(fmt.Sprintf("\n%s complete. n processes: %v", os.Args[1], runtime.GOMAXPROCS(0)))
}

// common holds the flags shared by every command.
type common struct {
	fs      *flag.FlagSet
	cfg     *string
	seed    *int64
	verbose *bool
}

func newCommon(name string) *common {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &common{
		fs:      fs,
		cfg:     fs.String("config", "", "TOML or YAML configuration file"),
		seed:    fs.Int64("seed", 0, "random seed, 0 draws one from the clock"),
		verbose: fs.Bool("v", false, "log replicate detail"),
	}
}

// load parses args, reads the configuration and applies the flags that were
// set on the command line through set.
func (c *common) load(args []string, set func(*config.Config, string)) (*config.Config, error) {
	c.fs.Parse(args)
	cfg := config.Default()
	if *c.cfg != "" {
		var err error
		if cfg, err = config.Load(*c.cfg); err != nil {
			return nil, err
		}
	}
	c.fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Generator.Seed = *c.seed
		} else if set != nil {
			set(cfg, f.Name)
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Generator.Seed == 0 {
		cfg.Generator.Seed = time.Now().UnixNano() & (1<<62 - 1)
	}
	fmt.Printf(" seed: %d\n", cfg.Generator.Seed)
	return cfg, nil
}

func (c *common) generator(cfg *config.Config) *vesn.Generator {
	g := cfg.NewGenerator(uint64(cfg.Generator.Seed))
	if *c.verbose {
		g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return g
}

func generate(args []string) error {
	c := newCommon("generate")
	lsize := c.fs.Int("lsize", 0, "patches per landscape")
	gensize := c.fs.Int("gensize", 0, "number of landscapes")
	workers := c.fs.Int("workers", 0, "replicates built concurrently")
	out := c.fs.String("o", "", "output file (.csv or .gob)")
	png := c.fs.String("png", "", "scatter plot of the first landscape")
	cfg, err := c.load(args, func(cfg *config.Config, name string) {
		switch name {
		case "lsize":
			cfg.Generator.LSize = *lsize
		case "gensize":
			cfg.Generator.GenSize = *gensize
		case "workers":
			cfg.Generator.Workers = *workers
		case "o":
			cfg.Generator.Output = *out
		}
	})
	if err != nil {
		return err
	}

	sp, err := cfg.Specs()
	if err != nil {
		return err
	}
	inter, err := cfg.InteractionMatrix()
	if err != nil {
		return err
	}
	tt := newTimer()
	set, err := c.generator(cfg).GenerateLandscapes(cfg.Generator.LSize, cfg.Generator.GenSize, sp, inter)
	if err != nil {
		return err
	}
	tt.Lap(p.Sprintf(" %d landscapes of %d patches generated", len(set), cfg.Generator.LSize))

	fp := cfg.Generator.Output
	switch strings.ToLower(filepath.Ext(fp)) {
	case ".gob":
		err = set.SaveGob(fp)
	default:
		err = set.SaveCSV(fp)
	}
	if err != nil {
		return err
	}
	fmt.Printf(" saved to %s\n", fp)

	if *png != "" {
		if err := savePNG(*png, func(f *os.File) error { return plot.Landscape(f, set[0], "replicate 1") }); err != nil {
			return err
		}
	}
	return nil
}

func savePNG(fp string, render func(*os.File) error) error {
	f, err := os.Create(fp)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func surface(args []string) error {
	c := newCommon("surface")
	modes := c.fs.Int("modes", 0, "fixed number of kernels, 0 draws 1 to 4")
	out := c.fs.String("o", "surface.bil", "output raster")
	cfg, err := c.load(args, func(cfg *config.Config, name string) {
		if name == "modes" {
			cfg.Generator.Modes = *modes
		}
	})
	if err != nil {
		return err
	}

	g := c.generator(cfg)
	sp, err := cfg.Specs()
	if err != nil {
		return err
	}
	d, err := g.Domain(sp, nil)
	if err != nil {
		return err
	}
	s, err := d.Surface(vesn.ReplicateSource(g.Seed, 0), g.Surface)
	if err != nil {
		return err
	}
	if err := s.WriteBil(*out, d.Env); err != nil {
		return err
	}
	for i, k := range s.Kernels {
		fmt.Printf(" kernel %d: centre (%.3f, %.3f) sigma %.5f\n", i+1, k.Centre[0], k.Centre[1], k.Sigma)
	}
	fmt.Printf(" %dx%d surface saved to %s\n", d.Env.N, d.Env.N, *out)
	return nil
}

func runExperiment(args []string) error {
	c := newCommon("experiment")
	replicates := c.fs.Int("replicates", 0, "landscapes per scenario")
	lsize := c.fs.Int("lsize", 0, "patches per landscape")
	workers := c.fs.Int("workers", 0, "replicates built concurrently")
	outdir := c.fs.String("outdir", "", "output directory")
	archive := c.fs.String("archive", "", "leveldb archive directory")
	cfg, err := c.load(args, func(cfg *config.Config, name string) {
		switch name {
		case "replicates":
			cfg.Experiment.Replicates = *replicates
		case "lsize":
			cfg.Experiment.LSize = *lsize
		case "workers":
			cfg.Generator.Workers = *workers
		case "outdir":
			cfg.Experiment.OutDir = *outdir
		case "archive":
			cfg.Experiment.Archive = *archive
		}
	})
	if err != nil {
		return err
	}

	sc, err := cfg.Scenarios()
	if err != nil {
		return err
	}
	x := &experiment.Experiment{
		Gen:        c.generator(cfg),
		Scenarios:  sc,
		LSize:      cfg.Experiment.LSize,
		Replicates: cfg.Experiment.Replicates,
		Progress:   true,
	}
	if cfg.Experiment.Archive != "" {
		a, err := store.Open(cfg.Experiment.Archive)
		if err != nil {
			return err
		}
		defer a.Close()
		x.Archive = a
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	tt := newTimer()
	res, err := x.Run(ctx)
	if err != nil {
		return err
	}
	tt.Lap(p.Sprintf(" batch %s: %d landscapes over %d scenarios", res.Batch, len(res.Records), len(sc)))

	for _, s := range res.Summaries {
		fmt.Printf(" %-10s overlap %.3f r %6.3f  s1 %8.3f ±%6.3f  s2 %8.3f ±%6.3f  total %8.3f ±%6.3f\n",
			s.Scenario, s.Overlap, s.Correlation, s.MeanS1, s.SdS1, s.MeanS2, s.SdS2, s.MeanTotal, s.SdTotal)
	}

	rfp, sfp, err := res.WriteCSV(cfg.Experiment.OutDir)
	if err != nil {
		return err
	}
	pfp := filepath.Join(cfg.Experiment.OutDir, res.Batch+".png")
	if err := savePNG(pfp, func(f *os.File) error { return plot.Experiment(f, res.Summaries) }); err != nil {
		return err
	}
	fmt.Printf(" saved %s\n       %s\n       %s\n", rfp, sfp, pfp)
	return nil
}

func overlay(args []string) error {
	c := newCommon("map")
	e1 := c.fs.String("e1", "", "first environmental raster (.bil)")
	e2 := c.fs.String("e2", "", "second environmental raster (.bil)")
	gdef := c.fs.String("gdef", "", "grid definition both rasters must match")
	prefix := c.fs.String("prefix", "", "output prefix")
	rescale := c.fs.Bool("rescale", true, "rescale each raster to [0,1]")
	cfg, err := c.load(args, func(cfg *config.Config, name string) {
		switch name {
		case "e1":
			cfg.Map.E1 = *e1
		case "e2":
			cfg.Map.E2 = *e2
		case "gdef":
			cfg.Map.GDEF = *gdef
		case "prefix":
			cfg.Map.OutPrefix = *prefix
		case "rescale":
			cfg.Map.Rescale = *rescale
		}
	})
	if err != nil {
		return err
	}
	if cfg.Map.E1 == "" || cfg.Map.E2 == "" {
		return fmt.Errorf("both -e1 and -e2 rasters are required")
	}

	r1, err := grid.ReadBil(cfg.Map.E1)
	if err != nil {
		return err
	}
	r2, err := grid.ReadBil(cfg.Map.E2)
	if err != nil {
		return err
	}
	if cfg.Map.GDEF != "" {
		def, err := grid.ReadGDEF(cfg.Map.GDEF)
		if err != nil {
			return err
		}
		if err := realmap.CheckDefinition(*def, r1, r2); err != nil {
			return err
		}
	}
	sp, err := cfg.Specs()
	if err != nil {
		return err
	}
	inter, err := cfg.InteractionMatrix()
	if err != nil {
		return err
	}
	out, err := realmap.Apply(r1, r2, sp[:], inter, cfg.Map.Rescale)
	if err != nil {
		return err
	}
	for i, r := range out {
		fp := fmt.Sprintf("%s.s%d.bil", cfg.Map.OutPrefix, i+1)
		if err := grid.WriteBil(fp, r); err != nil {
			return err
		}
		fmt.Println(p.Sprintf(" %d cells written to %s", r.Def.Ncells(), fp))
	}
	return nil
}
