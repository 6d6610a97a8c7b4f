package experiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// WriteCSV saves <batch>.replicates.csv and <batch>.summary.csv into dir.
func (r *Result) WriteCSV(dir string) (replicates, summary string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf(" Result.WriteCSV %v", err)
	}

	replicates = filepath.Join(dir, r.Batch+".replicates.csv")
	rows := [][]string{{"scenario", "replicate", "s1", "s2", "total", "distinct"}}
	for _, c := range r.Records {
		rows = append(rows, []string{c.Scenario, strconv.Itoa(c.Replicate), ftoa(c.SumS1), ftoa(c.SumS2), ftoa(c.Total), strconv.Itoa(c.Distinct)})
	}
	if err := writeCSV(replicates, rows); err != nil {
		return "", "", err
	}

	summary = filepath.Join(dir, r.Batch+".summary.csv")
	rows = [][]string{{"scenario", "overlap", "correlation", "n", "mean_s1", "sd_s1", "mean_s2", "sd_s2", "mean_total", "sd_total"}}
	for _, s := range r.Summaries {
		rows = append(rows, []string{s.Scenario, ftoa(s.Overlap), ftoa(s.Correlation), strconv.Itoa(s.N), ftoa(s.MeanS1), ftoa(s.SdS1), ftoa(s.MeanS2), ftoa(s.SdS2), ftoa(s.MeanTotal), ftoa(s.SdTotal)})
	}
	if err := writeCSV(summary, rows); err != nil {
		return "", "", err
	}
	return replicates, summary, nil
}

func writeCSV(fp string, rows [][]string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" writeCSV %v", err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf(" writeCSV %s: %v", fp, err)
	}
	return f.Close()
}
