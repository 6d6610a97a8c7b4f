package main

import "testing"

func TestSuggest(t *testing.T) {
	names := commandNames()
	tests := []struct {
		in, want string
	}{
		{"generate", "generate"},
		{"genrate", "generate"},
		{"surfce", "surface"},
		{"experimnt", "experiment"},
		{"mpa", "map"},
		{"nap", "map"},
		{"xyzzy", ""},
	}
	for _, tt := range tests {
		if got := suggest(tt.in, names); got != tt.want {
			t.Fatalf("suggest(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSuggestTies(t *testing.T) {
	// "bat" is one edit from both; the name sorting first wins
	if got := suggest("bat", []string{"cat", "bar"}); got != "bar" {
		t.Fatalf("got %q, want %q", got, "bar")
	}
	if got := suggest("abcd", []string{"wxyz"}); got != "" {
		t.Fatalf("distance 4 suggested %q", got)
	}
}

func TestCommandsReturnErrors(t *testing.T) {
	if err := overlay(nil); err == nil {
		t.Fatalf("map without rasters succeeded")
	}
	if err := generate([]string{"-lsize", "-1"}); err == nil {
		t.Fatalf("generate with negative lsize succeeded")
	}
	if err := runExperiment([]string{"-replicates", "0"}); err == nil {
		t.Fatalf("experiment with no replicates succeeded")
	}
}
