package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/g-m-twostay/go-ostree/Trees"
	"gopkg.in/yaml.v3"
)

// Workload describes one measuring run. Every step deletes a growing share of
// the keys and then queries the rest, like BenchmarkDelQry.
type Workload struct {
	Keys      uint32          `yaml:"keys"`
	Steps     uint32          `yaml:"steps"`
	Seed      int64           `yaml:"seed"`
	Balances  []Trees.Balance `yaml:"balances"`
	Baselines []string        `yaml:"baselines"`
}

var baselineNames = []string{"llrb", "btree", "gods"}

func DefaultWorkload() Workload {
	return Workload{
		Keys:      1000000,
		Steps:     50,
		Balances:  []Trees.Balance{Trees.AVL, Trees.RedBlack, Trees.AA},
		Baselines: baselineNames,
	}
}

// LoadWorkload reads path over the defaults. A missing file gives the defaults.
func LoadWorkload(path string) (Workload, error) {
	w := DefaultWorkload()
	if path == "" {
		return w, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return w, nil
	} else if err != nil {
		return w, fmt.Errorf("failed to read workload: %w", err)
	}
	if err = yaml.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("failed to parse workload %s: %w", path, err)
	}
	return w, w.Validate()
}

func (w Workload) Validate() error {
	if w.Steps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", w.Steps)
	}
	if w.Keys < w.Steps {
		return fmt.Errorf("%d keys can't be split in %d steps", w.Keys, w.Steps)
	}
	if len(w.Balances) == 0 && len(w.Baselines) == 0 {
		return errors.New("nothing to measure")
	}
outer:
	for _, b := range w.Baselines {
		for _, name := range baselineNames {
			if b == name {
				continue outer
			}
		}
		return fmt.Errorf("unknown baseline %q", b)
	}
	return nil
}
