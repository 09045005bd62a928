//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline groups the targets that run primer-sieve stages over the
// project directories created by Init.
type Pipeline mg.Namespace

func bin() string { return filepath.Join(binDir, binName) }

// env returns the value of name or def when it is unset.
func env(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// Designs converts Primer3 output (PRIMER3_OUT) to design JSON and primer
// FASTA under data/primer3.
func (Pipeline) Designs() error {
	mg.Deps(Build, Init)
	in := env("PRIMER3_OUT", "data/primer3/primer3.out")
	if err := sh.RunV(bin(), "primer3", in, "--format", "json", "-o", "data/primer3/primers.json"); err != nil {
		return err
	}
	return sh.RunV(bin(), "primer3", in, "--format", "fasta", "-o", "data/primer3/primers.fa")
}

// Survive evaluates the designs against the BLAST report (BLAST_REPORT).
// Every file in data/discard is passed as a namelist.
func (Pipeline) Survive() error {
	mg.Deps(Build, Init)
	args := []string{"survive",
		"data/primer3/primers.fa",
		env("BLAST_REPORT", "data/blast/primers.blast.tsv"),
		"data/primer3/primers.json",
		"-o", env("OUTPUT_PREFIX", "output/survivors/final_result"),
	}
	discards, err := filepath.Glob("data/discard/*.txt")
	if err != nil {
		return err
	}
	for _, d := range discards {
		args = append(args, "--discard", d)
	}
	return sh.RunV(bin(), args...)
}

// Reduce merges the survivors of the last Survive run into groups and
// mutually safe group pairs under output/groups.
func (Pipeline) Reduce() error {
	mg.Deps(Build)
	table := env("OUTPUT_PREFIX", "output/survivors/final_result") + ".survivor.tsv"
	if err := sh.RunV(bin(), "reduce", table, "-o", "output/groups/groups.txt"); err != nil {
		return err
	}
	if err := sh.RunV(bin(), "reduce", table, "--safe-pairs", "-o", "output/groups/safe_pairs.txt"); err != nil {
		return err
	}
	fmt.Println("Wrote output/groups/groups.txt and output/groups/safe_pairs.txt")
	return nil
}

// All runs Designs, Survive and Reduce in order.
func (Pipeline) All() {
	mg.SerialDeps(Pipeline.Designs, Pipeline.Survive, Pipeline.Reduce)
}
