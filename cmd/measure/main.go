// Command measure times deletions followed by lookups on the trees of this
// module and on other ordered sets, reporting the mean and the standard
// deviation over a growing share of deleted keys.
package main

import (
	"fmt"
	"os"
	"testing"

	"github.com/g-m-twostay/go-ostree/Trees"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

func main() {
	testing.Init()

	var cfgPath string
	var keys, steps uint32
	var seed int64
	var verbose, quiet bool

	var cmdBench = &cobra.Command{
		Use:   "bench",
		Short: "Run the delete and query workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(log.DebugLevel)
				Trees.LogComponents("all")
			}
			w, err := LoadWorkload(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("keys") {
				w.Keys = keys
			}
			if cmd.Flags().Changed("steps") {
				w.Steps = steps
			}
			if cmd.Flags().Changed("seed") {
				w.Seed = seed
			}
			if err = w.Validate(); err != nil {
				return err
			}
			run(w, os.Stdout, quiet)
			return nil
		},
	}
	cmdBench.Flags().StringVarP(&cfgPath, "config", "c", "", "YAML workload file")
	cmdBench.Flags().Uint32Var(&keys, "keys", 0, "number of keys, overrides the workload")
	cmdBench.Flags().Uint32Var(&steps, "steps", 0, "number of steps, overrides the workload")
	cmdBench.Flags().Int64Var(&seed, "seed", 0, "random seed, overrides the workload")
	cmdBench.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every step")
	cmdBench.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")

	var cmdVersion = &cobra.Command{
		Use:   "version",
		Short: "Print measure version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	var rootCmd = &cobra.Command{
		Use:           "measure",
		Version:       version,
		Short:         "Benchmark order statistic trees against other ordered sets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(cmdBench, cmdVersion)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
