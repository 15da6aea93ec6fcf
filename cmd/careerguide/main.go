// Package main is the careerguide CLI: offline evaluation of the eligibility
// engine against fixture files, for checking policy changes before they ship.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "careerguide",
		Short: "Evaluate CareerGuide eligibility rules against fixture files",
		Long: `careerguide runs the eligibility and matching engine offline. A fixture
file (YAML or JSON) describes one learner together with programs, jobs and
existing applications; each subcommand evaluates one rule and prints JSON.
The registry subcommand checks the activity registry the workers load.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("fixture", "f", "", "fixture file (YAML or JSON)")
	root.PersistentFlags().Bool("strict", false, "reject fixtures with malformed records")

	root.AddCommand(
		newQualifyCmd(),
		newScoreCmd(),
		newRecommendCmd(),
		newCanApplyCmd(),
		newRegistryCmd(),
	)
	return root
}

// fixtureFrom loads the fixture named by the persistent flags.
func fixtureFrom(cmd *cobra.Command) (*Fixture, error) {
	path, _ := cmd.Flags().GetString("fixture")
	strict, _ := cmd.Flags().GetBool("strict")

	f, err := LoadFixture(path)
	if err != nil {
		return nil, err
	}
	if strict {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
