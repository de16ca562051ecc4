// Oscap - OpenSwitch capability inspector
//
// A companion tool for the topology-openswitch node library. It loads a
// capability profile (the YAML form of the device class hierarchy) and
// answers the questions the attribute mechanism answers at runtime:
//
//	oscap -p profile.yaml classes                 # class hierarchy tree
//	oscap -p profile.yaml describe OpenSwitch8320 # effective capabilities
//	oscap -p profile.yaml resolve Vsim fan_speed  # who declares fan_speed?
//	oscap probe 10.0.0.5 -u root                  # live set-prompt probe
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HPENetworking/topology-openswitch/pkg/attributes"
	"github.com/HPENetworking/topology-openswitch/pkg/openswitch"
	"github.com/HPENetworking/topology-openswitch/pkg/util"
	"github.com/HPENetworking/topology-openswitch/pkg/version"
)

var (
	verboseFlag bool
	profileFlag string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oscap",
		Short: "Inspect OpenSwitch capability profiles",
		Long: `Oscap inspects the device class hierarchy of the topology-openswitch
node library.

Device classes declare capability attributes; subclasses inherit them. When a
test reaches for an attribute its node class does not carry, the library
reports which sibling class does carry it. Oscap answers the same questions
offline, from a capability profile file, before any topology is brought up.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verboseFlag {
				return util.SetLogLevel("debug")
			}
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	}

	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "Capability profile file (YAML)")

	rootCmd.AddCommand(
		newClassesCmd(),
		newDescribeCmd(),
		newResolveCmd(),
		newProbeCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("oscap %s\n", version.Info())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadHierarchy builds a fresh hierarchy from the --profile flag.
func loadHierarchy() (*attributes.Hierarchy, error) {
	if profileFlag == "" {
		return nil, errors.New("--profile is required")
	}
	p, err := openswitch.ParseProfile(profileFlag)
	if err != nil {
		return nil, err
	}
	h := attributes.New("OpenSwitch")
	if err := p.Apply(h); err != nil {
		return nil, err
	}
	return h, nil
}
