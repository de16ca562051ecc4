package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HPENetworking/topology-openswitch/pkg/attributes"
	"github.com/HPENetworking/topology-openswitch/pkg/cli"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <class>",
		Short: "Show a class's effective capability set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHierarchy()
			if err != nil {
				return err
			}
			class, ok := h.Lookup(args[0])
			if !ok {
				return fmt.Errorf("class %s not found in profile", args[0])
			}

			table := cli.NewTable(os.Stdout, "CAPABILITY", "DECLARED IN", "DESCRIPTION")
			for _, cap := range class.Capabilities() {
				table.Row(cap.Name, declaringAncestor(class, cap.Name), cap.Description)
			}
			table.Flush()
			return nil
		},
	}
}

// declaringAncestor names the closest class in the inheritance chain that
// declares the capability directly.
func declaringAncestor(class *attributes.Class, name string) string {
	if class.DeclaresDirectly(name) {
		return class.Name()
	}
	for _, ancestor := range class.Ancestors() {
		if ancestor.DeclaresDirectly(name) {
			return ancestor.Name()
		}
	}
	return "?"
}
