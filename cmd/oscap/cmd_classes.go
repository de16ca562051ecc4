package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/HPENetworking/topology-openswitch/pkg/attributes"
	"github.com/HPENetworking/topology-openswitch/pkg/cli"
)

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Show the device class hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHierarchy()
			if err != nil {
				return err
			}
			cli.PrintTree(os.Stdout, classTree(h))
			return nil
		},
	}
}

// classTree renders the hierarchy as a tree. A class with several parents is
// shown under its first parent only.
func classTree(h *attributes.Hierarchy) *cli.TreeNode {
	nodes := map[string]*cli.TreeNode{
		h.Root().Name(): {Label: h.Root().Name() + " (abstract)"},
	}
	for _, c := range h.Subclasses() {
		label := c.Name()
		if c.Abstract() {
			label += " (abstract)"
		}
		nodes[c.Name()] = &cli.TreeNode{Label: label}
	}
	for _, c := range h.Subclasses() {
		parent := nodes[c.Parents()[0].Name()]
		parent.Children = append(parent.Children, nodes[c.Name()])
	}
	return nodes[h.Root().Name()]
}
