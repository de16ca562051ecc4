package cli

import (
	"fmt"
	"io"
)

// TreeNode is one node of a rendered tree. Children are printed in order.
type TreeNode struct {
	Label    string
	Children []*TreeNode
}

// PrintTree renders a tree with box-drawing connectors:
//
//	OpenSwitch
//	├── OpenSwitch8320
//	└── OpenSwitchVsim
//	    └── OpenSwitchVsimDocker
func PrintTree(w io.Writer, root *TreeNode) {
	fmt.Fprintln(w, root.Label)
	printChildren(w, root.Children, "")
}

func printChildren(w io.Writer, children []*TreeNode, prefix string) {
	for i, child := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		fmt.Fprintln(w, prefix+connector+child.Label)
		printChildren(w, child.Children, childPrefix)
	}
}
