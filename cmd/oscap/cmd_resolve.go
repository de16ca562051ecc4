package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <class> <attribute>",
		Short: "Explain how an attribute lookup on a class would resolve",
		Long: `Resolve reports what the attribute mechanism would report at runtime:
whether the class carries the attribute, which other classes declare it when
it does not, or that it exists nowhere in the hierarchy.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHierarchy()
			if err != nil {
				return err
			}
			className, attr := args[0], args[1]
			class, ok := h.Lookup(className)
			if !ok {
				return fmt.Errorf("class %s not found in profile", className)
			}

			if desc, ok := class.Describe(attr); ok {
				fmt.Printf("%s.%s: %s (declared in %s)\n",
					className, attr, desc, declaringAncestor(class, attr))
				return nil
			}
			if owners := h.DeclaringClasses(attr); len(owners) > 0 {
				fmt.Printf("attribute %s was not found in class %s, this attribute is available in %s\n",
					attr, className, strings.Join(owners, ", "))
				return nil
			}
			fmt.Printf("attribute %s was not found in any class of the hierarchy\n", attr)
			return nil
		},
	}
}
