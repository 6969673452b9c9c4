package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tagtree/pkg/html"
)

func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the element kinds known to documents",
		Long: `List the element kinds a JSON document may use.

Unique kinds may appear at most once among a parent's children.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, kind := range html.Kinds() {
				arity := "repeatable"
				if !kind.Repeatable {
					arity = "unique"
				}
				fmt.Fprintf(out, "%-8s %s\n", kind.Name, arity)
			}
		},
	}
}
