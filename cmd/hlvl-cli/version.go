package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-hlvl"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hlvl-cli",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hlvl-cli version %s\n", hlvl.Version)
		},
	}
}
