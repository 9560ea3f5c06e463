package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-hlvl/pkg/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hlvl-cli",
		Short:         "Convert VariaMos XML and SPLOT models to HLVL",
		Long:          `hlvl-cli fetches a model, stages it, converts it to HLVL and prints the result as JSON or an HTML report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML configuration file")

	root.AddCommand(newTransformCmd(), newAreasCmd(), newVersionCmd())
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
