package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/staging"
)

func newAreasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "areas",
		Short: "List staged runs per model type",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			workspace := staging.New(cfg.Workspace.BaseDir)
			out := cmd.OutOrStdout()

			for _, modelType := range model.ModelTypes() {
				dir, err := workspace.ResolveArea(modelType)
				if err != nil {
					return err
				}
				runs, err := workspace.Runs(modelType)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t%d runs\n", modelType, dir, len(runs))
				for _, id := range runs {
					fmt.Fprintf(out, "  %s\n", id)
				}
			}
			return nil
		},
	}
}
