package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/fair-chance/internal/config"
)

func newCaseCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "case [id]",
		Short: "Show or switch the default case",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(flags)
			if err != nil {
				return err
			}
			if err := config.InitFairChanceDir(dir); err != nil {
				return fmt.Errorf("initialize .fairchance directory: %w", err)
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, cfg.CaseID())
				return nil
			}
			if err := cfg.SetCaseID(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "Default case is now %q\n", cfg.CaseID())
			return nil
		},
	}
}
