package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored data for the case",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.Close()

			s.forms.Clear(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared case %q\n", s.forms.CaseID())
			return nil
		},
	}
}
