// cmd/fairchance/main.go
//
// Entry point for the fairchance CLI. Run with no subcommand to open the
// guided workflow in the terminal; the subcommands inspect, clear and print
// the stored case without starting the TUI.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/fair-chance/internal/config"
	"github.com/kingrea/fair-chance/internal/tui"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	dir    string
	caseID string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "fairchance",
		Short: "Guided fair chance hiring assessment for San Diego employers",
		Long: "fairchance walks an employer through the individualized assessment,\n" +
			"preliminary notice, reassessment and final decision required before\n" +
			"revoking a conditional offer because of conviction history.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(flags)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.dir, "dir", "", "Project directory holding .fairchance (default: working directory)")
	pf.StringVar(&flags.caseID, "case", "", "Case to open (default: case_id from config)")

	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newClearCmd(flags))
	root.AddCommand(newPrintCmd(flags))
	root.AddCommand(newCaseCmd(flags))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(flags *rootFlags) error {
	dir, err := projectDir(flags)
	if err != nil {
		return err
	}
	if err := config.InitFairChanceDir(dir); err != nil {
		return fmt.Errorf("initialize .fairchance directory: %w", err)
	}

	app, err := tui.NewApp(dir, tui.WithCaseID(flags.caseID))
	if err != nil {
		return err
	}
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
