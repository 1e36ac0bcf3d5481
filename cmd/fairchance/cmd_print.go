package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/fair-chance/internal/letter"
	"github.com/kingrea/fair-chance/internal/printing"
)

var printFormats = []string{"md", "html", "pdf"}

type printFlags struct {
	letter string
	format string
	output string
}

func newPrintCmd(flags *rootFlags) *cobra.Command {
	pf := &printFlags{}
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render a notice from the stored case",
		Long: "Render the preliminary or final notice from the stored case as Markdown,\n" +
			"HTML or PDF. PDF output needs a local Chrome or Chromium.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrint(cmd, flags, pf)
		},
	}
	f := cmd.Flags()
	f.StringVar(&pf.letter, "letter", "", "Notice to render: preliminary or final (required)")
	f.StringVar(&pf.format, "format", "md", "Output format: "+strings.Join(printFormats, ", "))
	f.StringVarP(&pf.output, "output", "o", "", "Output file (default: stdout)")
	_ = cmd.MarkFlagRequired("letter")
	return cmd
}

func runPrint(cmd *cobra.Command, flags *rootFlags, pf *printFlags) error {
	kind, err := letter.ParseKind(pf.letter)
	if err != nil {
		return err
	}
	format := strings.ToLower(strings.TrimSpace(pf.format))

	s, err := openSession(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer s.Close()

	rec := s.forms.Load(cmd.Context())
	if rec == nil {
		return fmt.Errorf("no stored data for case %q", s.forms.CaseID())
	}
	md, err := letter.Render(kind, *rec)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "md":
		data = []byte(md)
	case "html":
		doc, err := printing.HTML(md, kind.Subject())
		if err != nil {
			return err
		}
		data = []byte(doc)
	case "pdf":
		if pf.output == "" {
			return fmt.Errorf("--format pdf needs -o FILE")
		}
		data, err = printing.NewRenderer(s.cfg.Project.Print.ChromePath).PDF(cmd.Context(), md, kind.Subject())
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", pf.format, strings.Join(printFormats, ", "))
	}

	if pf.output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(pf.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", pf.output, err)
	}
	if s.log != nil {
		s.log.Info("printed %s notice for case %s to %s", kind, s.forms.CaseID(), pf.output)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", pf.output)
	return nil
}
