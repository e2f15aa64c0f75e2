package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type diagnoseOptions struct {
	jsonOutput bool
	noReport   bool
	reportPath string
	hashDBPath string
}

func newDiagnoseCmd() *cobra.Command {
	var opts diagnoseOptions

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run the full font diagnostic",
		Long: `Run every font check and print a report.

Checks:
  - Font directories exist and are readable
  - The platform font cache is healthy
  - Critical fonts are installed
  - Font matching (fc-match) works
  - The en_US.UTF-8 locale is available
  - Application font settings resolve to installed fonts
  - Installed critical fonts match their reference digests
  - Display scaling uses a standard value

The report is also written to disk unless --no-report is given.`,
		Example: `  # Run the full diagnostic
  fontdoctor diagnose

  # Machine-readable output for scripting
  fontdoctor diagnose --json

  # Use an authoritative reference-digest database
  fontdoctor diagnose --hash-db /path/to/hashes.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiagnose(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&opts.noReport, "no-report", false, "Do not write the report file")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Report file location (default ~/.fontdoctor/report.json)")
	cmd.Flags().StringVar(&opts.hashDBPath, "hash-db", "", "Reference-digest database (YAML)")

	return cmd
}

func runDiagnose(cmd *cobra.Command, opts diagnoseOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(cmd, opts.hashDBPath)
	if err != nil {
		return err
	}

	s.checker.RunAll(ctx)

	if opts.jsonOutput {
		data, err := s.report.MarshalJSON()
		if err != nil {
			return err
		}
		cmd.Println(string(data))
	} else {
		cmd.Println()
		cmd.Print(s.report.Render(s.styles))
	}

	if !opts.noReport {
		path := reportPath(opts.reportPath, s.cfg)
		if err := s.report.Persist(path); err != nil {
			// A failed write never fails the diagnostic itself.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		} else if !opts.jsonOutput {
			cmd.Printf("\nReport written to %s\n", path)
		}
	}
	return nil
}
