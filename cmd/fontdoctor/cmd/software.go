package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fontdoctor/fontdoctor/internal/software"
)

func newSoftwareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "software",
		Short: "Check application font settings",
		Long: `Scan installed applications (Adobe Creative Cloud, Microsoft Office,
Visual Studio Code, IntelliJ IDEA, Alacritty) for font problems: stale font
caches, missing bundled fonts, and configured editor fonts that are not
installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSoftware(cmd)
		},
	}
}

func runSoftware(cmd *cobra.Command) error {
	s, err := newSession(cmd, "")
	if err != nil {
		return err
	}

	scanner := software.NewScanner(s.profile, software.WithLogger(slog.Default()))
	findings := scanner.Scan()
	if len(findings) == 0 {
		cmd.Println(s.styles.OK.Render("No application font issues found."))
		return nil
	}

	cmd.Println(s.styles.Section.Render("Application font issues:"))
	for _, f := range findings {
		cmd.Printf("  %s: %s\n", f.App, s.styles.Issue.Render(f.Detail))
		if f.Suggestion != "" {
			cmd.Printf("    %s\n", s.styles.Suggest.Render(f.Suggestion))
		}
	}
	return nil
}
