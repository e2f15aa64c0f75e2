// Package cmd provides the CLI commands for fontdoctor.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fontdoctor/fontdoctor/internal/logging"
	"github.com/fontdoctor/fontdoctor/internal/ui"
	"github.com/fontdoctor/fontdoctor/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the fontdoctor CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fontdoctor",
		Short: "Diagnose and repair font installation problems",
		Long: `Fontdoctor inspects the operating system's font installation: font
directories, critical fonts, the font cache, fontconfig, locale, display
scaling, and the font settings of common applications.

Run 'fontdoctor' with no arguments in a terminal for the interactive menu,
or 'fontdoctor diagnose' for a one-shot diagnostic run.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			if !ui.IsTTY(cmd.OutOrStdout()) {
				return cmd.Help()
			}
			return runMenu(cmd)
		},
	}

	cmd.SetVersionTemplate("fontdoctor version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"Enable debug logging to "+logging.DefaultLogDir())
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRun = stopLogging

	cmd.AddCommand(newDiagnoseCmd())
	cmd.AddCommand(newRepairCacheCmd())
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newRestoreDefaultsCmd())
	cmd.AddCommand(newRepairScalingCmd())
	cmd.AddCommand(newSoftwareCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging installs the debug logger when --debug is set.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	cfg := logging.DebugConfig()
	cfg.WriteToStderr = false
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Version))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// runMenu loops the interactive menu until the user quits. Each selection
// dispatches to the same code path as the corresponding subcommand.
func runMenu(cmd *cobra.Command) error {
	styles := ui.StylesFor(cmd.OutOrStdout())
	for {
		sel, err := ui.RunMenu(styles)
		if err != nil {
			return err
		}

		var runErr error
		switch sel.Action {
		case ui.ActionQuit:
			return nil
		case ui.ActionDiagnose:
			runErr = runDiagnose(cmd, diagnoseOptions{})
		case ui.ActionRepairCache:
			runErr = runRepairCache(cmd)
		case ui.ActionInstallFont:
			runErr = runInstall(cmd, sel.FontPath)
		case ui.ActionRestoreDefaults:
			runErr = runRestoreDefaults(cmd)
		case ui.ActionRepairScaling:
			runErr = runRepairScaling(cmd, false)
		case ui.ActionSoftwareIssues:
			runErr = runSoftware(cmd)
		}
		if runErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.Issue.Render(runErr.Error()))
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCmd()
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return cmd.Execute()
}
