package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fontdoctor/fontdoctor/internal/fontinstall"
)

func newRepairCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair-cache",
		Short: "Rebuild the platform font cache",
		Long: `Rebuild the font cache. On Linux this runs 'fc-cache -f -v'; other
platforms print the manual steps.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepairCache(cmd)
		},
	}
}

func runRepairCache(cmd *cobra.Command) error {
	s, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	s.checker.RepairCache(cmd.Context())
	return nil
}

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "install <font-file>",
		Short:   "Install a font file into the system font directory",
		Args:    cobra.ExactArgs(1),
		Example: "  fontdoctor install ~/Downloads/FiraCode.ttf",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args[0])
		},
	}
}

func runInstall(cmd *cobra.Command, fontPath string) error {
	s, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	inst := fontinstall.New(s.profile, s.report)
	if err := inst.Install(cmd.Context(), fontPath); err != nil {
		return err
	}
	cmd.Printf("Installed %s into %s\n", fontPath, s.profile.PrimaryFontDir())
	return nil
}

func newRestoreDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore-defaults",
		Short: "Show how to restore the platform's default fonts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRestoreDefaults(cmd)
		},
	}
}

func runRestoreDefaults(cmd *cobra.Command) error {
	s, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	s.checker.RestoreDefaults()
	return nil
}

func newRepairScalingCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "repair-scaling",
		Short: "Show how to fix display scaling, optionally applying the fix",
		Long: `Print the steps to reset display scaling to a standard value. With
--apply, platforms that expose a single settings command (Linux gsettings)
have it run directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepairScaling(cmd, apply)
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Run the platform's scaling reset command")
	return cmd
}

func runRepairScaling(cmd *cobra.Command, apply bool) error {
	s, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	s.checker.RepairScaling(cmd.Context(), apply)
	return nil
}
