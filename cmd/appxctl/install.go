package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joshuapare/appxkit/pkg/install"
)

var (
	installProgram string
	installArgs    []string
)

func init() {
	rootCmd.AddCommand(newInstallCmd())
}

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <path>",
		Short: "Install an .appx or .msix package",
		Long: `The install command registers a package file by running
Add-AppxPackage through PowerShell. --program replaces the installer with
another command, which receives --arg values followed by the path.

Example:
  appxctl install .\App_1.0.0.0_x64.msix
  appxctl install --program ./fake-installer --arg=--dry-run app.msix`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runInstall(ctx, args)
		},
	}
	cmd.Flags().StringVar(&installProgram, "program", "", "Installer program to run instead of PowerShell")
	cmd.Flags().StringArrayVar(&installArgs, "arg", nil, "Argument passed to --program before the path")
	return cmd
}

func runInstall(ctx context.Context, args []string) error {
	path := args[0]
	printVerbose("Installing %s\n", path)

	var err error
	if installProgram != "" {
		in := &install.Installer{Program: installProgram, Args: installArgs, Logger: stderrLogger()}
		err = in.Install(ctx, path)
	} else {
		err = install.AddPackage(ctx, path)
	}
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	printInfo("Installed %s\n", path)
	return nil
}
