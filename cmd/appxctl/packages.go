package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/appxkit/pkg/appx"
)

var packagesFamily string

func init() {
	rootCmd.AddCommand(newPackagesCmd())
}

func newPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List installed packages",
		Long: `The packages command lists the full names of all packages in the
repository, or only those of one family with --family.

Example:
  appxctl packages
  appxctl packages --family Microsoft.WindowsCalculator_8wekyb3d8bbwe
  appxctl packages --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackages(args)
		},
	}
	cmd.Flags().StringVarP(&packagesFamily, "family", "f", "", "Only list packages of this family")
	return cmd
}

func runPackages(args []string) error {
	repo, release, err := openRepository()
	if err != nil {
		return err
	}
	defer release()

	var pkgs []appx.FullName
	if packagesFamily != "" {
		pkgs, err = repo.PackagesForFamily(appx.NewFamilyName(packagesFamily)).Collect()
		if err != nil {
			return fmt.Errorf("failed to list packages of %s: %w", packagesFamily, err)
		}
	} else if pkgs, err = collectPackages(repo); err != nil {
		return err
	}

	if jsonOut {
		if pkgs == nil {
			pkgs = []appx.FullName{}
		}
		return printJSON(pkgs)
	}
	for _, p := range pkgs {
		printInfo("%s\n", p)
	}
	printVerbose("%d packages\n", len(pkgs))
	return nil
}
