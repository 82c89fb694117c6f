package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/appxkit/pkg/appx"
	"github.com/joshuapare/appxkit/pkg/repository"
)

var dumpInfo bool

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every family with its packages, then every package",
		Long: `The dump command prints the whole repository: each family followed by
its packages, then the flat list of packages. With --info the attributes
of each package are included.

Example:
  appxctl dump
  appxctl dump --info --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	cmd.Flags().BoolVar(&dumpInfo, "info", false, "Include package attributes")
	return cmd
}

type dumpJSON struct {
	Families []familyJSON             `json:"families"`
	Packages []appx.FullName          `json:"packages"`
	Info     []repository.PackageInfo `json:"info,omitempty"`
}

func runDump(args []string) error {
	repo, release, err := openRepository()
	if err != nil {
		return err
	}
	defer release()

	var out dumpJSON
	families := repo.Families()
	defer families.Close()
	for f := range families.All() {
		pkgs, err := repo.PackagesForFamily(f).Collect()
		if err != nil {
			return fmt.Errorf("failed to list packages of %s: %w", f, err)
		}
		out.Families = append(out.Families, familyJSON{Family: f, Packages: pkgs, Fields: f.Fields()})
	}
	if err := families.Err(); err != nil {
		return fmt.Errorf("failed to list families: %w", err)
	}

	if out.Packages, err = collectPackages(repo); err != nil {
		return err
	}
	if dumpInfo {
		for _, p := range out.Packages {
			info, err := repo.Info(p)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", p, err)
			}
			out.Info = append(out.Info, info)
		}
	}

	if jsonOut {
		if out.Families == nil {
			out.Families = []familyJSON{}
		}
		if out.Packages == nil {
			out.Packages = []appx.FullName{}
		}
		return printJSON(out)
	}

	printHeader("Families")
	printFamilies(out.Families)
	printInfo("\n")
	printHeader("Packages")
	for i, p := range out.Packages {
		printInfo("%s\n", p)
		if dumpInfo {
			info := out.Info[i]
			printInfo("  %s\n", field("Display name", info.DisplayName))
			printInfo("  %s\n", field("Install location", info.InstallLocation))
		}
	}
	return nil
}
