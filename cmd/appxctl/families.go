package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/appxkit/pkg/appx"
	"github.com/joshuapare/appxkit/pkg/repository"
)

var familiesWithPackages bool

func init() {
	rootCmd.AddCommand(newFamiliesCmd())
}

func newFamiliesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "families",
		Short: "List installed package families",
		Long: `The families command lists every package family registered in the
repository, in registry order. With --packages each family is followed by
the packages installed for it.

Example:
  appxctl families
  appxctl families --packages
  appxctl families --hive UsrClass.dat --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFamilies(args)
		},
	}
	cmd.Flags().BoolVarP(&familiesWithPackages, "packages", "p", false, "List each family's packages")
	return cmd
}

type familyJSON struct {
	Family   appx.FamilyName   `json:"family"`
	Packages []appx.FullName   `json:"packages,omitempty"`
	Fields   appx.FamilyFields `json:"fields"`
}

func runFamilies(args []string) error {
	repo, release, err := openRepository()
	if err != nil {
		return err
	}
	defer release()

	families, err := repo.Families().Collect()
	if err != nil {
		return fmt.Errorf("failed to list families: %w", err)
	}

	out := make([]familyJSON, 0, len(families))
	for _, f := range families {
		entry := familyJSON{Family: f, Fields: f.Fields()}
		if familiesWithPackages {
			entry.Packages, err = repo.PackagesForFamily(f).Collect()
			if err != nil {
				return fmt.Errorf("failed to list packages of %s: %w", f, err)
			}
		}
		out = append(out, entry)
	}

	if jsonOut {
		return printJSON(out)
	}
	printFamilies(out)
	return nil
}

func printFamilies(families []familyJSON) {
	for _, f := range families {
		printInfo("%s\n", f.Family)
		for _, p := range f.Packages {
			printInfo("  %s\n", p)
		}
	}
	printVerbose("%d families\n", len(families))
}

// collectPackages drains the full package listing.
func collectPackages(repo *repository.Repository) ([]appx.FullName, error) {
	pkgs, err := repo.Packages().Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return pkgs, nil
}
