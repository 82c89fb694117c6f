package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/appxkit/pkg/appx"
)

var (
	hasFamily  bool
	hasPackage bool
)

// errAbsent makes `has` exit 1. execute prints nothing for it.
var errAbsent = errors.New("not registered")

func init() {
	rootCmd.AddCommand(newHasCmd())
}

func newHasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "has <identity>",
		Short: "Check whether a family or package is registered",
		Long: `The has command checks whether a package family name or package full
name is registered. A name with four or more underscores is taken as a
package full name, anything else as a family name; --family and --package
override the guess. The exit status is 1 when the name is not registered.

Example:
  appxctl has Microsoft.WindowsCalculator_8wekyb3d8bbwe
  appxctl has --package NcsiUwpApp_1000.19041.423.0_neutral_neutral_8wekyb3d8bbwe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHas(args)
		},
	}
	cmd.Flags().BoolVar(&hasFamily, "family", false, "Treat the identity as a family name")
	cmd.Flags().BoolVar(&hasPackage, "package", false, "Treat the identity as a package full name")
	cmd.MarkFlagsMutuallyExclusive("family", "package")
	return cmd
}

type hasJSON struct {
	Identity string `json:"identity"`
	Kind     string `json:"kind"`
	Present  bool   `json:"present"`
}

func identityKind(s string) string {
	switch {
	case hasFamily:
		return "family"
	case hasPackage:
		return "package"
	case strings.Count(s, "_") >= 4:
		return "package"
	default:
		return "family"
	}
}

func runHas(args []string) error {
	repo, release, err := openRepository()
	if err != nil {
		return err
	}
	defer release()

	res := hasJSON{Identity: args[0], Kind: identityKind(args[0])}
	if res.Kind == "package" {
		res.Present = repo.HasPackage(appx.NewFullName(res.Identity))
	} else {
		res.Present = repo.HasFamily(appx.NewFamilyName(res.Identity))
	}

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printInfo("%s %s: %t\n", res.Kind, res.Identity, res.Present)
	}
	if !res.Present {
		return fmt.Errorf("%s %s: %w", res.Kind, res.Identity, errAbsent)
	}
	return nil
}
