package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/appxkit/pkg/appx"
)

func init() {
	rootCmd.AddCommand(newParseCmd())
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <identity>",
		Short: "Split a family or package name into its fields",
		Long: `The parse command splits a package family name or package full name
into its fields without touching the registry. The --family and --package
flags of the has command apply the same way here.

Example:
  appxctl parse Microsoft.WindowsCalculator_8wekyb3d8bbwe
  appxctl parse --json NcsiUwpApp_1000.19041.423.0_neutral_neutral_8wekyb3d8bbwe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args)
		},
	}
	cmd.Flags().BoolVar(&hasFamily, "family", false, "Treat the identity as a family name")
	cmd.Flags().BoolVar(&hasPackage, "package", false, "Treat the identity as a package full name")
	cmd.MarkFlagsMutuallyExclusive("family", "package")
	return cmd
}

func runParse(args []string) error {
	if identityKind(args[0]) == "family" {
		f := appx.NewFamilyName(args[0])
		fields := f.Fields()
		if jsonOut {
			return printJSON(fields)
		}
		printInfo("%s\n", field("Name", fields.Name))
		printInfo("%s\n", field("Publisher ID", fields.PublisherID))
		return nil
	}

	p := appx.NewFullName(args[0])
	fields := p.Fields()
	if jsonOut {
		return printJSON(struct {
			appx.FullFields
			Family appx.FamilyName `json:"family"`
		}{fields, p.Family()})
	}
	printInfo("%s\n", field("Name", fields.Name))
	printInfo("%s\n", field("Version", fields.Version))
	if _, err := p.ParsedVersion(); err != nil {
		printVerbose("version does not parse: %v\n", err)
	}
	printInfo("%s\n", field("Architecture", fields.Architecture))
	printInfo("%s\n", field("Resource ID", fields.ResourceID))
	printInfo("%s\n", field("Publisher ID", fields.PublisherID))
	printInfo("%s\n", field("Family", p.Family().String()))
	return nil
}
