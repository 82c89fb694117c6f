package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/appxkit/pkg/appx"
	"github.com/joshuapare/appxkit/pkg/repository"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <package>",
		Short: "Show the attributes recorded for a package",
		Long: `The info command reads the display name, OS version range, supported
users and install location recorded for a package. Attributes the package
does not record are shown empty.

Example:
  appxctl info NcsiUwpApp_1000.19041.423.0_neutral_neutral_8wekyb3d8bbwe
  appxctl info --hive UsrClass.dat --json <package>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type infoJSON struct {
	repository.PackageInfo
	Fields appx.FullFields `json:"fields"`
}

func runInfo(args []string) error {
	repo, release, err := openRepository()
	if err != nil {
		return err
	}
	defer release()

	p := appx.NewFullName(args[0])
	if !repo.HasPackage(p) {
		return fmt.Errorf("package %s is not registered", p)
	}
	info, err := repo.Info(p)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", p, err)
	}

	if jsonOut {
		return printJSON(infoJSON{PackageInfo: info, Fields: p.Fields()})
	}
	printHeader(p.String())
	printInfo("%s\n", field("Display name", info.DisplayName))
	printInfo("%s\n", field("OS min version", info.OSMinVersion.String()))
	printInfo("%s\n", field("OS max version tested", info.OSMaxVersionTested.String()))
	printInfo("%s\n", field("Supported users", strconv.FormatUint(uint64(info.SupportedUsers), 10)))
	printInfo("%s\n", field("Install location", info.InstallLocation))
	return nil
}
