package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/joshuapare/appxkit/internal/testutil"
	"github.com/joshuapare/appxkit/internal/testutil/hivegen"
	"github.com/joshuapare/appxkit/pkg/appx"
	"github.com/joshuapare/appxkit/pkg/repository"
)

const (
	calcFamily  = "Microsoft.WindowsCalculator_8wekyb3d8bbwe"
	calcPackage = "Microsoft.WindowsCalculator_10.2103.8.0_x64__8wekyb3d8bbwe"
	ncsiFamily  = "NcsiUwpApp_8wekyb3d8bbwe"
	ncsiPackage = "NcsiUwpApp_1000.19041.423.0_neutral_neutral_8wekyb3d8bbwe"
)

// testHive writes a hive holding a small package repository and points the
// global --hive flag at it.
func testHive(t *testing.T) string {
	t.Helper()
	root := &hivegen.Key{Subkeys: []*hivegen.Key{
		hivegen.Path(repository.RepositoryPath, &hivegen.Key{Subkeys: []*hivegen.Key{
			{Name: "Families", Subkeys: []*hivegen.Key{
				{Name: calcFamily, Subkeys: []*hivegen.Key{{Name: calcPackage}}},
				{Name: ncsiFamily, Subkeys: []*hivegen.Key{{Name: ncsiPackage}}},
			}},
			{Name: "Packages", Subkeys: []*hivegen.Key{
				{Name: calcPackage, Values: []hivegen.Value{
					hivegen.String(repository.ValueDisplayName, "Windows Calculator"),
					hivegen.QWORD(repository.ValueOSMinVersion, uint64(appx.NewVersion(10, 0, 17763, 0))),
					hivegen.DWORD(repository.ValueSupportedUsers, 2),
					hivegen.String(repository.ValuePackageRootFolder, `C:\Program Files\WindowsApps\Calc`),
				}},
				{Name: ncsiPackage},
			}},
		}}),
	}}
	return testutil.WriteHive(t, root)
}

// resetFlags restores the globals every command reads.
func resetFlags(t *testing.T) {
	t.Helper()
	hivePath = testHive(t)
	mountName = "HKCR"
	configFile = ""
	verbose = false
	quiet = false
	jsonOut = false
	noColor = true
	familiesWithPackages = false
	packagesFamily = ""
	hasFamily = false
	hasPackage = false
	dumpInfo = false
	installProgram = ""
	installArgs = nil
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return capture(t, &os.Stdout, fn)
}

// captureStderr captures stderr while running a function
func captureStderr(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return capture(t, &os.Stderr, fn)
}

func capture(t *testing.T, f **os.File, fn func() error) (string, error) {
	t.Helper()

	orig := *f
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	*f = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	fnErr := fn()

	w.Close()
	*f = orig
	<-done
	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON and decodes it into v
func assertJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// lines splits output into non-empty lines
func lines(output string) []string {
	var out []string
	for _, l := range strings.Split(output, "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
