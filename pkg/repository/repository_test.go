package repository

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/appxkit/internal/testutil"
	"github.com/joshuapare/appxkit/internal/testutil/hivegen"
	"github.com/joshuapare/appxkit/pkg/appx"
	"github.com/joshuapare/appxkit/pkg/reg"
	"github.com/joshuapare/appxkit/pkg/types"
)

const (
	ncsiFamily  = "NcsiUwpApp_8wekyb3d8bbwe"
	ncsiPackage = "NcsiUwpApp_1000.19041.423.0_neutral_neutral_8wekyb3d8bbwe"
	ubuFamily   = "CanonicalGroupLimited.UbuntuonWindows_79rhkp1fndgsc"
	ubuPackage  = "CanonicalGroupLimited.UbuntuonWindows_2004.2020.812.0_x64__79rhkp1fndgsc"
	bareFamily  = "Microsoft.Bare_8wekyb3d8bbwe"
	barePackage = "Microsoft.Bare_1.0.0.0_x86__8wekyb3d8bbwe"
)

func repositoryTree() *hivegen.Key {
	return &hivegen.Key{Subkeys: []*hivegen.Key{
		hivegen.Path(RepositoryPath, &hivegen.Key{Subkeys: []*hivegen.Key{
			{Name: "Families", Subkeys: []*hivegen.Key{
				{Name: ubuFamily, Subkeys: []*hivegen.Key{{Name: ubuPackage}}},
				{Name: ncsiFamily, Subkeys: []*hivegen.Key{{Name: ncsiPackage}}},
				{Name: bareFamily},
			}},
			{Name: "Packages", Subkeys: []*hivegen.Key{
				{Name: ncsiPackage, Values: []hivegen.Value{
					hivegen.String(ValueDisplayName, "@{NcsiUwpApp?ms-resource://NcsiUwpApp/Resources/AppDisplayName}"),
					hivegen.QWORD(ValueOSMinVersion, uint64(appx.NewVersion(10, 0, 19041, 0))),
					hivegen.QWORD(ValueOSMaxVersionTested, uint64(appx.NewVersion(10, 0, 19041, 423))),
					hivegen.DWORD(ValueSupportedUsers, 1),
					hivegen.String(ValuePackageRootFolder, `C:\Windows\SystemApps\NcsiUwpApp_8wekyb3d8bbwe`),
				}},
				{Name: ubuPackage, Values: []hivegen.Value{
					hivegen.String(ValueDisplayName, "Ubuntu 20.04 LTS"),
					hivegen.QWORD(ValueOSMinVersion, uint64(appx.NewVersion(10, 0, 16215, 0))),
					hivegen.String(ValueSupportedUsers, "not a number"),
				}},
				{Name: barePackage},
			}},
		}}),
	}}
}

func openRepo(t *testing.T, opts ...Option) *Repository {
	t.Helper()
	s, err := reg.OpenHive(testutil.WriteHive(t, repositoryTree()), reg.ClassesRoot)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return New(s, opts...)
}

func strs[T interface{ String() string }](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return out
}

func TestFamilies(t *testing.T) {
	r := openRepo(t)
	fams, err := r.Families().Collect()
	require.NoError(t, err)
	require.Equal(t, []string{ubuFamily, bareFamily, ncsiFamily}, strs(fams))

	assert.Equal(t, "CanonicalGroupLimited.UbuntuonWindows", appxText(fams[0].Name()))
	assert.Equal(t, "79rhkp1fndgsc", appxText(fams[0].PublisherID()))
}

func TestPackages(t *testing.T) {
	r := openRepo(t)
	it := r.Packages()
	defer it.Close()

	var got []appx.FullName
	for it.Next() {
		got = append(got, it.Value())
	}
	require.NoError(t, it.Err())
	require.Equal(t, []string{ubuPackage, barePackage, ncsiPackage}, strs(got))
	assert.Equal(t, "x64", appxText(got[0].Architecture()))
	assert.Empty(t, got[0].ResourceID())

	// Exhausted for good.
	require.False(t, it.Next())
}

func TestPackagesForFamily(t *testing.T) {
	r := openRepo(t)
	pkgs, err := r.PackagesForFamily(appx.NewFamilyName(ncsiFamily)).Collect()
	require.NoError(t, err)
	require.Equal(t, []string{ncsiPackage}, strs(pkgs))

	pkgs, err = r.PackagesForFamily(appx.NewFamilyName(bareFamily)).Collect()
	require.NoError(t, err)
	require.Empty(t, pkgs)

	pkgs, err = r.PackagesForFamily(appx.NewFamilyName("Nobody_123")).Collect()
	require.NoError(t, err)
	require.Empty(t, pkgs)

	_, err = r.PackagesForFamily(appx.NewFamilyName("")).Collect()
	require.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestAll_EarlyBreak(t *testing.T) {
	r := openRepo(t)
	it := r.Families()
	for f := range it.All() {
		require.Equal(t, ubuFamily, f.String())
		break
	}
	require.False(t, it.Next())
	require.NoError(t, it.Err())
}

func TestHas(t *testing.T) {
	r := openRepo(t)
	assert.True(t, r.HasFamily(appx.NewFamilyName(ncsiFamily)))
	assert.True(t, r.HasFamily(appx.NewFamilyName(strings.ToUpper(ncsiFamily))))
	assert.False(t, r.HasFamily(appx.NewFamilyName("Missing_123")))
	assert.False(t, r.HasFamily(appx.NewFamilyName("")))

	assert.True(t, r.HasPackage(appx.NewFullName(barePackage)))
	assert.False(t, r.HasPackage(appx.NewFullName(ncsiFamily)))
	assert.False(t, r.HasPackage(appx.NewFullName("")))
}

func TestAttributes(t *testing.T) {
	r := openRepo(t)
	p := appx.NewFullName(ncsiPackage)

	name, err := r.DisplayName(p)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(name, "@{NcsiUwpApp?"))

	v, err := r.OSMinVersion(p)
	require.NoError(t, err)
	require.Equal(t, "10.0.19041.0", v.String())

	v, err = r.OSMaxVersionTested(p)
	require.NoError(t, err)
	require.Equal(t, "10.0.19041.423", v.String())

	n, err := r.SupportedUsers(p)
	require.NoError(t, err)
	require.Equal(t, uint32(1), n)

	loc, err := r.InstallLocation(p)
	require.NoError(t, err)
	require.Contains(t, loc, "NcsiUwpApp_8wekyb3d8bbwe")

	// No caching, same answer every time.
	again, err := r.DisplayName(p)
	require.NoError(t, err)
	require.Equal(t, name, again)
}

func TestAttributes_Errors(t *testing.T) {
	r := openRepo(t)

	_, err := r.DisplayName(appx.NewFullName(barePackage))
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = r.SupportedUsers(appx.NewFullName(ubuPackage))
	require.ErrorIs(t, err, types.ErrTypeMismatch)

	_, err = r.OSMinVersion(appx.NewFullName("Absent_1.0.0.0_x64__abc"))
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestInfo(t *testing.T) {
	r := openRepo(t)

	info, err := r.Info(appx.NewFullName(ncsiPackage))
	require.NoError(t, err)
	require.Equal(t, uint32(1), info.SupportedUsers)
	require.Equal(t, appx.NewVersion(10, 0, 19041, 423), info.OSMaxVersionTested)

	info, err = r.Info(appx.NewFullName(barePackage))
	require.NoError(t, err)
	require.Empty(t, info.DisplayName)
	require.Zero(t, info.OSMinVersion)
	require.Empty(t, info.InstallLocation)

	_, err = r.Info(appx.NewFullName(ubuPackage))
	require.ErrorIs(t, err, types.ErrTypeMismatch)
}

func TestUnsupportedStore(t *testing.T) {
	r := New(reg.Unsupported())

	fams, err := r.Families().Collect()
	require.NoError(t, err)
	require.Empty(t, fams)

	pkgs, err := r.Packages().Collect()
	require.NoError(t, err)
	require.Empty(t, pkgs)

	require.False(t, r.HasFamily(appx.NewFamilyName(ncsiFamily)))
	require.False(t, r.HasPackage(appx.NewFullName(ncsiPackage)))

	_, err = r.DisplayName(appx.NewFullName(ncsiPackage))
	require.ErrorIs(t, err, types.ErrUnsupported)
	_, err = r.SupportedUsers(appx.NewFullName(ncsiPackage))
	require.ErrorIs(t, err, types.ErrUnsupported)
	_, err = r.Info(appx.NewFullName(ncsiPackage))
	require.ErrorIs(t, err, types.ErrUnsupported)
}

func TestMissingRepository(t *testing.T) {
	s, err := reg.OpenHive(testutil.WriteHive(t, &hivegen.Key{Subkeys: []*hivegen.Key{{Name: "Software"}}}), reg.ClassesRoot)
	require.NoError(t, err)
	defer s.Close()

	r := New(s)
	fams, err := r.Families().Collect()
	require.NoError(t, err)
	require.Empty(t, fams)
	require.False(t, r.HasFamily(appx.NewFamilyName(ncsiFamily)))
}

func TestWithRoot(t *testing.T) {
	s, err := reg.OpenHive(testutil.WriteHive(t, repositoryTree()), reg.CurrentUser)
	require.NoError(t, err)
	defer s.Close()

	fams, err := New(s).Families().Collect()
	require.NoError(t, err)
	require.Empty(t, fams)

	fams, err = New(s, WithRoot(reg.CurrentUser)).Families().Collect()
	require.NoError(t, err)
	require.Len(t, fams, 3)
}

// flakyStore yields n names and then fails.
type flakyStore struct {
	n      int
	closed *int
}

func (s flakyStore) OpenRoot(reg.Root, []uint16, reg.Options, reg.Access) (reg.Handle, error) {
	return &flakyHandle{n: s.n, closed: s.closed}, nil
}

type flakyHandle struct {
	n      int
	closed *int
}

var errFlaky = errors.New("device not ready")

func (h *flakyHandle) OpenSubkey([]uint16, reg.Options, reg.Access) (reg.Handle, error) {
	return nil, types.ErrNotFound
}

func (h *flakyHandle) EnumKey(index uint32, buf *reg.NameBuffer) (int, error) {
	if int(index) >= h.n {
		return 0, types.Errorf(types.ErrKindUnknown, "EnumKey", errFlaky, "index %d", index)
	}
	buf[0], buf[1], buf[2] = 'A', '_', 0
	return 2, nil
}

func (h *flakyHandle) QueryString([]uint16, []uint16, []uint16) (int, error) {
	return 0, types.ErrNotFound
}
func (h *flakyHandle) QueryDWORD([]uint16, []uint16) (uint32, error) { return 0, types.ErrNotFound }
func (h *flakyHandle) QueryQWORD([]uint16, []uint16) (uint64, error) { return 0, types.ErrNotFound }

func (h *flakyHandle) Close() error {
	*h.closed++
	return nil
}

func TestIter_StopsOnError(t *testing.T) {
	var closed int
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := New(flakyStore{n: 2, closed: &closed}, WithLogger(logger))
	it := r.Families()
	require.True(t, it.Next())
	require.True(t, it.Next())
	require.False(t, it.Next())
	require.ErrorIs(t, it.Err(), errFlaky)
	require.Equal(t, 1, closed)
	require.False(t, it.Next())

	it.Close()
	require.Equal(t, 1, closed)
	require.Contains(t, logs.String(), "enumeration stopped")
}

func TestIter_OpenFailure(t *testing.T) {
	fams, err := New(nil).Families().Collect()
	require.ErrorIs(t, err, types.ErrInvalidArgument)
	require.Empty(t, fams)
}

func appxText(u []uint16) string { return string(utf16.Decode(u)) }
