package ident

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

func u(s string) []uint16 { return utf16.Encode([]rune(s)) }

func str(s []uint16) string { return string(utf16.Decode(s)) }

func strs(fields [][]uint16) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = str(f)
	}
	return out
}

func TestSplitFirst(t *testing.T) {
	cases := []struct {
		in, before, after string
	}{
		{"NcsiUwpApp_8wekyb3d8bbwe", "NcsiUwpApp", "8wekyb3d8bbwe"},
		{"CanonicalGroupLimited.Ubuntu20.04onWindows_79rhkp1fndgsc", "CanonicalGroupLimited.Ubuntu20.04onWindows", "79rhkp1fndgsc"},
		{"NoSeparator", "NoSeparator", ""},
		{"a_b_c", "a", "b_c"},
		{"_lead", "", "lead"},
		{"trail_", "trail", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		before, after := SplitFirst(u(tc.in))
		require.Equal(t, tc.before, str(before), tc.in)
		require.Equal(t, tc.after, str(after), tc.in)
	}
}

func TestSplitN(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want []string
	}{
		{"NcsiUwpApp_1000.19041.423.0_neutral_neutral_8wekyb3d8bbwe", 5,
			[]string{"NcsiUwpApp", "1000.19041.423.0", "neutral", "neutral", "8wekyb3d8bbwe"}},
		{"CanonicalGroupLimited.UbuntuonWindows_2004.2020.812.0_x64__79rhkp1fndgsc", 5,
			[]string{"CanonicalGroupLimited.UbuntuonWindows", "2004.2020.812.0", "x64", "", "79rhkp1fndgsc"}},
		{"a_b_c_d_e_f_g", 5, []string{"a", "b", "c", "d", "e_f_g"}},
		{"a_b", 5, []string{"a", "b"}},
		{"abc", 5, []string{"abc"}},
		{"", 5, []string{""}},
		{"a_b_c", 1, []string{"a_b_c"}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, strs(SplitN(u(tc.in), tc.n)), tc.in)
	}
	require.Nil(t, SplitN(u("a_b"), 0))
}

func TestField_MatchesSplitN(t *testing.T) {
	inputs := []string{
		"NcsiUwpApp_1000.19041.423.0_neutral_neutral_8wekyb3d8bbwe",
		"CanonicalGroupLimited.Ubuntu20.04onWindows_2004.2020.812.0_neutral_split.scale-100_79rhkp1fndgsc",
		"a_b_c_d_e_f_g",
		"__",
		"a_b",
		"",
	}
	for _, in := range inputs {
		s := u(in)
		for n := 1; n <= 6; n++ {
			fields := SplitN(s, n)
			for i := -1; i < n+3; i++ {
				want := ""
				if i >= 0 && i < len(fields) {
					want = str(fields[i])
				}
				require.Equal(t, want, str(Field(s, n, i)), "in=%q n=%d i=%d", in, n, i)
			}
		}
	}
}

func TestField_AliasesInput(t *testing.T) {
	s := u("name_version")
	f := Field(s, 5, 1)
	require.Equal(t, "version", str(f))
	require.Same(t, &s[5], &f[0])
}
