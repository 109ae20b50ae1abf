package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtectionRoundTrip(t *testing.T) {
	cases := []Protection{
		{Profile: ProfileA, Level: 1},
		{Profile: ProfileA, Level: 3},
		{Profile: ProfileB, Level: 4},
	}
	for _, p := range cases {
		s := p.String()
		got, err := ParseProtection(s)
		require.NoError(t, err, "ParseProtection(%q)", s)
		require.Equal(t, p, got, "round trip mismatch via %q", s)
	}
}

func TestSizeCUWorkedExample(t *testing.T) {
	p := Protection{Profile: ProfileA, Level: 3}
	require.Equal(t, 35, p.SizeCU(48))
}

func TestParseProtectionRejectsGarbage(t *testing.T) {
	_, err := ParseProtection("garbage")
	require.Error(t, err, "expected error for garbage input")

	_, err = ParseProtection("EEP_9A")
	require.Error(t, err, "expected error for out-of-range level")
}

func TestTPLEncodingDistinguishesProfile(t *testing.T) {
	a := Protection{Profile: ProfileA, Level: 3}
	b := Protection{Profile: ProfileB, Level: 3}
	require.NotEqual(t, b.TPL(), a.TPL(), "expected distinct TPL for profile A vs B")
}
