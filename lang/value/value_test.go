package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	cases := []struct {
		desc string
		a, b Value
		want bool
	}{
		{"equal numbers", Number(1), Number(1), true},
		{"different numbers", Number(1), Number(2), false},
		{"equal strings", String("foo"), String("foo"), true},
		{"different types", Number(1), String("1"), false},
		{"nil equals nil", Nil, Nil, true},
		{"bool equal", Bool(true), Bool(true), true},
		{"bool not equal", Bool(true), Bool(false), false},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			require.Equal(t, c.want, Equal(c.a, c.b))
		})
	}
}

func TestCompareNumbers(t *testing.T) {
	cmp, err := Compare(Number(1), Number(2))
	require.NoError(t, err)
	require.Equal(t, -1, cmp)

	cmp, err = Compare(Number(2), Number(2))
	require.NoError(t, err)
	require.Equal(t, 0, cmp)
}

func TestCompareStrings(t *testing.T) {
	cmp, err := Compare(String("bar"), String("foo"))
	require.NoError(t, err)
	require.Equal(t, -1, cmp)
}

func TestCompareMismatchedTypes(t *testing.T) {
	_, err := Compare(Number(1), String("1"))
	require.Error(t, err)

	_, err = Compare(Bool(true), Bool(false))
	require.Error(t, err)
}

func TestNumberStringFormatsAsInteger(t *testing.T) {
	require.Equal(t, "7", Number(7).String())
	require.Equal(t, "2.5", Number(2.5).String())
}
