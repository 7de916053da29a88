package base62_test

import (
	"testing"

	"github.com/Kalex-k/urlshortener/internal/base62"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{9, "9"},
		{10, "A"},
		{35, "Z"},
		{36, "a"},
		{61, "z"},
		{62, "10"},
		{124, "20"},
	}

	for _, c := range cases {
		got, err := base62.Encode(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestEncodeNegative(t *testing.T) {
	_, err := base62.Encode(-1)
	assert.Error(t, err)
}

func TestEncodeInjective(t *testing.T) {
	seen := make(map[string]int64)

	for n := int64(0); n < 5000; n++ {
		got, err := base62.Encode(n)
		require.NoError(t, err)

		if prev, ok := seen[got]; ok {
			t.Fatalf("collision: %d and %d both encode to %q", prev, n, got)
		}

		seen[got] = n
	}
}

func TestEncodeBatch(t *testing.T) {
	out, err := base62.EncodeBatch([]int64{0, 1, 62})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "10"}, out)

	_, err = base62.EncodeBatch([]int64{1, -2, 3})
	assert.Error(t, err)
}
