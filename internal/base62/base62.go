// Package base62 injects non-negative integers into the 62-symbol
// alphabet used for short-URL identifiers.
package base62

import (
	"fmt"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = int64(len(alphabet))

// Encode maps a non-negative integer to its base62 representation.
// Encode(0) is "0". Negative input fails with an invalid-argument error.
func Encode(n int64) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("base62: encode: %d is negative", n)
	}

	if n == 0 {
		return "0", nil
	}

	buf := make([]byte, 0, 8)
	for n > 0 {
		buf = append(buf, alphabet[n%base])
		n /= base
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf), nil
}

// EncodeBatch encodes each element of ns in order. It fails on the first
// negative value encountered.
func EncodeBatch(ns []int64) ([]string, error) {
	out := make([]string, 0, len(ns))

	for _, n := range ns {
		s, err := Encode(n)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}
