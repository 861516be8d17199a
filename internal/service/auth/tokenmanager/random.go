package tokenmanager

import (
	"crypto/rand"
	"fmt"
)

// Printable ASCII without whitespace. Random parts are matched byte for byte
// against server storage, so the alphabet only has to be transport safe.
const randomAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// randomString returns a string of length n with every position chosen
// uniformly and independently from the printable alphabet.
// Rejection sampling keeps the choice unbiased.
func randomString(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)

	// 256 % 94 != 0, reject bytes above the largest full multiple
	max := byte(256 - 256%len(randomAlphabet))

	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("error while reading random bytes. Err: %w", err)
		}
		for _, b := range buf {
			if b >= max {
				continue
			}
			out = append(out, randomAlphabet[int(b)%len(randomAlphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}
