package auth

import "math/rand"

const (
	tokenLength   = 32
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// randomToken returns n characters drawn from the 62-symbol alphanumeric
// alphabet. Non-cryptographic by design: 32 characters over 62 symbols is
// ~190 bits, and every token row is single-use-replaceable.
func randomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return string(b)
}
