package ident

import (
	"crypto/rand"
	"strings"
)

// Entity id prefixes. Every id is a 3-letter type prefix followed by a
// 24-character random base-36 suffix.
const (
	Note             = "not"
	Notepad          = "npd"
	ShareCode        = "shr"
	PendingTwoFactor = "tfa"
)

const (
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLen = 24
)

// New generates a random id with the given type prefix.
func New(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + suffixLen)
	b.WriteString(prefix)
	b.WriteString(randomSuffix(suffixLen))
	return b.String()
}

// NewBackupCode generates a single 10-character backup code.
func NewBackupCode() string {
	return randomSuffix(10)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	out := make([]byte, n)
	for i, c := range buf {
		out[i] = alphabet[int(c)%len(alphabet)]
	}
	return string(out)
}

// HasPrefix reports whether id carries the given type prefix and a suffix of
// the expected length.
func HasPrefix(id, prefix string) bool {
	return len(id) == len(prefix)+suffixLen && strings.HasPrefix(id, prefix)
}
