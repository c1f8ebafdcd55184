package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const shareLinkAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewShareLink returns a random alphanumeric token of length n.
func NewShareLink(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("share link length must be positive, got %d", n)
	}
	max := big.NewInt(int64(len(shareLinkAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate share link: %w", err)
		}
		buf[i] = shareLinkAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
