package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// InviteAlphabet leaves out I, O, 0 and 1 so codes can be read aloud
const InviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInviteCode returns a random code of the given length drawn from InviteAlphabet
func GenerateInviteCode(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	max := big.NewInt(int64(len(InviteAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		sb.WriteByte(InviteAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeInviteCode trims and upper-cases user input
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
