package utils

import (
	"crypto/rand"
	"fmt"
)

// InviteCodeAlphabet is the symbol set invite codes are drawn from.
// Uppercase plus digits keeps codes easy to read out loud.
const InviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// InviteCodeLength is the fixed length of room invite codes.
const InviteCodeLength = 6

// GenerateInviteCode returns a random invite code for a private room.
func GenerateInviteCode() (string, error) {
	bytes := make([]byte, InviteCodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}

	for i, b := range bytes {
		bytes[i] = InviteCodeAlphabet[int(b)%len(InviteCodeAlphabet)]
	}

	return string(bytes), nil
}
