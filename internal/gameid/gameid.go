// Package gameid generates room codes and hand identifiers.
package gameid

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// RoomCodeLength is the length of a room code.
const RoomCodeLength = 8

// roomAlphabet is the character set for room codes.
const roomAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Base32 alphabet used for hand IDs (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource interface for dependency injection of randomness
type RandSource interface {
	IntN(n int) int
}

// Generator handles room code generation with configurable randomness
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a new generator with optional RandSource. A nil
// source uses crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// NewRoomCode returns a random 8-character alphanumeric room code.
func NewRoomCode() string {
	return NewGenerator(nil).RoomCode()
}

// RoomCode returns a room code drawn from the generator's RandSource.
func (g *Generator) RoomCode() string {
	code := make([]byte, RoomCodeLength)
	for i := range code {
		code[i] = roomAlphabet[g.intN(len(roomAlphabet))]
	}
	return string(code)
}

func (g *Generator) intN(n int) int {
	if g.randSource != nil {
		return g.randSource.IntN(n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("failed to generate random room code: " + err.Error())
	}
	return int(v.Int64())
}

// ValidateRoomCode checks that code is 8 characters from [A-Za-z0-9].
func ValidateRoomCode(code string) error {
	if len(code) != RoomCodeLength {
		return fmt.Errorf("room code must be exactly %d characters, got %d", RoomCodeLength, len(code))
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !('A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' || '0' <= c && c <= '9') {
			return fmt.Errorf("invalid character %q at position %d", c, i)
		}
	}
	return nil
}

// NewHandID returns a time-sortable hand identifier: a UUIDv7 encoded as a
// 26-character base32 string.
func NewHandID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("failed to generate hand id: " + err.Error())
	}
	return encodeBase32(id)
}

// encodeBase32 encodes a 128-bit UUID as a 26-character base32 string
func encodeBase32(data [16]byte) string {
	result := make([]byte, 26)

	// 130 bits of output: the final character carries the last 3 bits padded.
	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if bitIndex <= 3 {
			value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < 16 {
				value |= data[byteIndex+1] >> (11 - bitIndex)
			}
		}
		result[i] = alphabet[value]
	}

	return string(result)
}

// ValidateHandID checks that id is a 26-character base32 hand ID.
func ValidateHandID(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("hand ID must be exactly 26 characters, got %d", len(id))
	}
	for i, char := range id {
		if !containsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
