// Package common contains fixed-size byte types shared across the oracle pool packages.
package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const (
	// DigestLength is the expected length of a digest or identifier.
	DigestLength = 32
)

var (
	ErrInvalidHex    = errors.New("common: invalid hex string")
	ErrInvalidLength = errors.New("common: invalid digest length")
)

// Digest32 is a 32-byte blake2b256 digest.
type Digest32 [DigestLength]byte

// TokenID identifies a token. It equals the id of the first input box of the
// transaction that issued it.
type TokenID Digest32

// BytesToDigest32 converts b into a Digest32. Unlike the go-ethereum style
// BytesToHash helpers, b must have exactly DigestLength bytes.
func BytesToDigest32(b []byte) (Digest32, error) {
	var d Digest32
	if len(b) != DigestLength {
		return d, fmt.Errorf("%w: have %d, want %d", ErrInvalidLength, len(b), DigestLength)
	}
	copy(d[:], b)
	return d, nil
}

// HexToDigest32 decodes a base16 string, with or without 0x prefix.
func HexToDigest32(s string) (Digest32, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return Digest32{}, err
	}
	return BytesToDigest32(b)
}

// Bytes returns a copy of the digest as a byte slice.
func (d Digest32) Bytes() []byte { return append([]byte(nil), d[:]...) }

// Hex returns the lowercase base16 encoding of d.
func (d Digest32) Hex() string { return hex.EncodeToString(d[:]) }

func (d Digest32) String() string { return d.Hex() }

// IsZero reports whether all bytes of d are zero.
func (d Digest32) IsZero() bool { return d == Digest32{} }

// BytesToTokenID converts b into a TokenID; b must be exactly 32 bytes long.
func BytesToTokenID(b []byte) (TokenID, error) {
	d, err := BytesToDigest32(b)
	return TokenID(d), err
}

// HexToTokenID decodes a base16 token id.
func HexToTokenID(s string) (TokenID, error) {
	d, err := HexToDigest32(s)
	return TokenID(d), err
}

// Bytes returns a copy of the id as a byte slice.
func (id TokenID) Bytes() []byte { return Digest32(id).Bytes() }

// Hex returns the lowercase base16 encoding of id.
func (id TokenID) Hex() string { return Digest32(id).Hex() }

func (id TokenID) String() string { return id.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (id TokenID) MarshalText() ([]byte, error) { return []byte(id.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *TokenID) UnmarshalText(text []byte) error {
	v, err := HexToTokenID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest32) MarshalText() ([]byte, error) { return []byte(d.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest32) UnmarshalText(text []byte) error {
	v, err := HexToDigest32(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// DecodeHex decodes a base16 string. A leading 0x is accepted and surrounding
// whitespace is ignored.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return b, nil
}

// Blake2b256 hashes the concatenation of data.
func Blake2b256(data ...[]byte) Digest32 {
	h, _ := blake2b.New256(nil)
	for _, b := range data {
		h.Write(b)
	}
	var d Digest32
	h.Sum(d[:0])
	return d
}
