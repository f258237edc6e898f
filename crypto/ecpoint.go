// Package crypto holds the group element and sigma proposition types used by
// box registers and pay-to-public-key addresses.
package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// EcPointLength is the size of a compressed secp256k1 group element.
const EcPointLength = 33

var ErrInvalidEcPoint = errors.New("crypto: invalid group element")

// EcPoint is a secp256k1 group element. The zero value is the point at
// infinity, which serializes as 33 zero bytes.
type EcPoint struct {
	pub *btcec.PublicKey
}

// NewEcPoint wraps a public key as a group element.
func NewEcPoint(pub *btcec.PublicKey) EcPoint {
	return EcPoint{pub: pub}
}

// ParseEcPoint decodes a compressed group element.
func ParseEcPoint(b []byte) (EcPoint, error) {
	if len(b) != EcPointLength {
		return EcPoint{}, fmt.Errorf("%w: length %d", ErrInvalidEcPoint, len(b))
	}
	if bytes.Equal(b, make([]byte, EcPointLength)) {
		return EcPoint{}, nil
	}
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return EcPoint{}, fmt.Errorf("%w: %v", ErrInvalidEcPoint, err)
	}
	return EcPoint{pub: pub}, nil
}

// IsInfinity reports whether p is the identity element.
func (p EcPoint) IsInfinity() bool { return p.pub == nil }

// PublicKey returns the underlying key, or nil for the identity element.
func (p EcPoint) PublicKey() *btcec.PublicKey { return p.pub }

// Bytes returns the 33-byte compressed encoding.
func (p EcPoint) Bytes() []byte {
	if p.pub == nil {
		return make([]byte, EcPointLength)
	}
	return p.pub.SerializeCompressed()
}

// Equal reports whether p and q are the same point.
func (p EcPoint) Equal(q EcPoint) bool {
	if p.pub == nil || q.pub == nil {
		return p.pub == q.pub
	}
	return p.pub.IsEqual(q.pub)
}

func (p EcPoint) String() string { return hex.EncodeToString(p.Bytes()) }

// ProveDlog is the sigma proposition "prove knowledge of the discrete log of H".
// It is the spending condition behind a pay-to-public-key address.
type ProveDlog struct {
	H EcPoint
}

// NewProveDlog returns the proposition guarding the given point.
func NewProveDlog(h EcPoint) ProveDlog { return ProveDlog{H: h} }

// Equal reports whether both propositions are bound to the same point.
func (pd ProveDlog) Equal(other ProveDlog) bool { return pd.H.Equal(other.H) }
