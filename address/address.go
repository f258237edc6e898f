// Package address implements the base58 address encoding of box guarding
// scripts: pay-to-public-key, pay-to-script-hash and pay-to-script.
package address

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/crypto"
	"github.com/tos-network/oraclepool/ergotree"
	"github.com/tos-network/oraclepool/params"
)

// NetworkPrefix is the high nibble of an address prefix byte.
type NetworkPrefix byte

const (
	Mainnet NetworkPrefix = 0x00
	Testnet NetworkPrefix = 0x10
)

func (n NetworkPrefix) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return fmt.Sprintf("network(0x%02x)", byte(n))
	}
}

// AddressType is the low nibble of an address prefix byte.
type AddressType byte

const (
	P2PK AddressType = 1
	P2SH AddressType = 2
	P2S  AddressType = 3
)

// p2shHashLength is the number of script hash bytes kept by a P2SH address.
const p2shHashLength = 24

var (
	ErrInvalidBase58   = errors.New("address: invalid base58 string")
	ErrInvalidChecksum = errors.New("address: checksum mismatch")
	ErrInvalidNetwork  = errors.New("address: unexpected network prefix")
	ErrInvalidType     = errors.New("address: unknown address type")
	ErrInvalidPayload  = errors.New("address: invalid address payload")
)

// Address is a decoded address without network information.
type Address struct {
	kind    AddressType
	content []byte
	pk      crypto.ProveDlog
}

// NewP2PK returns the pay-to-public-key address for pd.
func NewP2PK(pd crypto.ProveDlog) Address {
	return Address{kind: P2PK, content: pd.H.Bytes(), pk: pd}
}

// NewP2S returns the pay-to-script address carrying the full tree.
func NewP2S(tree *ergotree.ErgoTree) (Address, error) {
	b, err := tree.Bytes()
	if err != nil {
		return Address{}, err
	}
	return Address{kind: P2S, content: b}, nil
}

// NewP2SH returns the pay-to-script-hash address of the tree.
func NewP2SH(tree *ergotree.ErgoTree) (Address, error) {
	h, err := tree.Hash()
	if err != nil {
		return Address{}, err
	}
	return Address{kind: P2SH, content: h[:p2shHashLength]}, nil
}

// Type returns the address type.
func (a Address) Type() AddressType { return a.kind }

// Content returns a copy of the address payload.
func (a Address) Content() []byte { return append([]byte(nil), a.content...) }

// ProveDlog returns the guarding public key of a P2PK address.
func (a Address) ProveDlog() (crypto.ProveDlog, bool) {
	if a.kind != P2PK {
		return crypto.ProveDlog{}, false
	}
	return a.pk, true
}

// Equal reports whether a and b denote the same spending condition.
func (a Address) Equal(b Address) bool {
	return a.kind == b.kind && bytes.Equal(a.content, b.content)
}

// Encoder converts addresses to and from strings for one network.
type Encoder struct {
	network NetworkPrefix
}

// NewEncoder returns an encoder bound to the given network.
func NewEncoder(network NetworkPrefix) Encoder {
	return Encoder{network: network}
}

// Network returns the encoder's network prefix.
func (e Encoder) Network() NetworkPrefix { return e.network }

// Encode returns the base58 string form of a.
func (e Encoder) Encode(a Address) string {
	raw := make([]byte, 0, 1+len(a.content)+params.ChecksumLength)
	raw = append(raw, byte(e.network)+byte(a.kind))
	raw = append(raw, a.content...)
	sum := common.Blake2b256(raw)
	raw = append(raw, sum[:params.ChecksumLength]...)
	return base58.Encode(raw)
}

// Parse decodes s and checks that it belongs to the encoder's network.
func (e Encoder) Parse(s string) (Address, error) {
	network, addr, err := decode(s)
	if err != nil {
		return Address{}, err
	}
	if network != e.network {
		return Address{}, fmt.Errorf("%w: got %v, expected %v", ErrInvalidNetwork, network, e.network)
	}
	return addr, nil
}

// ParseUnchecked decodes s, verifying the checksum but accepting any network.
func ParseUnchecked(s string) (Address, error) {
	_, addr, err := decode(s)
	return addr, err
}

func decode(s string) (NetworkPrefix, Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return 0, Address{}, fmt.Errorf("%w: %v", ErrInvalidBase58, err)
	}
	if len(raw) < 1+params.ChecksumLength+1 {
		return 0, Address{}, ErrInvalidPayload
	}
	body, checksum := raw[:len(raw)-params.ChecksumLength], raw[len(raw)-params.ChecksumLength:]
	sum := common.Blake2b256(body)
	if !bytes.Equal(sum[:params.ChecksumLength], checksum) {
		return 0, Address{}, ErrInvalidChecksum
	}
	network := NetworkPrefix(body[0] & 0xf0)
	content := append([]byte(nil), body[1:]...)

	switch kind := AddressType(body[0] & 0x0f); kind {
	case P2PK:
		p, err := crypto.ParseEcPoint(content)
		if err != nil {
			return 0, Address{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return network, NewP2PK(crypto.NewProveDlog(p)), nil
	case P2SH:
		if len(content) != p2shHashLength {
			return 0, Address{}, fmt.Errorf("%w: script hash of %d bytes", ErrInvalidPayload, len(content))
		}
		return network, Address{kind: P2SH, content: content}, nil
	case P2S:
		if _, err := ergotree.Parse(content); err != nil {
			return 0, Address{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return network, Address{kind: P2S, content: content}, nil
	default:
		return 0, Address{}, fmt.Errorf("%w: %d", ErrInvalidType, kind)
	}
}
