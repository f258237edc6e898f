// Package oracleconfig contains the configuration consumed when validating and
// building ballot boxes.
package oracleconfig

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/tos-network/oraclepool/address"
	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/contracts/ballot"
)

var (
	ErrInvalidPoolBoxHash = errors.New("oracleconfig: invalid pool box address hash")
	ErrInvalidOwner       = errors.New("oracleconfig: invalid ballot token owner address")
	ErrUnknownNetwork     = errors.New("oracleconfig: unknown network")
)

// HexBytes is a byte slice written as a base16 string in configuration files.
type HexBytes []byte

// MarshalText implements encoding.TextMarshaler.
func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(b)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *HexBytes) UnmarshalText(text []byte) error {
	raw, err := common.DecodeHex(string(text))
	if err != nil {
		return err
	}
	*b = raw
	return nil
}

// CastBallotBoxVoteParameters describe the vote a committee member has cast.
// They are only set while the pool is actively voting.
type CastBallotBoxVoteParameters struct {
	RewardTokenID       common.TokenID
	RewardTokenQuantity uint32
	PoolBoxAddressHash  string // base16 blake2b256 of the proposed pool box script
}

// PoolBoxAddressDigest decodes PoolBoxAddressHash.
func (p *CastBallotBoxVoteParameters) PoolBoxAddressDigest() (common.Digest32, error) {
	d, err := common.HexToDigest32(p.PoolBoxAddressHash)
	if err != nil {
		return common.Digest32{}, fmt.Errorf("%w: %v", ErrInvalidPoolBoxHash, err)
	}
	return d, nil
}

// BallotContractParameters is the file form of ballot.Parameters.
type BallotContractParameters struct {
	ErgoTreeBytes       HexBytes
	MinStorageRentIndex int
	MinStorageRent      uint64
	UpdateNFTIndex      int
}

// Contract returns the parameters in the form the ballot contract binding uses.
func (p *BallotContractParameters) Contract() *ballot.Parameters {
	return &ballot.Parameters{
		ErgoTreeBytes:       append([]byte(nil), p.ErgoTreeBytes...),
		MinStorageRentIndex: p.MinStorageRentIndex,
		MinStorageRent:      p.MinStorageRent,
		UpdateNFTIndex:      p.UpdateNFTIndex,
	}
}

// BallotBoxWrapperParameters is everything a ballot box is checked against
// apart from the token ids, which callers supply separately.
type BallotBoxWrapperParameters struct {
	ContractParameters      BallotContractParameters
	VoteParameters          *CastBallotBoxVoteParameters `toml:",omitempty"`
	BallotTokenOwnerAddress string
}

// OwnerAddress parses BallotTokenOwnerAddress without checking its network.
func (p *BallotBoxWrapperParameters) OwnerAddress() (address.Address, error) {
	a, err := address.ParseUnchecked(p.BallotTokenOwnerAddress)
	if err != nil {
		return address.Address{}, fmt.Errorf("%w: %v", ErrInvalidOwner, err)
	}
	return a, nil
}

// Validate checks the parameters for syntax errors. It does not require vote
// parameters to be present.
func (p *BallotBoxWrapperParameters) Validate() error {
	if _, err := p.OwnerAddress(); err != nil {
		return err
	}
	if p.VoteParameters != nil {
		if _, err := p.VoteParameters.PoolBoxAddressDigest(); err != nil {
			return err
		}
	}
	return p.ContractParameters.Contract().Validate()
}

// TokenIDs are the pool's token identifiers.
type TokenIDs struct {
	BallotTokenID    common.TokenID
	UpdateNFTTokenID common.TokenID
}

// Config is the top-level configuration file.
type Config struct {
	Network string
	Tokens  TokenIDs
	Ballot  BallotBoxWrapperParameters
}

// Defaults contains the default settings. Token ids, the owner address and the
// contract template have no sensible defaults and must be configured.
var Defaults = Config{
	Network: "mainnet",
	Ballot: BallotBoxWrapperParameters{
		ContractParameters: BallotContractParameters{
			MinStorageRentIndex: 0,
			MinStorageRent:      10_000_000,
			UpdateNFTIndex:      6,
		},
	},
}

// NetworkPrefix returns the address network the config refers to.
func (c *Config) NetworkPrefix() (address.NetworkPrefix, error) {
	switch c.Network {
	case "mainnet", "":
		return address.Mainnet, nil
	case "testnet":
		return address.Testnet, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNetwork, c.Network)
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	network, err := c.NetworkPrefix()
	if err != nil {
		return err
	}
	if err := c.Ballot.Validate(); err != nil {
		return err
	}
	if _, err := address.NewEncoder(network).Parse(c.Ballot.BallotTokenOwnerAddress); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOwner, err)
	}
	return nil
}
