// Package box implements ledger outputs ("boxes"): their tokens, typed
// registers, binary serialization and the candidate builder used to create
// new ones.
package box

import (
	"errors"

	"github.com/tos-network/oraclepool/common"
)

var (
	ErrRegisterNotFound = errors.New("box: register not found")
	ErrInvalidRegister  = errors.New("box: invalid register id")
	ErrSparseRegisters  = errors.New("box: registers must be densely packed from R4")
	ErrMissingErgoTree  = errors.New("box: missing ergo tree")
	ErrValueTooLow      = errors.New("box: value below minimum")
	ErrTooManyTokens    = errors.New("box: too many tokens")
	ErrBoxTooLarge      = errors.New("box: serialized box too large")
	ErrZeroTokenAmount  = errors.New("box: token amount must be positive")
	ErrBoxIDMismatch    = errors.New("box: box id does not match contents")
)

// Token is an amount of a token attached to a box.
type Token struct {
	ID     common.TokenID
	Amount uint64
}
