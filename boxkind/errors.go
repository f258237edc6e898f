package boxkind

import "errors"

// Errors returned while recognising or building a ballot box. Errors caused
// by a collaborator (register decoding, contract binding, address parsing)
// wrap both the sentinel below and the original cause.
var (
	ErrExpectedVoteCast = errors.New("ballot box: vote expected to be already cast, but hasn't")

	ErrNoBallotToken                 = errors.New("ballot box: no ballot token found")
	ErrUnknownBallotTokenID          = errors.New("ballot box: unknown ballot token id in TOKENS(0)")
	ErrNoGroupElementInR4            = errors.New("ballot box: no group element in R4 register")
	ErrUnexpectedGroupElementInR4    = errors.New("ballot box: unexpected group element in R4 register")
	ErrNoUpdateBoxCreationHeightInR5 = errors.New("ballot box: no update box creation height in R5 register")
	ErrNoPoolBoxAddressInR6          = errors.New("ballot box: no pool box address hash in R6 register")
	ErrNoRewardTokenIDInR7           = errors.New("ballot box: no reward token id in R7 register")
	ErrNoRewardTokenQuantityInR8     = errors.New("ballot box: no reward token quantity in R8 register")

	ErrBallotContract            = errors.New("ballot box: contract error")
	ErrAddressEncoder            = errors.New("ballot box: address encoder error")
	ErrInvalidPoolBoxAddressHash = errors.New("ballot box: invalid pool box address hash in config")

	ErrRewardTokenQuantityOverflow     = errors.New("ballot box: reward token quantity does not fit in R8")
	ErrUpdateBoxCreationHeightOverflow = errors.New("ballot box: update box creation height does not fit in R5")
)
