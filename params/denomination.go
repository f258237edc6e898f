package params

// These are the multipliers for coin denominations.
// Example: To get the nanocoin value of an amount in whole coins, use
//
//	value * params.Coin
const (
	NanoCoin = 1
	Coin     = 1e9
)
