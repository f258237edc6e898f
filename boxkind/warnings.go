package boxkind

import "fmt"

// Warning is a non-fatal difference between a ballot box and the current
// configuration. The vote stored in a ballot box legitimately drifts from the
// configuration as voting progresses, so these never reject a box.
type Warning uint8

const (
	WarnPoolBoxAddressDiffers Warning = iota + 1
	WarnRewardTokenIDDiffers
	WarnRewardTokenQuantityDiffers
)

func (w Warning) String() string {
	switch w {
	case WarnPoolBoxAddressDiffers:
		return "pool box address hash in R6 differs from config"
	case WarnRewardTokenIDDiffers:
		return "reward token id in R7 differs from config"
	case WarnRewardTokenQuantityDiffers:
		return "reward token quantity in R8 differs from config"
	default:
		return fmt.Sprintf("warning(%d)", uint8(w))
	}
}

// Warnings is the ordered list of warnings raised for one box.
type Warnings []Warning

// Has reports whether w was raised.
func (ws Warnings) Has(w Warning) bool {
	for _, x := range ws {
		if x == w {
			return true
		}
	}
	return false
}
