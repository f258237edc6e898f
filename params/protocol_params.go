package params

const (
	MinValuePerByte uint64 = 360  // Minimum nanocoins a box must carry per byte of its serialized form.
	MaxBoxSize      int    = 4096 // Maximum size in bytes of a serialized box.
	MaxTokens       int    = 122  // Maximum number of distinct tokens a single box may carry.
	MaxRegisters    int    = 6    // Number of non-mandatory registers (R4 through R9).

	ChecksumLength = 4 // Number of digest bytes appended to an encoded address.
)
